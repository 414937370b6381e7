// Package config holds the layout configuration of the chart.
//
// A Config maps directly onto a YAML file. Every field has a default taken
// from one of the two presets, so a file only needs to list what it changes:
//
//	preset: timeline
//	canvas:
//	  width: 1600
//	colors:
//	  palette: set2
//
// Proportions (margins, strip heights, stroke widths) are fractions of the
// canvas so that a resized render is a scaled copy of the original.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownPreset is returned for a preset name that is not registered.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrInvalidConfig is wrapped by every validation failure.
	ErrInvalidConfig = errors.New("invalid config")
)

// Preset names.
const (
	PresetLeavings = "leavings"
	PresetTimeline = "timeline"
)

// Margins are fractions of the canvas size: Top and Bottom of the height,
// Left and Right of the width.
type Margins struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// Chart controls the split of the plot area and the stroke weights.
type Chart struct {
	DistanceHeight  float64 `yaml:"distance_height"`  // Share of the plot height given to the distance strip
	BarWidth        float64 `yaml:"bar_width"`        // Share of the distance strip height covered by the distance bar
	TimeShare       float64 `yaml:"time_share"`       // Share of the main chart height covered by the full time span
	GapShare        float64 `yaml:"gap_share"`        // Gap after each place, as a share of the main chart height
	TimeAxisWidth   float64 `yaml:"time_axis_width"`  // Share of the plot width given to the time-axis strip (0 disables it)
	ShowConnectors  bool    `yaml:"show_connectors"`  // Draw the curved connectors and their legend
	PlaceStroke     float64 `yaml:"place_stroke"`     // Place bar stroke width, in hundredths of the main chart height
	ConnectorStroke float64 `yaml:"connector_stroke"` // Connector stroke width, in hundredths of the main chart height
	FontScale       float64 `yaml:"font_scale"`       // Font size per unit text multiplier, as a share of the canvas height
}

// Colors configures the fills and strokes.
type Colors struct {
	Background string   `yaml:"background"`     // Canvas background (#rrggbb)
	Ink        string   `yaml:"ink"`            // Colour of connectors, legend lines and text (#rrggbb)
	Palette    string   `yaml:"palette"`        // Named categorical palette, see Palettes
	Custom     []string `yaml:"custom_palette"` // Explicit palette; overrides Palette when non-empty
}

// Text holds the fixed strings drawn on the chart.
type Text struct {
	FontFamily      string `yaml:"font_family"`
	Title           string `yaml:"title"`
	Subtitle        string `yaml:"subtitle"`
	DistanceCaption string `yaml:"distance_caption"`
	UncertainSuffix string `yaml:"uncertain_suffix"` // Appended to uncertain start years
}

// LegendEntry pairs a connector dash style with its description.
type LegendEntry struct {
	Dash        string `yaml:"dash"`
	Description string `yaml:"description"`
}

// Canvas is the default output size in pixels.
type Canvas struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the complete chart configuration.
type Config struct {
	Preset  string            `yaml:"preset"`
	Canvas  Canvas            `yaml:"canvas"`
	Margins Margins           `yaml:"margins"`
	Chart   Chart             `yaml:"chart"`
	Colors  Colors            `yaml:"colors"`
	Text    Text              `yaml:"text"`
	Reasons map[string]string `yaml:"reasons"` // Reason for leaving -> connector dash array; unlisted reasons are solid
	Legend  []LegendEntry     `yaml:"legend"`
}

// Default returns the leavings preset.
func Default() Config {
	c, _ := Preset(PresetLeavings)
	return c
}

// Preset returns a fresh copy of the named preset.
//
//   - leavings: place bars joined by dashed connectors, a reason legend and
//     the distance strip underneath.
//   - timeline: place bars with a coloured time-axis strip on the left
//     instead of connectors, tighter margins and the Tableau10 palette.
func Preset(name string) (Config, error) {
	c := Config{
		Preset: PresetLeavings,
		Canvas: Canvas{Width: 1200, Height: 800},
		Margins: Margins{
			Top:    0.04,
			Right:  0.1,
			Bottom: 0,
			Left:   0.1,
		},
		Chart: Chart{
			DistanceHeight:  0.2,
			BarWidth:        1.0 / 6,
			TimeShare:       2.0 / 3,
			GapShare:        1.0 / 24,
			ShowConnectors:  true,
			PlaceStroke:     8,
			ConnectorStroke: 0.5,
			FontScale:       0.03,
		},
		Colors: Colors{
			Background: "#ffffff",
			Ink:        "#000000",
			Palette:    "set2",
		},
		Text: Text{
			FontFamily:      "sans-serif",
			Title:           "Leavings",
			Subtitle:        "When, Where, and How Far",
			DistanceCaption: "distance travelled to new place",
			UncertainSuffix: " (ish)",
		},
		Reasons: map[string]string{
			"personal": "3",
			"religion": "11",
		},
		Legend: []LegendEntry{
			{Dash: "none", Description: "Better Opportunities"},
			{Dash: "11", Description: "Religious Persecution"},
			{Dash: "3", Description: "Personal Reasons"},
		},
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetLeavings:
		return c, nil
	case PresetTimeline:
		c.Preset = PresetTimeline
		c.Margins = Margins{Top: 0.06, Right: 0.05, Bottom: 0.02, Left: 0.05}
		c.Chart.TimeAxisWidth = 0.08
		c.Chart.ShowConnectors = false
		c.Colors.Palette = "tableau10"
		return c, nil
	default:
		return Config{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
}

// PresetNames lists the registered presets.
func PresetNames() []string { return []string{PresetLeavings, PresetTimeline} }

// Load reads a YAML configuration on top of a preset. The preset is, in
// order of precedence, the preset argument, the file's own preset key, or
// leavings. An empty path returns the preset unchanged.
func Load(path, preset string) (Config, error) {
	if path == "" {
		c, err := Preset(preset)
		if err != nil {
			return Config{}, err
		}
		return c, c.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}
	return Parse(data, preset)
}

// Parse is Load for an in-memory document.
func Parse(data []byte, preset string) (Config, error) {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}
	if preset == "" {
		preset = head.Preset
	}

	c, err := Preset(preset)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}
	// The preset argument wins over the file's key.
	base, _ := Preset(preset)
	c.Preset = base.Preset

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	fail := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fail("canvas must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	m := c.Margins
	for _, f := range []float64{m.Top, m.Right, m.Bottom, m.Left} {
		if f < 0 || f >= 1 {
			return fail("margins must be fractions in [0,1), got %+v", m)
		}
	}
	if m.Left+m.Right >= 1 || m.Top+m.Bottom >= 1 {
		return fail("margins leave no room for the chart: %+v", m)
	}

	ch := c.Chart
	if ch.DistanceHeight < 0 || ch.DistanceHeight >= 1 {
		return fail("chart.distance_height must be in [0,1), got %g", ch.DistanceHeight)
	}
	if ch.BarWidth <= 0 || ch.BarWidth > 1 {
		return fail("chart.bar_width must be in (0,1], got %g", ch.BarWidth)
	}
	if ch.TimeShare <= 0 || ch.TimeShare > 1 {
		return fail("chart.time_share must be in (0,1], got %g", ch.TimeShare)
	}
	if ch.GapShare < 0 {
		return fail("chart.gap_share must not be negative, got %g", ch.GapShare)
	}
	if ch.TimeAxisWidth < 0 || ch.TimeAxisWidth >= 1 {
		return fail("chart.time_axis_width must be in [0,1), got %g", ch.TimeAxisWidth)
	}
	if ch.PlaceStroke < 0 || ch.ConnectorStroke < 0 {
		return fail("stroke widths must not be negative")
	}
	if ch.FontScale <= 0 {
		return fail("chart.font_scale must be positive, got %g", ch.FontScale)
	}

	if !isHexColor(c.Colors.Background) || !isHexColor(c.Colors.Ink) {
		return fail("colors.background and colors.ink must be #rrggbb, got %q and %q", c.Colors.Background, c.Colors.Ink)
	}
	if _, err := c.Colors.Resolve(); err != nil {
		return fail("%v", err)
	}

	reasons := make([]string, 0, len(c.Reasons))
	for r := range c.Reasons {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		if _, err := ParseDash(c.Reasons[r]); err != nil {
			return fail("reasons.%s: %v", r, err)
		}
	}
	for i, e := range c.Legend {
		if _, err := ParseDash(e.Dash); err != nil {
			return fail("legend[%d]: %v", i, err)
		}
	}
	return nil
}

// DashFor returns the dash array of the connector leaving towards a place
// for the given reason. Unknown reasons and invalid arrays are solid.
func (c Config) DashFor(reason string) []float64 {
	d, err := ParseDash(c.Reasons[reason])
	if err != nil {
		return nil
	}
	return d
}

// DashArray is the entry's parsed dash array. Arrays that Validate would
// reject draw solid, so a Config that skipped validation still renders.
func (e LegendEntry) DashArray() []float64 {
	d, err := ParseDash(e.Dash)
	if err != nil {
		return nil
	}
	return d
}

// ParseDash parses an SVG stroke-dasharray value. "", "none" and "0" are
// solid and yield nil.
func ParseDash(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return nil, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	dash := make([]float64, 0, len(fields))
	allZero := true
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad dash array %q", s)
		}
		if v < 0 {
			return nil, fmt.Errorf("negative dash length in %q", s)
		}
		if v != 0 {
			allZero = false
		}
		dash = append(dash, v)
	}
	if allZero {
		return nil, nil
	}
	return dash, nil
}
