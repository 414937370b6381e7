// Package layout turns a history and a configuration into screen-space
// geometry: the sub-chart regions, the scales, and where every place lands.
// Nothing here draws; see package scene.
package layout

import (
	"leavings/internal/config"
	"leavings/internal/history"
)

// Size is a container size in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Scale multiplies both dimensions by k.
func (s Size) Scale(k float64) Size { return Size{Width: s.Width * k, Height: s.Height * k} }

// Frame holds the regions of the canvas. All lengths are pixels. X and Y
// offsets inside the plot are relative to (Left, Top).
type Frame struct {
	Container Size

	Left, Top, Right, Bottom float64 // margins

	Width, Height float64 // plot area inside the margins

	TimeAxisWidth  float64 // left strip, 0 when disabled
	MainX          float64 // x of the main chart inside the plot
	MainWidth      float64
	MainHeight     float64
	DistanceHeight float64 // strip below the main chart
}

// Placement is the derived geometry of one visit. It is rebuilt on every
// render and never stored.
type Placement struct {
	Index int
	Visit history.Visit

	BandStart float64 // left edge of the place's band, main chart coords
	X         float64 // band centre, main chart coords

	StartY float64 // top of the place bar
	EndY   float64 // bottom of the place bar

	Colour string

	SegmentStart       float64 // distance travelled before this place
	CumulativeDistance float64 // distance travelled up to and including it
	DistanceX          float64 // distance bar segment, main chart coords
	DistanceWidth      float64
}

// Layout is everything a renderer needs to know about positions.
type Layout struct {
	Frame      Frame
	Places     Band
	Time       Linear // years elapsed -> y
	Distance   Linear // distance -> x
	Gap        float64
	Bottom     float64 // cumulative y after the last gap
	Placements []Placement
}

// ComputeFrame splits the container into regions.
func ComputeFrame(cfg config.Config, size Size) Frame {
	f := Frame{
		Container: size,
		Top:       cfg.Margins.Top * size.Height,
		Right:     cfg.Margins.Right * size.Width,
		Bottom:    cfg.Margins.Bottom * size.Height,
		Left:      cfg.Margins.Left * size.Width,
	}
	f.Width = size.Width - (f.Left + f.Right)
	f.Height = size.Height - (f.Top + f.Bottom)

	f.TimeAxisWidth = cfg.Chart.TimeAxisWidth * f.Width
	f.MainX = f.TimeAxisWidth
	f.MainWidth = f.Width - f.TimeAxisWidth
	f.DistanceHeight = cfg.Chart.DistanceHeight * f.Height
	f.MainHeight = f.Height - f.DistanceHeight
	return f
}

// Colour picks the palette entry for the i-th visit. The palette wraps.
func Colour(palette []string, i int) string {
	if len(palette) == 0 {
		return "#000000"
	}
	return palette[i%len(palette)]
}

// Compute lays out every visit of h for a container of the given size.
// The result depends only on its arguments.
func Compute(h history.History, cfg config.Config, size Size) Layout {
	f := ComputeFrame(cfg, size)
	palette, err := cfg.Colors.Resolve()
	if err != nil {
		palette = config.Palettes["set2"]
	}

	places := make([]string, h.Len())
	for i := range places {
		places[i] = h.Visit(i).Place
	}

	l := Layout{
		Frame:    f,
		Places:   NewBand(places, 0, f.MainWidth),
		Time:     NewLinear(0, h.Span(), 0, cfg.Chart.TimeShare*f.MainHeight),
		Distance: NewLinear(0, h.TotalDistance(), 0, f.MainWidth),
		Gap:      cfg.Chart.GapShare * f.MainHeight,
	}

	y := 0.0
	l.Placements = make([]Placement, h.Len())
	for i := range l.Placements {
		v := h.Visit(i)
		p := Placement{
			Index:              i,
			Visit:              v,
			X:                  l.Places.Center(v.Place),
			Colour:             Colour(palette, i),
			SegmentStart:       h.SegmentStart(i),
			CumulativeDistance: h.CumulativeDistance(i),
		}
		p.BandStart, _ = l.Places.Position(v.Place)

		p.StartY = y
		y += l.Time.Apply(v.Duration())
		p.EndY = y
		y += l.Gap

		p.DistanceX = l.Distance.Apply(p.SegmentStart)
		p.DistanceWidth = l.Distance.Apply(p.CumulativeDistance) - p.DistanceX

		l.Placements[i] = p
	}
	l.Bottom = y
	return l
}

// FirstHalf reports whether visit i belongs to the first half of n visits.
// Labels of the first half hang below their bar, the rest sit above it.
func FirstHalf(i, n int) bool { return float64(i) < float64(n)/2 }
