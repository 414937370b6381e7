// Package history holds the relocation history: the ordered list of places
// lived, loaded once and passed around as an immutable value.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reasons with a dedicated connector style. Anything else is drawn solid.
const (
	ReasonPersonal = "personal"
	ReasonReligion = "religion"
)

var (
	// ErrEmpty is returned when a dataset holds no visits.
	ErrEmpty = errors.New("history has no visits")
	// ErrInvalidVisit is wrapped with the offending index and field.
	ErrInvalidVisit = errors.New("invalid visit")
)

// Visit is one place lived.
type Visit struct {
	Place     string  `json:"place" yaml:"place"`
	Start     float64 `json:"start" yaml:"start"`
	End       float64 `json:"end" yaml:"end"`
	Uncertain bool    `json:"uncertain,omitempty" yaml:"uncertain,omitempty"`
	Distance  float64 `json:"distance" yaml:"distance"`
	Reason    string  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Duration is the number of years spent at the place.
func (v Visit) Duration() float64 { return v.End - v.Start }

// StartLabel formats the start year, appending suffix when the year is
// uncertain.
func (v Visit) StartLabel(suffix string) string {
	s := FormatYear(v.Start)
	if v.Uncertain {
		s += suffix
	}
	return s
}

// FormatYear prints a year without a trailing ".0".
func FormatYear(y float64) string {
	return strconv.FormatFloat(y, 'f', -1, 64)
}

// History is an ordered, validated sequence of visits with the running
// distance total precomputed. The zero value is an empty history.
type History struct {
	visits     []Visit
	cumulative []float64
}

// New validates visits and returns a History owning a copy of them.
func New(visits []Visit) (History, error) {
	if len(visits) == 0 {
		return History{}, ErrEmpty
	}
	for i, v := range visits {
		if err := validate(v); err != nil {
			return History{}, fmt.Errorf("visit %d (%q): %w", i, v.Place, err)
		}
	}
	h := History{
		visits:     append([]Visit(nil), visits...),
		cumulative: make([]float64, len(visits)),
	}
	total := 0.0
	for i, v := range h.visits {
		total += v.Distance
		h.cumulative[i] = total
	}
	return h, nil
}

func validate(v Visit) error {
	if strings.TrimSpace(v.Place) == "" {
		return fmt.Errorf("%w: empty place", ErrInvalidVisit)
	}
	fields := []struct {
		name string
		v    float64
	}{{"start", v.Start}, {"end", v.End}, {"distance", v.Distance}}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidVisit, f.name)
		}
	}
	if v.End < v.Start {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidVisit, FormatYear(v.End), FormatYear(v.Start))
	}
	if v.Distance < 0 {
		return fmt.Errorf("%w: negative distance %g", ErrInvalidVisit, v.Distance)
	}
	return nil
}

// Len returns the number of visits.
func (h History) Len() int { return len(h.visits) }

// Visit returns the i-th visit.
func (h History) Visit(i int) Visit { return h.visits[i] }

// Visits returns a copy of the visits in order.
func (h History) Visits() []Visit { return append([]Visit(nil), h.visits...) }

// CumulativeDistance is the distance travelled up to and including visit i.
func (h History) CumulativeDistance(i int) float64 { return h.cumulative[i] }

// SegmentStart is where visit i's distance segment begins, i.e. the
// cumulative distance of the previous visit.
func (h History) SegmentStart(i int) float64 {
	if i == 0 {
		return 0
	}
	return h.cumulative[i-1]
}

// TotalDistance is the sum of all distances.
func (h History) TotalDistance() float64 {
	if len(h.cumulative) == 0 {
		return 0
	}
	return h.cumulative[len(h.cumulative)-1]
}

// Span is the latest end year minus the earliest start year.
func (h History) Span() float64 {
	if len(h.visits) == 0 {
		return 0
	}
	lo, hi := h.visits[0].Start, h.visits[0].End
	for _, v := range h.visits[1:] {
		lo = math.Min(lo, v.Start)
		hi = math.Max(hi, v.End)
	}
	return hi - lo
}

// Load reads a history from a JSON or YAML file, picked by extension.
func Load(path string) (History, error) {
	f, err := os.Open(path)
	if err != nil {
		return History{}, fmt.Errorf("error opening history file: %w", err)
	}
	defer f.Close()

	h, err := Decode(f, FormatOf(path))
	if err != nil {
		return History{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return h, nil
}

// FormatOf maps a file name to "yaml" or "json".
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Decode parses an ordered array of visits in the given format.
func Decode(r io.Reader, format string) (History, error) {
	var visits []Visit
	switch format {
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(&visits); err != nil && !errors.Is(err, io.EOF) {
			return History{}, fmt.Errorf("error parsing history: %w", err)
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&visits); err != nil && !errors.Is(err, io.EOF) {
			return History{}, fmt.Errorf("error parsing history: %w", err)
		}
	default:
		return History{}, fmt.Errorf("unsupported history format %q", format)
	}
	return New(visits)
}
