package layout

// Band maps a categorical domain onto evenly spaced, contiguous intervals of
// a pixel range. Duplicate keys collapse onto the first occurrence, so the
// domain order is the order in which keys were first seen.
type Band struct {
	keys       []string
	index      map[string]int
	start, end float64
}

// NewBand builds a band scale over keys mapped onto [start, end].
func NewBand(keys []string, start, end float64) Band {
	b := Band{index: make(map[string]int, len(keys)), start: start, end: end}
	for _, k := range keys {
		if _, ok := b.index[k]; ok {
			continue
		}
		b.index[k] = len(b.keys)
		b.keys = append(b.keys, k)
	}
	return b
}

// Domain returns the distinct keys in order.
func (b Band) Domain() []string { return append([]string(nil), b.keys...) }

// Bandwidth is the width of one band.
func (b Band) Bandwidth() float64 {
	if len(b.keys) == 0 {
		return 0
	}
	return (b.end - b.start) / float64(len(b.keys))
}

// Position returns the start of key's band. ok is false for keys outside
// the domain.
func (b Band) Position(key string) (pos float64, ok bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.start + float64(i)*b.Bandwidth(), true
}

// Center returns the middle of key's band, or the range start for unknown
// keys.
func (b Band) Center(key string) float64 {
	p, ok := b.Position(key)
	if !ok {
		return b.start
	}
	return p + b.Bandwidth()/2
}

// Linear maps [d0, d1] onto [r0, r1]. Values outside the domain are
// extrapolated.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear builds a linear scale.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Apply maps v into the range. A degenerate domain maps everything to r0.
func (l Linear) Apply(v float64) float64 {
	if l.d1 == l.d0 {
		return l.r0
	}
	return l.r0 + (v-l.d0)/(l.d1-l.d0)*(l.r1-l.r0)
}
