package scene

import (
	"strconv"
	"strings"
)

// Op is a path command.
type Op int

const (
	OpMove Op = iota
	OpLine
	OpQuad
	OpClose
)

// Point is a position in pixels.
type Point struct {
	X, Y float64
}

// Segment is one path command. Ctrl is only meaningful for OpQuad; To is
// unused by OpClose.
type Segment struct {
	Op   Op
	Ctrl Point
	To   Point
}

// Path is built like a canvas path: MoveTo, LineTo, QuadraticCurveTo and
// ClosePath append commands in order.
type Path struct {
	segs []Segment
}

func (p *Path) MoveTo(x, y float64) {
	p.segs = append(p.segs, Segment{Op: OpMove, To: Point{x, y}})
}

func (p *Path) LineTo(x, y float64) {
	p.segs = append(p.segs, Segment{Op: OpLine, To: Point{x, y}})
}

// QuadraticCurveTo appends a quadratic Bézier through control point
// (cx, cy) ending at (x, y).
func (p *Path) QuadraticCurveTo(cx, cy, x, y float64) {
	p.segs = append(p.segs, Segment{Op: OpQuad, Ctrl: Point{cx, cy}, To: Point{x, y}})
}

func (p *Path) ClosePath() {
	p.segs = append(p.segs, Segment{Op: OpClose})
}

// Segments returns a copy of the commands.
func (p Path) Segments() []Segment { return append([]Segment(nil), p.segs...) }

// String renders the path as SVG path data, e.g. "M10,20L10,40Z".
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p.segs {
		switch s.Op {
		case OpMove:
			b.WriteString("M" + Num(s.To.X) + "," + Num(s.To.Y))
		case OpLine:
			b.WriteString("L" + Num(s.To.X) + "," + Num(s.To.Y))
		case OpQuad:
			b.WriteString("Q" + Num(s.Ctrl.X) + "," + Num(s.Ctrl.Y) + "," + Num(s.To.X) + "," + Num(s.To.Y))
		case OpClose:
			b.WriteString("Z")
		}
	}
	return b.String()
}

// Flatten approximates the path with polylines, one per subpath. Each
// quadratic segment is split into steps straight pieces.
func (p Path) Flatten(steps int) [][]Point {
	if steps < 1 {
		steps = 1
	}
	var (
		out        [][]Point
		cur        []Point
		pen, start Point
	)
	flush := func() {
		if len(cur) > 1 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, s := range p.segs {
		switch s.Op {
		case OpMove:
			flush()
			pen, start = s.To, s.To
			cur = []Point{pen}
		case OpLine:
			if cur == nil {
				cur = []Point{pen}
			}
			pen = s.To
			cur = append(cur, pen)
		case OpQuad:
			if cur == nil {
				cur = []Point{pen}
			}
			p0 := pen
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				u := 1 - t
				cur = append(cur, Point{
					X: u*u*p0.X + 2*u*t*s.Ctrl.X + t*t*s.To.X,
					Y: u*u*p0.Y + 2*u*t*s.Ctrl.Y + t*t*s.To.Y,
				})
			}
			pen = s.To
		case OpClose:
			if cur != nil {
				cur = append(cur, start)
			}
			pen = start
			flush()
		}
	}
	flush()
	return out
}

// Num formats a coordinate with at most two decimals and no trailing
// zeros.
func Num(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
