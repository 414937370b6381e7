package scene

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Box is an axis-aligned rectangle in pixels.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Overflow is a text node whose estimated extent leaves the canvas.
type Overflow struct {
	Group *Group
	Text  *TextNode
	Box   Box // canvas coordinates
}

var measureFace = basicfont.Face7x13

// TextWidth estimates the rendered width of s at the given font size from
// the advances of the basic 7x13 face.
func TextWidth(s string, fontSize float64) float64 {
	adv := font.MeasureString(measureFace, s)
	return float64(adv) / 64 * fontSize / float64(measureFace.Height)
}

// TextBox returns the estimated extent of t in its group's coordinates,
// with anchor, baseline and rotation applied.
func TextBox(t *TextNode) Box {
	w := TextWidth(t.Text, t.FontSize)
	h := t.FontSize

	var x0 float64
	switch t.Anchor {
	case AnchorMiddle:
		x0 = -w / 2
	case AnchorEnd:
		x0 = -w
	}
	var y0 float64
	switch t.Baseline {
	case BaselineMiddle:
		y0 = -h / 2
	case BaselineTextTop:
		y0 = 0
	default:
		y0 = -0.8 * h
	}

	sin, cos := math.Sincos(t.Rotate * math.Pi / 180)
	b := Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, c := range [4]Point{{x0, y0}, {x0 + w, y0}, {x0, y0 + h}, {x0 + w, y0 + h}} {
		x := t.X + c.X*cos - c.Y*sin
		y := t.Y + c.X*sin + c.Y*cos
		b.MinX = math.Min(b.MinX, x)
		b.MinY = math.Min(b.MinY, y)
		b.MaxX = math.Max(b.MaxX, x)
		b.MaxY = math.Max(b.MaxY, y)
	}
	return b
}

// Overflowing returns the text nodes that do not fit on the canvas, in
// paint order.
func Overflowing(s *Scene) []Overflow {
	const slack = 0.5
	var out []Overflow
	s.Walk(func(g *Group, n Node) {
		t, ok := n.(*TextNode)
		if !ok || t.Text == "" {
			return
		}
		b := TextBox(t)
		b.MinX += g.X
		b.MaxX += g.X
		b.MinY += g.Y
		b.MaxY += g.Y
		if b.MinX < -slack || b.MinY < -slack || b.MaxX > s.Width+slack || b.MaxY > s.Height+slack {
			out = append(out, Overflow{Group: g, Text: t, Box: b})
		}
	})
	return out
}
