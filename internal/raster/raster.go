// Package raster paints a scene to PNG through the go-chart renderer.
package raster

import (
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"leavings/internal/scene"
)

// Encoder implements scene.Encoder for PNG output.
type Encoder struct{}

var _ scene.Encoder = Encoder{}

// Encode paints s and writes it to w as a PNG image. The canvas is rounded
// to whole pixels.
func (Encoder) Encode(w io.Writer, s *scene.Scene) error {
	width, height := px(s.Width), px(s.Height)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("cannot rasterize a %dx%d canvas", width, height)
	}

	r, err := chart.PNG(width, height)
	if err != nil {
		return fmt.Errorf("error creating PNG renderer: %w", err)
	}
	// At 72 DPI a font point is a pixel, matching the scene's font sizes.
	r.SetDPI(72)
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("error loading font: %w", err)
	}
	r.SetFont(font)

	p := painter{r: r, ink: color(s.Ink)}
	p.background(width, height, color(s.Background))
	for _, g := range s.Groups {
		for _, n := range g.Nodes {
			p.node(g, n)
		}
	}

	if err := r.Save(w); err != nil {
		return fmt.Errorf("error writing PNG: %w", err)
	}
	return nil
}

type painter struct {
	r   chart.Renderer
	ink drawing.Color
}

func (p painter) background(width, height int, c drawing.Color) {
	p.r.ResetStyle()
	p.r.SetFillColor(c)
	p.r.MoveTo(0, 0)
	p.r.LineTo(width, 0)
	p.r.LineTo(width, height)
	p.r.LineTo(0, height)
	p.r.Close()
	p.r.Fill()
}

func (p painter) node(g *scene.Group, n scene.Node) {
	r := p.r
	r.ResetStyle()
	switch n := n.(type) {
	case *scene.PathNode:
		if n.Stroke.Width <= 0 {
			return
		}
		r.SetStrokeColor(color(n.Stroke.Colour))
		r.SetStrokeWidth(n.Stroke.Width)
		if len(n.Stroke.Dash) > 0 {
			r.SetStrokeDashArray(n.Stroke.Dash)
		}
		for _, sg := range n.Path.Segments() {
			switch sg.Op {
			case scene.OpMove:
				r.MoveTo(px(g.X+sg.To.X), px(g.Y+sg.To.Y))
			case scene.OpLine:
				r.LineTo(px(g.X+sg.To.X), px(g.Y+sg.To.Y))
			case scene.OpQuad:
				r.QuadCurveTo(px(g.X+sg.Ctrl.X), px(g.Y+sg.Ctrl.Y), px(g.X+sg.To.X), px(g.Y+sg.To.Y))
			case scene.OpClose:
				r.Close()
			}
		}
		if n.Fill != "" {
			r.SetFillColor(color(n.Fill))
			r.FillStroke()
			return
		}
		r.Stroke()

	case *scene.RectNode:
		if n.Width <= 0 || n.Height <= 0 {
			return
		}
		x0, y0 := px(g.X+n.X), px(g.Y+n.Y)
		x1, y1 := px(g.X+n.X+n.Width), px(g.Y+n.Y+n.Height)
		r.SetFillColor(color(n.Fill))
		r.MoveTo(x0, y0)
		r.LineTo(x1, y0)
		r.LineTo(x1, y1)
		r.LineTo(x0, y1)
		r.Close()
		r.Fill()

	case *scene.TextNode:
		if n.Text == "" || n.FontSize <= 0 {
			return
		}
		r.SetFontSize(n.FontSize)
		r.SetFontColor(p.ink)
		box := r.MeasureText(n.Text)

		// Shift along the text's own axes, then rotate into place.
		var dx, dy float64
		switch n.Anchor {
		case scene.AnchorMiddle:
			dx = -float64(box.Width()) / 2
		case scene.AnchorEnd:
			dx = -float64(box.Width())
		}
		switch n.Baseline {
		case scene.BaselineMiddle:
			dy = float64(box.Height()) / 2
		case scene.BaselineTextTop:
			dy = float64(box.Height())
		}
		rad := n.Rotate * math.Pi / 180
		sin, cos := math.Sincos(rad)
		x := g.X + n.X + dx*cos - dy*sin
		y := g.Y + n.Y + dx*sin + dy*cos

		if rad != 0 {
			r.SetTextRotation(rad)
		}
		r.Text(n.Text, px(x), px(y))
		r.ClearTextRotation()
	}
}

func px(v float64) int { return int(math.Round(v)) }

// color parses a #rrggbb colour.
func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
