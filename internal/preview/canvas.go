package preview

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"leavings/internal/scene"
)

// canvas is a braille drawing surface: every terminal cell holds a 2x4 grid
// of dots ("micro pixels"), a colour and optionally a text rune that wins
// over the dots.
type canvas struct {
	w, h   int // in cells
	mask   [][]uint8
	colour [][]string
	text   [][]rune
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h}
	c.mask = make([][]uint8, h)
	c.colour = make([][]string, h)
	c.text = make([][]rune, h)
	for i := 0; i < h; i++ {
		c.mask[i] = make([]uint8, w)
		c.colour[i] = make([]string, w)
		c.text[i] = make([]rune, w)
	}
	return c
}

// setPixel sets a micro pixel (2x4 per cell) and paints its cell.
func (c *canvas) setPixel(mx, my int, colour string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= c.h || cx >= c.w {
		return
	}
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	c.mask[cy][cx] |= bit
	c.colour[cy][cx] = colour
}

// brush is a line pen: its colour, half width in micro pixels, and an
// optional dash pattern carried across the segments of one polyline.
type brush struct {
	colour string
	radius int
	dash   []float64
	walked float64
}

func newBrush(st scene.Stroke) *brush {
	r := int(st.Width / 2)
	if r > 2 {
		r = 2
	}
	dash := st.Dash
	// An odd dash list repeats to make an even one, as in SVG.
	if len(dash)%2 == 1 {
		dash = append(append([]float64(nil), dash...), dash...)
	}
	return &brush{colour: st.Colour, radius: r, dash: dash}
}

// on reports whether the pen is down at the current distance.
func (b *brush) on() bool {
	if len(b.dash) == 0 {
		return true
	}
	total := 0.0
	for _, d := range b.dash {
		total += d
	}
	if total <= 0 {
		return true
	}
	pos := math.Mod(b.walked, total)
	for i, d := range b.dash {
		if pos < d {
			return i%2 == 0
		}
		pos -= d
	}
	return true
}

func (c *canvas) stamp(x, y int, b *brush) {
	for dy := -b.radius; dy <= b.radius; dy++ {
		for dx := -b.radius; dx <= b.radius; dx++ {
			c.setPixel(x+dx, y+dy, b.colour)
		}
	}
}

// line draws a segment with Bresenham, honouring the brush's dash.
func (c *canvas) line(x0, y0, x1, y1 int, b *brush) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if b.on() {
			c.stamp(x0, y0, b)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
		b.walked++
	}
}

func (c *canvas) fillRect(x0, y0, x1, y1 int, colour string) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.setPixel(x, y, colour)
		}
	}
}

// putText writes s starting at cell (cx, cy), across or, when vertical,
// down the column.
func (c *canvas) putText(cx, cy int, s string, vertical bool) {
	for i, r := range []rune(s) {
		x, y := cx+i, cy
		if vertical {
			x, y = cx, cy+i
		}
		if x < 0 || y < 0 || x >= c.w || y >= c.h {
			continue
		}
		c.text[y][x] = r
	}
}

// draw paints a whole scene. The scene is expected in micro pixels.
func (c *canvas) draw(s *scene.Scene) {
	s.Walk(func(g *scene.Group, n scene.Node) {
		switch n := n.(type) {
		case *scene.PathNode:
			for _, poly := range n.Path.Flatten(12) {
				b := newBrush(n.Stroke)
				for i := 1; i < len(poly); i++ {
					c.line(
						round(g.X+poly[i-1].X), round(g.Y+poly[i-1].Y),
						round(g.X+poly[i].X), round(g.Y+poly[i].Y), b)
				}
			}
		case *scene.RectNode:
			c.fillRect(round(g.X+n.X), round(g.Y+n.Y), round(g.X+n.X+n.Width), round(g.Y+n.Y+n.Height), n.Fill)
		case *scene.TextNode:
			c.drawText(g, n)
		}
	})
}

func (c *canvas) drawText(g *scene.Group, t *scene.TextNode) {
	cx := int((g.X + t.X) / 2)
	cy := int((g.Y + t.Y) / 4)
	length := len([]rune(t.Text))
	vertical := math.Abs(math.Mod(t.Rotate, 180)) == 90

	shift := 0
	switch t.Anchor {
	case scene.AnchorMiddle:
		shift = length / 2
	case scene.AnchorEnd:
		shift = length - 1
	}
	if vertical {
		c.putText(cx, cy-shift, t.Text, true)
		return
	}
	c.putText(cx-shift, cy, t.Text, false)
}

// lines renders the canvas, one string per row, colouring runs of cells
// that share a colour.
func (c *canvas) lines() []string {
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var b strings.Builder
		var run strings.Builder
		runColour := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColour == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColour)).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			r, colour := ' ', ""
			switch {
			case c.text[y][x] != 0:
				r = c.text[y][x]
			case c.mask[y][x] != 0:
				r = rune(0x2800 + int(c.mask[y][x]))
				colour = c.colour[y][x]
			}
			if colour != runColour {
				flush()
				runColour = colour
			}
			run.WriteRune(r)
		}
		flush()
		out[y] = b.String()
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func round(v float64) int { return int(math.Round(v)) }
