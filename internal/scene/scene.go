package scene

import (
	"io"
)

// Anchor is the horizontal alignment of a text node (SVG text-anchor).
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Baseline is the vertical alignment of a text node (SVG
// dominant-baseline).
type Baseline string

const (
	BaselineAuto    Baseline = ""
	BaselineMiddle  Baseline = "middle"
	BaselineTextTop Baseline = "text-top"
)

// Node is anything a group can hold: *PathNode, *RectNode or *TextNode.
type Node interface {
	node()
}

// Stroke describes how a path outline is drawn. A nil Dash is solid.
type Stroke struct {
	Colour string
	Width  float64
	Dash   []float64
}

// PathNode is a stroked, optionally filled path.
type PathNode struct {
	Class  string
	Path   Path
	Stroke Stroke
	Fill   string // "" means no fill
}

// RectNode is a filled axis-aligned rectangle.
type RectNode struct {
	Class         string
	X, Y          float64
	Width, Height float64
	Fill          string
}

// TextNode is a single line of text positioned at (X, Y) and then rotated
// by Rotate degrees around that point. FontSize is derived from
// Multiplier, see ScaleText.
type TextNode struct {
	Class      string
	X, Y       float64
	Rotate     float64
	Anchor     Anchor
	Baseline   Baseline
	Multiplier float64
	FontSize   float64
	Text       string
}

func (*PathNode) node() {}
func (*RectNode) node() {}
func (*TextNode) node() {}

// Group is a translated container of nodes, painted in order.
type Group struct {
	Name  string
	X, Y  float64
	Nodes []Node
}

func (g *Group) add(n Node) { g.Nodes = append(g.Nodes, n) }

// Scene is a complete drawing.
type Scene struct {
	Width, Height float64
	Background    string
	Ink           string
	FontFamily    string
	Groups        []*Group
}

// Group returns the group with the given name, or nil.
func (s *Scene) Group(name string) *Group {
	for _, g := range s.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Walk calls fn for every node in paint order.
func (s *Scene) Walk(fn func(g *Group, n Node)) {
	for _, g := range s.Groups {
		for _, n := range g.Nodes {
			fn(g, n)
		}
	}
}

// Texts returns every text node in paint order.
func (s *Scene) Texts() []*TextNode {
	var out []*TextNode
	s.Walk(func(_ *Group, n Node) {
		if t, ok := n.(*TextNode); ok {
			out = append(out, t)
		}
	})
	return out
}

// ByClass returns the nodes whose class matches, in paint order.
func (s *Scene) ByClass(class string) []Node {
	var out []Node
	s.Walk(func(_ *Group, n Node) {
		if classOf(n) == class {
			out = append(out, n)
		}
	})
	return out
}

func classOf(n Node) string {
	switch n := n.(type) {
	case *PathNode:
		return n.Class
	case *RectNode:
		return n.Class
	case *TextNode:
		return n.Class
	}
	return ""
}

// Encoder writes a scene to some output format.
type Encoder interface {
	Encode(w io.Writer, s *Scene) error
}
