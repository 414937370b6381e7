// Package svg writes a scene as a standalone SVG document.
package svg

import (
	"fmt"
	"io"
	"strings"

	"leavings/internal/scene"
)

// Encoder implements scene.Encoder for SVG output.
type Encoder struct{}

var _ scene.Encoder = Encoder{}

// Encode writes s to w as an SVG document.
func (Encoder) Encode(w io.Writer, s *scene.Scene) error {
	if _, err := io.WriteString(w, Render(s)); err != nil {
		return fmt.Errorf("error writing SVG: %w", err)
	}
	return nil
}

// Render returns the SVG document for s.
func Render(s *scene.Scene) string {
	var svg strings.Builder
	n := scene.Num
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
<defs>
<style>
text { font-family: %s; fill: %s; }
</style>
</defs>
<rect width="100%%" height="100%%" fill="%s"/>
`, n(s.Width), n(s.Height), n(s.Width), n(s.Height),
		escapeXML(s.FontFamily), s.Ink, s.Background))

	for _, g := range s.Groups {
		svg.WriteString(fmt.Sprintf(`<g class="%s" transform="translate(%s,%s)">`+"\n",
			escapeXML(g.Name), n(g.X), n(g.Y)))
		for _, node := range g.Nodes {
			writeNode(&svg, node)
			svg.WriteString("\n")
		}
		svg.WriteString("</g>\n")
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

func writeNode(svg *strings.Builder, node scene.Node) {
	n := scene.Num
	switch node := node.(type) {
	case *scene.PathNode:
		fill := node.Fill
		if fill == "" {
			fill = "none"
		}
		svg.WriteString(fmt.Sprintf(`<path class="%s" d="%s" stroke="%s" stroke-width="%s"%s fill="%s"/>`,
			escapeXML(node.Class), node.Path.String(), node.Stroke.Colour, n(node.Stroke.Width),
			dashAttr(node.Stroke.Dash), fill))

	case *scene.RectNode:
		svg.WriteString(fmt.Sprintf(`<rect class="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
			escapeXML(node.Class), n(node.X), n(node.Y), n(node.Width), n(node.Height), node.Fill))

	case *scene.TextNode:
		var pos string
		if node.Rotate != 0 {
			pos = fmt.Sprintf(`transform="translate(%s,%s)rotate(%s)"`, n(node.X), n(node.Y), n(node.Rotate))
		} else {
			pos = fmt.Sprintf(`x="%s" y="%s"`, n(node.X), n(node.Y))
		}
		anchor := node.Anchor
		if anchor == "" {
			anchor = scene.AnchorStart
		}
		var baseline string
		if node.Baseline != scene.BaselineAuto {
			baseline = fmt.Sprintf(` dominant-baseline="%s"`, node.Baseline)
		}
		svg.WriteString(fmt.Sprintf(`<text class="%s" %s text-anchor="%s"%s font-size="%s" data-text-multiplier="%s">%s</text>`,
			escapeXML(node.Class), pos, anchor, baseline, n(node.FontSize), n(node.Multiplier), escapeXML(node.Text)))
	}
}

// dashAttr renders a stroke-dasharray attribute, or nothing for solid
// strokes.
func dashAttr(dash []float64) string {
	if len(dash) == 0 {
		return ""
	}
	parts := make([]string, len(dash))
	for i, d := range dash {
		parts[i] = scene.Num(d)
	}
	return fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, ","))
}

// escapeXML escapes the five XML special characters so that place names
// and titles can be embedded as text content.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
