package scene

import (
	"leavings/internal/config"
	"leavings/internal/history"
	"leavings/internal/layout"
)

// Group names.
const (
	GroupTimeAxis = "time-axis"
	GroupMain     = "main"
	GroupDistance = "distance"
)

// Node classes.
const (
	ClassPlaceBar       = "place-bar"
	ClassConnector      = "connector"
	ClassPlaceLabel     = "leaving-text"
	ClassYearLabel      = "leaving-year"
	ClassLegendLine     = "legend-line"
	ClassLegendText     = "legend-text"
	ClassTitle          = "title"
	ClassSubtitle       = "subtitle"
	ClassDistanceMarker = "distance-marker"
	ClassDistanceText   = "distance-text"
	ClassTimeAxisBar    = "time-axis-bar"
	ClassTimeAxisYear   = "time-axis-year"
)

// Text multipliers, relative to the base font size.
const (
	labelMultiplier    = 0.4
	legendMultiplier   = 0.5
	titleMultiplier    = 1.5
	subtitleMultiplier = 1.0
	captionMultiplier  = 0.6
)

// Build renders the history for a container of the given size.
func Build(h history.History, cfg config.Config, size layout.Size) *Scene {
	l := layout.Compute(h, cfg, size)
	f := l.Frame

	s := &Scene{
		Width:      size.Width,
		Height:     size.Height,
		Background: cfg.Colors.Background,
		Ink:        cfg.Colors.Ink,
		FontFamily: cfg.Text.FontFamily,
	}

	if f.TimeAxisWidth > 0 {
		axis := &Group{Name: GroupTimeAxis, X: f.Left, Y: f.Top}
		drawTimeAxis(axis, l, cfg)
		s.Groups = append(s.Groups, axis)
	}

	main := &Group{Name: GroupMain, X: f.Left + f.MainX, Y: f.Top}
	drawPlaces(main, l, cfg)
	if cfg.Chart.ShowConnectors {
		drawLegend(main, l, cfg)
	}
	drawTitles(main, l, cfg)
	s.Groups = append(s.Groups, main)

	dist := &Group{Name: GroupDistance, X: f.Left + f.MainX, Y: f.Top + f.MainHeight}
	drawDistance(dist, l, cfg)
	s.Groups = append(s.Groups, dist)

	ScaleText(s, size.Height, cfg.Chart.FontScale)
	return s
}

// ScaleText sets every text node's font size to its multiplier times
// fontScale times the container height.
func ScaleText(s *Scene, containerHeight, fontScale float64) {
	for _, t := range s.Texts() {
		t.FontSize = t.Multiplier * fontScale * containerHeight
	}
}

// Connector returns the curve from the bottom of one place bar to the top
// of the next: two quadratic segments joined at the left edge of the target
// band, on the vertical midpoint of the gap. Both control points lie on that
// midline, so the join is smooth in either direction.
func Connector(from, to layout.Placement) Path {
	mid := (from.EndY + to.StartY) / 2

	var p Path
	p.MoveTo(from.X, from.EndY)
	p.QuadraticCurveTo(from.X, mid, to.BandStart, mid)
	p.QuadraticCurveTo(to.X, mid, to.X, to.StartY)
	return p
}

func drawPlaces(g *Group, l layout.Layout, cfg config.Config) {
	mh := l.Frame.MainHeight
	n := len(l.Placements)
	offset := mh / 48

	for i, p := range l.Placements {
		var bar Path
		bar.MoveTo(p.X, p.StartY)
		bar.LineTo(p.X, p.EndY)
		bar.ClosePath()
		g.add(&PathNode{
			Class:  ClassPlaceBar,
			Path:   bar,
			Stroke: Stroke{Colour: p.Colour, Width: cfg.Chart.PlaceStroke * 0.01 * mh},
		})

		if i > 0 && cfg.Chart.ShowConnectors {
			g.add(&PathNode{
				Class: ClassConnector,
				Path:  Connector(l.Placements[i-1], p),
				Stroke: Stroke{
					Colour: cfg.Colors.Ink,
					Width:  cfg.Chart.ConnectorStroke * 0.01 * mh,
					Dash:   cfg.DashFor(p.Visit.Reason),
				},
			})
		}

		label := &TextNode{
			Class:      ClassPlaceLabel,
			X:          p.X,
			Rotate:     90,
			Baseline:   BaselineMiddle,
			Multiplier: labelMultiplier,
			Text:       p.Visit.Place,
		}
		if layout.FirstHalf(i, n) {
			label.Y = p.EndY + offset
			label.Anchor = AnchorStart
		} else {
			label.Y = p.StartY - offset
			label.Anchor = AnchorEnd
		}
		g.add(label)

		g.add(&TextNode{
			Class:      ClassYearLabel,
			X:          p.X + 6*0.01*mh,
			Y:          p.StartY + mh/100,
			Anchor:     AnchorStart,
			Baseline:   BaselineMiddle,
			Multiplier: labelMultiplier,
			Text:       p.Visit.StartLabel(cfg.Text.UncertainSuffix),
		})
	}
}

func drawLegend(g *Group, l layout.Layout, cfg config.Config) {
	mw, mh := l.Frame.MainWidth, l.Frame.MainHeight
	for i, e := range cfg.Legend {
		y := float64(i+6) * mh / 30
		dash := e.DashArray()

		var line Path
		line.MoveTo(mw, y)
		line.LineTo(17*mw/20, y)
		g.add(&PathNode{
			Class:  ClassLegendLine,
			Path:   line,
			Stroke: Stroke{Colour: cfg.Colors.Ink, Width: cfg.Chart.ConnectorStroke * 0.01 * l.Frame.Height, Dash: dash},
		})
		g.add(&TextNode{
			Class:      ClassLegendText,
			X:          16 * mw / 20,
			Y:          y,
			Anchor:     AnchorEnd,
			Baseline:   BaselineMiddle,
			Multiplier: legendMultiplier,
			Text:       e.Description,
		})
	}
}

func drawTitles(g *Group, l layout.Layout, cfg config.Config) {
	mw, mh := l.Frame.MainWidth, l.Frame.MainHeight
	if cfg.Text.Title != "" {
		g.add(&TextNode{
			Class:      ClassTitle,
			X:          mw,
			Y:          mh / 30,
			Anchor:     AnchorEnd,
			Baseline:   BaselineMiddle,
			Multiplier: titleMultiplier,
			Text:       cfg.Text.Title,
		})
	}
	if cfg.Text.Subtitle != "" {
		g.add(&TextNode{
			Class:      ClassSubtitle,
			X:          mw,
			Y:          2.5 * mh / 30,
			Anchor:     AnchorEnd,
			Baseline:   BaselineMiddle,
			Multiplier: subtitleMultiplier,
			Text:       cfg.Text.Subtitle,
		})
	}
}

func drawDistance(g *Group, l layout.Layout, cfg config.Config) {
	dh := l.Frame.DistanceHeight
	bw := cfg.Chart.BarWidth
	for _, p := range l.Placements {
		g.add(&RectNode{
			Class:  ClassDistanceMarker,
			X:      p.DistanceX,
			Y:      (0.5 - bw/2) * dh,
			Width:  p.DistanceWidth,
			Height: bw * dh,
			Fill:   p.Colour,
		})
	}
	if cfg.Text.DistanceCaption != "" {
		g.add(&TextNode{
			Class:      ClassDistanceText,
			X:          l.Frame.MainWidth / 2,
			Y:          (0.5 + 2*bw) * dh,
			Anchor:     AnchorMiddle,
			Baseline:   BaselineTextTop,
			Multiplier: captionMultiplier,
			Text:       cfg.Text.DistanceCaption,
		})
	}
}

// drawTimeAxis draws the time strip: one coloured bar per place spanning
// its years, with the start year beside it and the final end year under
// the last bar.
func drawTimeAxis(g *Group, l layout.Layout, cfg config.Config) {
	aw := l.Frame.TimeAxisWidth
	barW := 0.3 * aw
	barX := aw - barW
	labelX := barX - 0.1*aw

	for _, p := range l.Placements {
		g.add(&RectNode{
			Class:  ClassTimeAxisBar,
			X:      barX,
			Y:      p.StartY,
			Width:  barW,
			Height: p.EndY - p.StartY,
			Fill:   p.Colour,
		})
		g.add(&TextNode{
			Class:      ClassTimeAxisYear,
			X:          labelX,
			Y:          p.StartY,
			Anchor:     AnchorEnd,
			Baseline:   BaselineMiddle,
			Multiplier: labelMultiplier,
			Text:       p.Visit.StartLabel(cfg.Text.UncertainSuffix),
		})
	}
	if n := len(l.Placements); n > 0 {
		last := l.Placements[n-1]
		g.add(&TextNode{
			Class:      ClassTimeAxisYear,
			X:          labelX,
			Y:          last.EndY,
			Anchor:     AnchorEnd,
			Baseline:   BaselineMiddle,
			Multiplier: labelMultiplier,
			Text:       history.FormatYear(last.Visit.End),
		})
	}
}
