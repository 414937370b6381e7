package scene

import (
	"math"
	"reflect"
	"testing"

	"leavings/internal/config"
	"leavings/internal/history"
	"leavings/internal/layout"
)

func twoPlaces(t *testing.T) history.History {
	t.Helper()
	h, err := history.New([]history.Visit{
		{Place: "A", Start: 2000, End: 2005, Distance: 0},
		{Place: "B", Start: 2005, End: 2010, Distance: 100, Reason: history.ReasonPersonal},
	})
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func manyPlaces(t *testing.T) history.History {
	t.Helper()
	h, err := history.New([]history.Visit{
		{Place: "Kraków", Start: 1931, End: 1939, Distance: 0},
		{Place: "Lwów", Start: 1939, End: 1941, Distance: 300, Reason: history.ReasonReligion},
		{Place: "Tashkent", Start: 1941, End: 1946, Distance: 3400, Reason: history.ReasonReligion, Uncertain: true},
		{Place: "Haifa", Start: 1946, End: 1960, Distance: 3100},
		{Place: "Toronto", Start: 1960, End: 1990, Distance: 9200, Reason: history.ReasonPersonal},
	})
	if err != nil {
		t.Fatal(err)
	}
	return h
}

var size = layout.Size{Width: 1200, Height: 800}

func TestTwoPlaceExample(t *testing.T) {
	s := Build(twoPlaces(t), config.Default(), size)

	conns := s.ByClass(ClassConnector)
	if len(conns) != 1 {
		t.Fatalf("connectors = %d, want 1", len(conns))
	}
	if got := conns[0].(*PathNode).Stroke.Dash; !reflect.DeepEqual(got, []float64{3}) {
		t.Fatalf("connector dash = %v, want [3]", got)
	}

	labels := s.ByClass(ClassPlaceLabel)
	if len(labels) != 2 {
		t.Fatalf("place labels = %d", len(labels))
	}
	a, b := labels[0].(*TextNode), labels[1].(*TextNode)
	if a.Anchor != AnchorStart || b.Anchor != AnchorEnd {
		t.Fatalf("anchors = %s, %s; want start, end", a.Anchor, b.Anchor)
	}
	if a.Rotate != 90 || b.Rotate != 90 {
		t.Fatal("place labels must be rotated")
	}

	rects := s.ByClass(ClassDistanceMarker)
	if len(rects) != 2 {
		t.Fatalf("distance markers = %d", len(rects))
	}
	ra, rb := rects[0].(*RectNode), rects[1].(*RectNode)
	if ra.Width != 0 {
		t.Errorf("first segment width = %v, want 0", ra.Width)
	}
	f := layout.ComputeFrame(config.Default(), size)
	if rb.X != 0 || math.Abs(rb.Width-f.MainWidth) > 1e-9 {
		t.Errorf("second segment = [%v, +%v], want [0, +%v]", rb.X, rb.Width, f.MainWidth)
	}
	if ra.Fill == rb.Fill {
		t.Error("both places share a colour")
	}
}

func TestConnectorDashByReason(t *testing.T) {
	s := Build(manyPlaces(t), config.Default(), size)
	conns := s.ByClass(ClassConnector)
	want := [][]float64{{11}, {11}, nil, {3}}
	if len(conns) != len(want) {
		t.Fatalf("connectors = %d, want %d", len(conns), len(want))
	}
	for i, n := range conns {
		p := n.(*PathNode)
		if !reflect.DeepEqual(p.Stroke.Dash, want[i]) {
			t.Errorf("connector %d dash = %v, want %v", i, p.Stroke.Dash, want[i])
		}
		if p.Stroke.Colour != config.Default().Colors.Ink {
			t.Errorf("connector %d colour = %s", i, p.Stroke.Colour)
		}
	}
}

func TestConnectorShape(t *testing.T) {
	from := layout.Placement{X: 10, EndY: 100}
	to := layout.Placement{BandStart: 40, X: 50, StartY: 140}
	segs := Connector(from, to).Segments()
	if len(segs) != 3 || segs[0].Op != OpMove || segs[1].Op != OpQuad || segs[2].Op != OpQuad {
		t.Fatalf("segments = %+v", segs)
	}
	if segs[1].To != (Point{40, 120}) {
		t.Fatalf("curves meet at %+v, want (40,120)", segs[1].To)
	}
	if segs[1].Ctrl != (Point{10, 120}) || segs[2].Ctrl != (Point{50, 120}) {
		t.Fatalf("controls = %+v, %+v", segs[1].Ctrl, segs[2].Ctrl)
	}
	if segs[2].To != (Point{50, 140}) {
		t.Fatalf("ends at %+v", segs[2].To)
	}
	if got := Connector(from, to).String(); got != "M10,100Q10,120,40,120Q50,120,50,140" {
		t.Fatalf("path = %q", got)
	}
}

func TestConnectorJoinsAtTargetBandStart(t *testing.T) {
	// A, B, C, then back to A: the last move runs right to left.
	h, err := history.New([]history.Visit{
		{Place: "A", Start: 1900, End: 1910},
		{Place: "B", Start: 1910, End: 1920, Distance: 10},
		{Place: "C", Start: 1920, End: 1930, Distance: 10},
		{Place: "A", Start: 1930, End: 1940, Distance: 20},
	})
	if err != nil {
		t.Fatal(err)
	}
	l := layout.Compute(h, config.Default(), size)
	conns := Build(h, config.Default(), size).ByClass(ClassConnector)
	if len(conns) != 3 {
		t.Fatalf("connectors = %d, want 3", len(conns))
	}
	for i, n := range conns {
		to := l.Placements[i+1]
		join := n.(*PathNode).Path.Segments()[1].To
		if math.Abs(join.X-to.BandStart) > 1e-9 {
			t.Errorf("connector %d joins at x=%v, want band start %v", i, join.X, to.BandStart)
		}
	}
	if last := l.Placements[3]; last.BandStart != 0 {
		t.Fatalf("return visit band start = %v, want 0", last.BandStart)
	}
}

func TestSinglePlaceHasNoConnectors(t *testing.T) {
	h, err := history.New([]history.Visit{{Place: "Only", Start: 1990, End: 2020}})
	if err != nil {
		t.Fatal(err)
	}
	s := Build(h, config.Default(), size)
	if n := len(s.ByClass(ClassConnector)); n != 0 {
		t.Fatalf("connectors = %d", n)
	}
	if n := len(s.ByClass(ClassPlaceBar)); n != 1 {
		t.Fatalf("place bars = %d", n)
	}
}

func TestUncertainYearLabel(t *testing.T) {
	s := Build(manyPlaces(t), config.Default(), size)
	years := s.ByClass(ClassYearLabel)
	if got := years[2].(*TextNode).Text; got != "1941 (ish)" {
		t.Fatalf("uncertain year = %q", got)
	}
	if got := years[0].(*TextNode).Text; got != "1931" {
		t.Fatalf("certain year = %q", got)
	}
}

func TestLegendAndTitles(t *testing.T) {
	s := Build(manyPlaces(t), config.Default(), size)
	if n := len(s.ByClass(ClassLegendLine)); n != 3 {
		t.Fatalf("legend lines = %d", n)
	}
	legend := s.ByClass(ClassLegendText)
	if legend[1].(*TextNode).Text != "Religious Persecution" {
		t.Fatalf("legend[1] = %q", legend[1].(*TextNode).Text)
	}
	if got := s.ByClass(ClassLegendLine)[0].(*PathNode).Stroke.Dash; got != nil {
		t.Fatalf("first legend line dash = %v, want solid", got)
	}
	title := s.ByClass(ClassTitle)[0].(*TextNode)
	if title.Text != "Leavings" || title.Anchor != AnchorEnd {
		t.Fatalf("title = %+v", title)
	}
	if len(s.ByClass(ClassSubtitle)) != 1 || len(s.ByClass(ClassDistanceText)) != 1 {
		t.Fatal("missing subtitle or distance caption")
	}
}

func TestUnvalidatedLegendDashIsSolid(t *testing.T) {
	cfg := config.Default()
	cfg.Legend = []config.LegendEntry{{Dash: "dotted", Description: "Unknown"}}
	lines := Build(manyPlaces(t), cfg, size).ByClass(ClassLegendLine)
	if len(lines) != 1 {
		t.Fatalf("legend lines = %d", len(lines))
	}
	if got := lines[0].(*PathNode).Stroke.Dash; got != nil {
		t.Fatalf("dash = %v, want solid", got)
	}
}

func TestFontSizesFollowContainerHeight(t *testing.T) {
	s := Build(manyPlaces(t), config.Default(), size)
	for _, tx := range s.Texts() {
		want := tx.Multiplier * 0.03 * size.Height
		if math.Abs(tx.FontSize-want) > 1e-9 {
			t.Fatalf("%s %q font = %v, want %v", tx.Class, tx.Text, tx.FontSize, want)
		}
	}
	title := s.ByClass(ClassTitle)[0].(*TextNode)
	if math.Abs(title.FontSize-36) > 1e-9 {
		t.Fatalf("title font = %v, want 36", title.FontSize)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	h := manyPlaces(t)
	for _, name := range config.PresetNames() {
		cfg, _ := config.Preset(name)
		a := Build(h, cfg, size)
		b := Build(h, cfg, size)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("%s: two builds differ", name)
		}
	}
}

// coords flattens every length of a scene into one slice so two scenes can
// be compared number by number.
func coords(s *Scene) []float64 {
	out := []float64{s.Width, s.Height}
	s.Walk(func(g *Group, n Node) {
		out = append(out, g.X, g.Y)
		switch n := n.(type) {
		case *PathNode:
			out = append(out, n.Stroke.Width)
			out = append(out, n.Stroke.Dash...)
			for _, sg := range n.Path.Segments() {
				out = append(out, sg.Ctrl.X, sg.Ctrl.Y, sg.To.X, sg.To.Y)
			}
		case *RectNode:
			out = append(out, n.X, n.Y, n.Width, n.Height)
		case *TextNode:
			out = append(out, n.X, n.Y, n.FontSize)
		}
	})
	return out
}

func TestResizeScalesProportionally(t *testing.T) {
	h := manyPlaces(t)
	for _, name := range config.PresetNames() {
		cfg, _ := config.Preset(name)
		small := coords(Build(h, cfg, size))
		big := coords(Build(h, cfg, size.Scale(2)))
		if len(small) != len(big) {
			t.Fatalf("%s: node count changed with size", name)
		}
		for i := range small {
			// Dash lengths are absolute and do not scale.
			if math.Abs(big[i]-2*small[i]) > 1e-6 && math.Abs(big[i]-small[i]) > 1e-12 {
				t.Fatalf("%s: value %d = %v at 2x, %v at 1x", name, i, big[i], small[i])
			}
		}
	}
}

func TestTimelinePreset(t *testing.T) {
	cfg, _ := config.Preset(config.PresetTimeline)
	h := manyPlaces(t)
	s := Build(h, cfg, size)

	if s.Group(GroupTimeAxis) == nil {
		t.Fatal("timeline preset has no time axis")
	}
	if n := len(s.ByClass(ClassConnector)); n != 0 {
		t.Fatalf("timeline preset drew %d connectors", n)
	}
	if n := len(s.ByClass(ClassLegendLine)); n != 0 {
		t.Fatalf("timeline preset drew %d legend lines", n)
	}
	bars := s.ByClass(ClassTimeAxisBar)
	if len(bars) != h.Len() {
		t.Fatalf("time axis bars = %d", len(bars))
	}
	years := s.ByClass(ClassTimeAxisYear)
	if len(years) != h.Len()+1 || years[len(years)-1].(*TextNode).Text != "1990" {
		t.Fatalf("time axis years = %d", len(years))
	}
	// Axis bars line up with the place bars.
	placeBars := s.ByClass(ClassPlaceBar)
	for i, n := range bars {
		r := n.(*RectNode)
		segs := placeBars[i].(*PathNode).Path.Segments()
		if r.Y != segs[0].To.Y || math.Abs(r.Y+r.Height-segs[1].To.Y) > 1e-9 {
			t.Fatalf("axis bar %d spans [%v,%v], place bar [%v,%v]", i, r.Y, r.Y+r.Height, segs[0].To.Y, segs[1].To.Y)
		}
	}
	main := s.Group(GroupMain)
	axis := s.Group(GroupTimeAxis)
	if main.X <= axis.X {
		t.Fatalf("main chart at %v is not right of the axis at %v", main.X, axis.X)
	}
}

func TestPaletteByIndex(t *testing.T) {
	s := Build(manyPlaces(t), config.Default(), size)
	pal := config.Palettes["set2"]
	for i, n := range s.ByClass(ClassPlaceBar) {
		if got := n.(*PathNode).Stroke.Colour; got != pal[i] {
			t.Fatalf("bar %d colour = %s, want %s", i, got, pal[i])
		}
	}
	for i, n := range s.ByClass(ClassDistanceMarker) {
		if got := n.(*RectNode).Fill; got != pal[i] {
			t.Fatalf("marker %d colour = %s, want %s", i, got, pal[i])
		}
	}
}
