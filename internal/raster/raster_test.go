package raster

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"leavings/internal/config"
	"leavings/internal/history"
	"leavings/internal/layout"
	"leavings/internal/scene"
)

func build(t *testing.T, size layout.Size) *scene.Scene {
	t.Helper()
	h, err := history.New([]history.Visit{
		{Place: "A", Start: 2000, End: 2005, Distance: 0},
		{Place: "B", Start: 2005, End: 2010, Distance: 100, Reason: history.ReasonPersonal},
		{Place: "C", Start: 2010, End: 2016, Distance: 300, Reason: history.ReasonReligion},
	})
	if err != nil {
		t.Fatal(err)
	}
	return scene.Build(h, config.Default(), size)
}

func TestEncodePNG(t *testing.T) {
	s := build(t, layout.Size{Width: 600, Height: 400})
	var buf bytes.Buffer
	if err := (Encoder{}).Encode(&buf, s); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 400 {
		t.Fatalf("image is %dx%d", b.Dx(), b.Dy())
	}

	// Top left corner sits in the margin: background.
	r, g, b, _ := img.At(2, 2).RGBA()
	if r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
		t.Fatalf("corner = %02x%02x%02x, want white", r>>8, g>>8, b>>8)
	}

	// The middle of the widest distance segment carries its place colour.
	dist := s.Group(scene.GroupDistance)
	markers := s.ByClass(scene.ClassDistanceMarker)
	widest := markers[0].(*scene.RectNode)
	for _, n := range markers {
		if rn := n.(*scene.RectNode); rn.Width > widest.Width {
			widest = rn
		}
	}
	cx := px(dist.X + widest.X + widest.Width/2)
	cy := px(dist.Y + widest.Y + widest.Height/2)
	want := color(widest.Fill)
	r, g, b, _ = img.At(cx, cy).RGBA()
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Fatalf("segment centre = %02x%02x%02x, want %s", r>>8, g>>8, b>>8, widest.Fill)
	}
}

func TestEncodeRejectsEmptyCanvas(t *testing.T) {
	s := &scene.Scene{Width: 0, Height: 10}
	err := (Encoder{}).Encode(&bytes.Buffer{}, s)
	if err == nil || !strings.Contains(err.Error(), "0x10") {
		t.Fatalf("err = %v", err)
	}
}

func TestColor(t *testing.T) {
	c := color("#fc8d62")
	if c.R != 0xfc || c.G != 0x8d || c.B != 0x62 || c.A != 0xff {
		t.Fatalf("color = %+v", c)
	}
}
