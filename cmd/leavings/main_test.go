package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"leavings/internal/config"
)

const historyJSON = `[
  {"place": "Bristol", "start": 1988, "end": 1996, "distance": 0},
  {"place": "Glasgow", "start": 1996, "end": 2003, "distance": 480, "reason": "personal"},
  {"place": "Dublin", "start": 2003, "end": 2019, "distance": 300, "uncertain": true}
]`

func writeHistory(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(p, []byte(historyJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestGetOutputFilename(t *testing.T) {
	tests := []struct {
		data, output, want string
	}{
		{"data/history.json", "", "history.svg"},
		{"moves.yaml", "", "moves.svg"},
		{"x.json", "chart.png", "chart.png"},
	}
	for _, tt := range tests {
		if got := getOutputFilename(tt.data, tt.output); got != tt.want {
			t.Errorf("getOutputFilename(%q, %q) = %q, want %q", tt.data, tt.output, got, tt.want)
		}
	}
}

func TestEncoderFor(t *testing.T) {
	for _, p := range []string{"a.svg", "a.SVG", "a.png"} {
		if _, err := encoderFor(p); err != nil {
			t.Errorf("%s: %v", p, err)
		}
	}
	if _, err := encoderFor("a.pdf"); err == nil {
		t.Error("pdf accepted")
	}
}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-data", "h.yaml", "-preset", "timeline", "-width", "640", "-preview"})
	if err != nil {
		t.Fatal(err)
	}
	if o.dataFile != "h.yaml" || o.preset != "timeline" || o.width != 640 || !o.preview {
		t.Fatalf("options = %+v", o)
	}
	if _, err := parseFlags([]string{"-height", "-5"}); err == nil {
		t.Fatal("negative height accepted")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(options{preset: config.PresetTimeline, width: 640})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Preset != config.PresetTimeline || cfg.Canvas.Width != 640 || cfg.Canvas.Height != 800 {
		t.Fatalf("cfg = %s %+v", cfg.Preset, cfg.Canvas)
	}
	if _, err := loadConfig(options{preset: "poster"}); err == nil {
		t.Fatal("unknown preset accepted")
	}
}

func TestRunWritesSVG(t *testing.T) {
	data := writeHistory(t)
	out := filepath.Join(t.TempDir(), "out.svg")
	if err := run([]string{"-data", data, "-output", out, "-log-level", "error"}); err != nil {
		t.Fatal(err)
	}
	doc, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{">Glasgow</text>", ">2003 (ish)</text>", `stroke-dasharray="3"`} {
		if !strings.Contains(string(doc), want) {
			t.Errorf("svg lacks %q", want)
		}
	}
}

func TestRunWritesPNG(t *testing.T) {
	data := writeHistory(t)
	out := filepath.Join(t.TempDir(), "out.png")
	if err := run([]string{"-data", data, "-output", out, "-width", "320", "-height", "240", "-log-level", "error"}); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Fatalf("png is %dx%d", b.Dx(), b.Dy())
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	if err := run([]string{"-data", filepath.Join(dir, "missing.json"), "-log-level", "error"}); err == nil ||
		!strings.Contains(err.Error(), "error loading history") {
		t.Fatalf("missing data: err = %v", err)
	}
	if err := run([]string{"-data", writeHistory(t), "-log-level", "loud"}); err == nil {
		t.Fatal("bad log level accepted")
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("chart: {bar_width: 2}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := run([]string{"-data", writeHistory(t), "-config", bad, "-log-level", "error"}); err == nil ||
		!strings.Contains(err.Error(), "error loading configuration") {
		t.Fatalf("bad config: err = %v", err)
	}
}
