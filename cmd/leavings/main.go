/*
Command leavings draws a relocation history, the places someone has lived,
as a chart.

Every place gets a vertical bar in its own column whose length is the time
spent there. Curved connectors join consecutive places; their dash pattern
tells why the previous place was left. A strip underneath shows the distance
travelled to reach each place, one coloured segment per move.

The chart is written as SVG or PNG, or shown live in the terminal with
-preview, where it is redrawn whenever the terminal is resized.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"leavings/internal/config"
	"leavings/internal/history"
	"leavings/internal/layout"
	"leavings/internal/logging"
	"leavings/internal/preview"
	"leavings/internal/raster"
	"leavings/internal/scene"
	"leavings/internal/svg"
)

// options are the parsed command line flags.
type options struct {
	dataFile   string
	configFile string
	preset     string
	outputFile string
	width      int
	height     int
	preview    bool
	debug      bool
	logLevel   string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("leavings", flag.ContinueOnError)
	fs.StringVar(&o.dataFile, "data", filepath.Join("data", "history.json"), "History file, JSON or YAML")
	fs.StringVar(&o.configFile, "config", "", "YAML configuration file (optional)")
	fs.StringVar(&o.preset, "preset", "", "Layout preset: "+strings.Join(config.PresetNames(), " or "))
	fs.StringVar(&o.outputFile, "output", "", "Output file, .svg or .png (optional)")
	fs.IntVar(&o.width, "width", 0, "Canvas width in pixels (overrides the config)")
	fs.IntVar(&o.height, "height", 0, "Canvas height in pixels (overrides the config)")
	fs.BoolVar(&o.preview, "preview", false, "Show the chart in the terminal instead of writing a file")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug mode for verbose output")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	fs.Usage = func() {
		w := fs.Output()
		fmt.Fprintf(w, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(w, "\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(w, "\nThe history file is an ordered array of places with place, start, end,\n")
		fmt.Fprintf(w, "distance, reason and (optionally) uncertain fields.\n")
		fmt.Fprintf(w, "If no output file is specified, the history filename with .svg extension will be used.\n")
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  %s --data history.json --output leavings.png --width 1600 --height 1000\n", os.Args[0])
		fmt.Fprintf(w, "  %s --data history.yaml --preset timeline --preview\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.width < 0 || o.height < 0 {
		return options{}, fmt.Errorf("width and height must not be negative")
	}
	return o, nil
}

// getOutputFilename returns outputFile when set, otherwise the data file's
// base name with an .svg extension.
func getOutputFilename(dataFile, outputFile string) string {
	if outputFile != "" {
		return outputFile
	}
	base := filepath.Base(dataFile)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".svg"
}

// encoderFor picks the output format from the file extension.
func encoderFor(path string) (scene.Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg", "":
		return svg.Encoder{}, nil
	case ".png":
		return raster.Encoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use .svg or .png)", filepath.Ext(path))
	}
}

// loadConfig reads the configuration and applies the canvas flags.
func loadConfig(o options) (config.Config, error) {
	cfg, err := config.Load(o.configFile, o.preset)
	if err != nil {
		return config.Config{}, err
	}
	if o.width > 0 {
		cfg.Canvas.Width = o.width
	}
	if o.height > 0 {
		cfg.Canvas.Height = o.height
	}
	return cfg, nil
}

// render builds the chart and writes it to path.
func render(h history.History, cfg config.Config, path string) error {
	enc, err := encoderFor(path)
	if err != nil {
		return err
	}

	size := layout.Size{Width: float64(cfg.Canvas.Width), Height: float64(cfg.Canvas.Height)}
	s := scene.Build(h, cfg, size)
	for _, o := range scene.Overflowing(s) {
		logging.Warnf("label %q (%s) does not fit the %dx%d canvas", o.Text.Text, o.Text.Class, cfg.Canvas.Width, cfg.Canvas.Height)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	if err := enc.Encode(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runPreview(o options, cfg config.Config) error {
	if o.debug {
		f, err := tea.LogToFile("leavings-debug.log", "")
		if err != nil {
			return fmt.Errorf("error opening debug log: %w", err)
		}
		defer f.Close()
		logging.SetOutput(f)
	} else {
		logging.SetOutput(io.Discard)
	}

	// The preview saves SVG only.
	save := getOutputFilename(o.dataFile, o.outputFile)
	save = strings.TrimSuffix(save, filepath.Ext(save)) + ".svg"

	m := preview.New(o.dataFile, cfg, save)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func run(args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	if err := logging.SetLevel(o.logLevel); err != nil {
		return err
	}
	if o.debug {
		_ = logging.SetLevel("debug")
	}

	cfg, err := loadConfig(o)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	logging.Debugf("configuration loaded: preset %s, canvas %dx%d", cfg.Preset, cfg.Canvas.Width, cfg.Canvas.Height)

	if o.preview {
		return runPreview(o, cfg)
	}

	h, err := history.Load(o.dataFile)
	if err != nil {
		return fmt.Errorf("error loading history: %w", err)
	}
	logging.Infof("Loaded %d places from %s", h.Len(), o.dataFile)

	outputPath := getOutputFilename(o.dataFile, o.outputFile)
	if err := render(h, cfg, outputPath); err != nil {
		return err
	}
	logging.Infof("Chart generated successfully: %s", outputPath)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
