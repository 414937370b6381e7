// Package preview shows the chart in the terminal and redraws it whenever
// the terminal is resized.
package preview

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"leavings/internal/config"
	"leavings/internal/history"
	"leavings/internal/layout"
	"leavings/internal/logging"
	"leavings/internal/scene"
	"leavings/internal/svg"
)

type state int

const (
	stateUnloaded state = iota
	stateReady
)

type keyMap struct {
	Preset key.Binding
	Save   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding { return []key.Binding{k.Preset, k.Save, k.Help, k.Quit} }

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var keys = keyMap{
	Preset: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preset")),
	Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save svg")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"})
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E15759"))
)

const (
	headerHeight = 1
	footerHeight = 1
)

type loadedMsg struct {
	history history.History
	err     error
}

type savedMsg struct {
	path string
	err  error
}

// Model is the bubbletea model of the preview.
type Model struct {
	dataPath string
	savePath string

	configs []config.Config
	active  int

	state   state
	history history.History
	scene   *scene.Scene

	width, height int

	status   string
	failed   bool
	help     help.Model
	showHelp bool
}

// New returns a preview of the history at dataPath. The given configuration
// is shown first; the other preset is one key press away and keeps cfg's
// canvas size. savePath is where "s" writes an SVG.
func New(dataPath string, cfg config.Config, savePath string) Model {
	configs := []config.Config{cfg}
	for _, name := range config.PresetNames() {
		if name != cfg.Preset {
			alt, _ := config.Preset(name)
			alt.Canvas = cfg.Canvas
			configs = append(configs, alt)
		}
	}
	return Model{
		dataPath: dataPath,
		savePath: savePath,
		configs:  configs,
		status:   "loading " + dataPath,
		help:     help.New(),
		showHelp: true,
	}
}

// Init starts loading the data.
func (m Model) Init() tea.Cmd { return load(m.dataPath) }

func load(path string) tea.Cmd {
	return func() tea.Msg {
		h, err := history.Load(path)
		return loadedMsg{history: h, err: err}
	}
}

func save(path string, h history.History, cfg config.Config) tea.Cmd {
	return func() tea.Msg {
		s := scene.Build(h, cfg, layout.Size{Width: float64(cfg.Canvas.Width), Height: float64(cfg.Canvas.Height)})
		f, err := os.Create(path)
		if err != nil {
			return savedMsg{path: path, err: err}
		}
		if err := (svg.Encoder{}).Encode(f, s); err != nil {
			f.Close()
			return savedMsg{path: path, err: err}
		}
		return savedMsg{path: path, err: f.Close()}
	}
}

func (m Model) current() config.Config { return m.configs[m.active] }

// Update handles loading, resizing and keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.status = "load error: " + msg.err.Error()
			m.failed = true
			logging.Errorf("preview: %v", msg.err)
			return m, nil
		}
		m.history = msg.history
		m.state = stateReady
		m.status = fmt.Sprintf("%d places loaded", m.history.Len())
		m.redraw()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.redraw()

	case savedMsg:
		if msg.err != nil {
			m.status = "save error: " + msg.err.Error()
			m.failed = true
		} else {
			m.status = "saved " + msg.path
			m.failed = false
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, keys.Preset):
			m.active = (m.active + 1) % len(m.configs)
			m.status = "preset: " + m.current().Preset
			m.failed = false
			m.redraw()
		case key.Matches(msg, keys.Save):
			if m.state != stateReady {
				return m, nil
			}
			return m, save(m.savePath, m.history, m.current())
		}
	}
	return m, nil
}

// canvasSize is the chart area in cells.
func (m Model) canvasSize() (int, int) {
	return m.width, m.height - headerHeight - footerHeight
}

// redraw rebuilds the scene for the current terminal size. Every call
// starts from scratch.
func (m *Model) redraw() {
	w, h := m.canvasSize()
	if m.state != stateReady || w <= 0 || h <= 0 {
		m.scene = nil
		return
	}
	size := layout.Size{Width: float64(w * 2), Height: float64(h * 4)}
	m.scene = scene.Build(m.history, m.current(), size)
	logging.Debugf("preview: redraw %dx%d cells (%s)", w, h, m.current().Preset)
}

// View renders header, chart and footer.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := titleStyle.Render(" leavings ") + dimStyle.Render("─ "+m.current().Preset)

	w, h := m.canvasSize()
	var body string
	switch {
	case m.state == stateUnloaded || m.scene == nil:
		body = lipgloss.Place(max(w, 1), max(h, 1), lipgloss.Center, lipgloss.Center, dimStyle.Render(m.status))
	default:
		c := newCanvas(w, h)
		c.draw(m.scene)
		body = strings.Join(c.lines(), "\n")
	}

	status := dimStyle.Render(" " + m.status + " ")
	if m.failed {
		status = errStyle.Render(" " + m.status + " ")
	}
	footer := status
	if m.showHelp {
		footer = lipgloss.JoinHorizontal(lipgloss.Bottom, status, " ", m.help.View(keys))
	}
	footer = lipgloss.NewStyle().MaxWidth(m.width).Render(footer)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
