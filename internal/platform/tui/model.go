package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// cellAspect is how many columns match one row in height.
const cellAspect = 2.0

// Options carries the host services a Model hands to its game.
type Options struct {
	Store         *storage.Store // nil keeps state in memory
	Namespace     string         // kv namespace; defaults to the game ID
	Sound         core.SoundPlayer
	Haptics       core.Haptics
	Logger        core.Logger
	ScreenshotDir string // defaults to ~/.flappy/screenshots
}

// BellHaptics stands in for vibration by ringing the terminal bell.
type BellHaptics struct {
	W io.Writer
}

// Vibrate writes BEL to the terminal.
func (b BellHaptics) Vibrate() error {
	_, err := io.WriteString(b.W, "\a")
	return err
}

// Model is the Bubble Tea model hosting one game.
type Model struct {
	game   registry.Game
	screen *core.Screen
	sched  *frameScheduler
	opts   Options
	config core.RuntimeConfig
	keys   *KeyMapper

	termW, termH int
	state        core.GameState
	err          error
	status       string
	scoreSaved   bool
	quitting     bool
	backToMenu   bool
}

// NewModel creates a model for game. cfg carries the terminal size.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) *Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	m := &Model{
		game:   game,
		sched:  newFrameScheduler(cfg.TickRate),
		opts:   opts,
		config: cfg,
		keys:   NewKeyMapper(),
		termW:  cfg.ScreenW,
		termH:  cfg.ScreenH,
	}
	w, h := m.viewport()
	m.screen = core.NewScreen(w, h)
	return m
}

// Viewport fits a worldW x worldH play field into a terminal, leaving one
// row for the status line and keeping the field's proportions.
func Viewport(termW, termH int, worldW, worldH float64) (cols, rows int) {
	rows = termH - 1
	cols = int(float64(rows) * worldW / worldH * cellAspect)
	if cols > termW {
		cols = termW
		rows = int(float64(cols) * worldH / worldW / cellAspect)
	}
	return core.Max(cols, 0), core.Max(rows, 0)
}

func (m *Model) viewport() (int, int) {
	ww, wh := m.game.WorldSize()
	return Viewport(m.termW, m.termH, ww, wh)
}

func (m *Model) env() core.Env {
	env := core.Env{
		Scheduler: m.sched,
		Sound:     m.opts.Sound,
		Haptics:   m.opts.Haptics,
		Logger:    m.opts.Logger,
	}
	if m.opts.Store != nil {
		ns := m.opts.Namespace
		if ns == "" {
			ns = m.game.ID()
		}
		env.Store = m.opts.Store.KV(ns)
	}
	return env
}

// reset starts a session sized to the current viewport.
func (m *Model) reset() {
	rc := m.config
	rc.ScreenW, rc.ScreenH = m.screen.Width(), m.screen.Height()
	m.err = m.game.Reset(rc, m.env())
	if m.err != nil {
		m.opts.Logger.Warn("cannot start game", "game", m.game.ID(), "err", m.err)
		return
	}
	m.state = m.game.State()
	m.scoreSaved = false
}

// Init starts the game in its Ready state. Frames are only requested once
// the game asks for them.
func (m *Model) Init() tea.Cmd {
	m.reset()
	return nil
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if a := m.keys.MapMouse(msg); a != core.ActionNone && m.err == nil {
			m.game.HandleAction(a)
			return m, m.afterInput()
		}

	case tea.FocusMsg:
		if m.err == nil {
			m.game.OnVisible()
			return m, m.afterInput()
		}

	case tea.BlurMsg:
		if m.err == nil {
			m.game.OnHidden()
			m.sync()
		}

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		cmd := m.sched.fire(msg)
		m.sync()
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		m.unload()
		return m, tea.Quit

	case action == core.ActionBack:
		m.backToMenu = true
		m.unload()
		return m, tea.Quit

	case action == core.ActionNone || m.err != nil:
		return m, nil
	}

	m.status = ""
	m.game.HandleAction(action)
	return m, m.afterInput()
}

// afterInput refreshes state and starts ticking if the game asked for frames.
func (m *Model) afterInput() tea.Cmd {
	m.sync()
	return m.sched.arm()
}

// sync copies the game state and records a finished run once.
func (m *Model) sync() {
	m.state = m.game.State()
	if !m.state.GameOver {
		m.scoreSaved = false
		return
	}
	if m.scoreSaved || m.state.Score <= 0 {
		return
	}
	m.scoreSaved = true
	if m.opts.Store == nil {
		return
	}
	if _, err := m.opts.Store.SaveRun(m.game.ID(), m.state.Score, m.state.LevelName); err != nil {
		m.opts.Logger.Warn("save score", "game", m.game.ID(), "err", err)
	}
}

func (m *Model) unload() {
	if m.err == nil {
		m.game.OnUnload()
	}
}

// handleResize refits the viewport. The session survives; it is only
// restarted when the terminal was too small to create one.
func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.termW, m.termH = msg.Width, msg.Height
	m.screen.Resize(m.viewport())
	if errors.Is(m.err, flappy.ErrSurfaceUnavailable) {
		m.reset()
	}
	return m, nil
}

// saveScreenshot writes the current frame as plain text.
func (m *Model) saveScreenshot() {
	m.renderFrame()

	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			m.status = "screenshot failed"
			return
		}
		dir = filepath.Join(home, ".flappy", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.opts.Logger.Warn("screenshot", "err", err)
		m.status = "screenshot failed"
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("screenshot", "err", err)
		m.status = "screenshot failed"
		return
	}
	m.status = "saved " + name
}

func (m *Model) renderFrame() {
	ww, wh := m.game.WorldSize()
	m.game.Render(core.NewCellSurface(m.screen, ww, wh))
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// statusLine summarises the session under the play field.
func (m *Model) statusLine() string {
	parts := []string{
		fmt.Sprintf("Score %d", m.state.Score),
		fmt.Sprintf("Best %d", m.state.HighScore),
	}
	if m.state.LevelName != "" {
		parts = append(parts, m.state.LevelName)
	}
	if m.status != "" {
		parts = append(parts, m.status)
	} else {
		parts = append(parts, "space flap · p pause · m mute · q quit")
	}
	return statusStyle.Render(strings.Join(parts, "  "))
}

// View renders the current state to a string for display.
func (m *Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	if m.err != nil {
		msg := errorStyle.Render("Terminal too small") + "\n" +
			statusStyle.Render(fmt.Sprintf("need at least %dx%d, have %dx%d · q quit",
				flappy.MinScreenW, flappy.MinScreenH+1, m.termW, m.termH))
		if !errors.Is(m.err, flappy.ErrSurfaceUnavailable) {
			msg = errorStyle.Render(m.err.Error())
		}
		return lipgloss.Place(m.termW, m.termH, lipgloss.Center, lipgloss.Center, msg)
	}

	m.renderFrame()
	frame := RenderScreen(m.screen) + "\n" + m.statusLine()
	return lipgloss.PlaceHorizontal(m.termW, lipgloss.Center, frame)
}

// State returns the last observed game state.
func (m *Model) State() core.GameState {
	return m.state
}

// Err returns why the game could not start, if it could not.
func (m *Model) Err() error {
	return m.err
}

// BackToMenu returns true if user requested to go back to menu.
func (m *Model) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user requested to quit entirely.
func (m *Model) IsQuitting() bool {
	return m.quitting
}

// Run plays game in the local terminal until the player quits or goes
// back. Returns true when the player asked for the menu.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) (backToMenu bool, err error) {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return false, err
	}
	return model.BackToMenu(), nil
}
