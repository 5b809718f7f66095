package gui

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// Options carries the host services handed to the game.
type Options struct {
	Store     *storage.Store // nil keeps state in memory
	Namespace string         // kv namespace; defaults to the game ID
	Sound     core.SoundPlayer
	Logger    core.Logger
	Scale     float64 // window pixels per world unit; defaults to 1
}

// Vibrator forwards haptic requests to Ebitengine. It does nothing on
// desktops without a vibration device.
type Vibrator struct{}

// Vibrate requests a short pulse.
func (Vibrator) Vibrate() error {
	ebiten.Vibrate(&ebiten.VibrateOptions{Duration: 100 * time.Millisecond, Magnitude: 0.5})
	return nil
}

// Host runs a registry.Game inside an Ebitengine window. It implements
// ebiten.Game; every Update is one display refresh for the game's
// scheduler.
type Host struct {
	game   registry.Game
	sched  *core.ManualScheduler
	input  inputSource
	opts   Options
	now    func() time.Time
	worldW float64
	worldH float64

	focused    bool
	scoreSaved bool
	unloaded   bool
	state      core.GameState
}

// NewHost starts a session of game sized to its world.
func NewHost(game registry.Game, cfg core.RuntimeConfig, opts Options) (*Host, error) {
	return newHost(game, cfg, opts, &ebitenInput{}, time.Now)
}

func newHost(game registry.Game, cfg core.RuntimeConfig, opts Options, in inputSource, now func() time.Time) (*Host, error) {
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = now().UnixNano()
	}

	h := &Host{
		game:    game,
		sched:   core.NewManualScheduler(),
		input:   in,
		opts:    opts,
		now:     now,
		focused: true,
	}

	env := core.Env{
		Scheduler: h.sched,
		Sound:     opts.Sound,
		Haptics:   Vibrator{},
		Logger:    opts.Logger,
	}
	if opts.Store != nil {
		ns := opts.Namespace
		if ns == "" {
			ns = game.ID()
		}
		env.Store = opts.Store.KV(ns)
	}

	h.worldW, h.worldH = game.WorldSize()
	cfg.ScreenW = int(h.worldW * opts.Scale)
	cfg.ScreenH = int(h.worldH * opts.Scale)
	if err := game.Reset(cfg, env); err != nil {
		return nil, err
	}
	h.state = game.State()
	return h, nil
}

// Update polls input and runs the game's pending frame callbacks.
func (h *Host) Update() error {
	in := h.input.Poll()
	if in.closing {
		h.Unload()
		return ebiten.Termination
	}

	if in.focused != h.focused {
		h.focused = in.focused
		if in.focused {
			h.game.OnVisible()
		} else {
			h.game.OnHidden()
		}
	}

	for _, a := range in.actions {
		if a == core.ActionQuit {
			h.Unload()
			return ebiten.Termination
		}
		h.game.HandleAction(a)
	}

	h.sched.Fire(h.now())
	h.sync()
	return nil
}

// sync records a finished run once.
func (h *Host) sync() {
	h.state = h.game.State()
	if !h.state.GameOver {
		h.scoreSaved = false
		return
	}
	if h.scoreSaved || h.state.Score <= 0 {
		return
	}
	h.scoreSaved = true
	if h.opts.Store == nil {
		return
	}
	if _, err := h.opts.Store.SaveRun(h.game.ID(), h.state.Score, h.state.LevelName); err != nil {
		h.opts.Logger.Warn("save score", "game", h.game.ID(), "err", err)
	}
}

// Draw renders the current frame.
func (h *Host) Draw(screen *ebiten.Image) {
	h.game.Render(NewImageSurface(screen, h.worldW, h.worldH, h.opts.Scale))
}

// Layout keeps a fixed logical screen; Ebitengine scales it to the window.
func (h *Host) Layout(int, int) (int, int) {
	return int(h.worldW * h.opts.Scale), int(h.worldH * h.opts.Scale)
}

// Unload tears the session down once.
func (h *Host) Unload() {
	if h.unloaded {
		return
	}
	h.unloaded = true
	h.game.OnUnload()
}

// State returns the last observed game state.
func (h *Host) State() core.GameState {
	return h.state
}

// Run opens a window and plays game until it is closed.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	h, err := NewHost(game, cfg, opts)
	if err != nil {
		return err
	}
	defer h.Unload()

	w, ht := h.Layout(0, 0)
	ebiten.SetWindowSize(w, ht)
	ebiten.SetWindowTitle(game.Title())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	// Keep updating while unfocused so focus loss reaches the game.
	ebiten.SetRunnableOnUnfocused(true)
	if cfg.TickRate > 0 {
		ebiten.SetTPS(cfg.TickRate)
	}

	if err := ebiten.RunGame(h); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
