// Package flappy implements a Flappy Bird-style game.
// The player steers a bird through gaps in a stream of pipes; a Controller
// owns the session and drives it from a host-provided frame scheduler.
package flappy

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/registry"
)

// ErrSurfaceUnavailable is returned by Reset when the host surface is too
// small to play on. No session is created.
var ErrSurfaceUnavailable = errors.New("flappy: drawing surface unavailable")

// Minimum host surface in cells or pixels.
const (
	MinScreenW = 20
	MinScreenH = 12
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	difficultyPreset, _ = config.ParsePreset(preset)
}

// LoadConfig resolves the configuration the CLI selected.
func LoadConfig() (config.FlappyConfig, error) {
	cfg, err := config.LoadFlappy(configPath)
	if err != nil {
		return cfg, err
	}
	if difficultyPreset != "" {
		config.ApplyFlappyPreset(&cfg, difficultyPreset)
	}
	return cfg, nil
}

// muter is implemented by sound players that support muting.
type muter interface {
	ToggleMute() bool
}

// Game adapts a Controller to the registry.
type Game struct {
	id     string
	title  string
	policy string
	cfg    *config.FlappyConfig // fixed config; nil means LoadConfig
	ctrl   *Controller
	env    core.Env
}

// New creates the game with the threshold difficulty policy.
func New() *Game {
	return &Game{id: "flappy", title: "Flappy Bird", policy: config.PolicyThreshold}
}

// NewSmooth creates the game with the interpolated difficulty policy.
func NewSmooth() *Game {
	return &Game{id: "flappy_smooth", title: "Flappy Bird (smooth)", policy: config.PolicyInterpolated}
}

// NewWithConfig creates a game that always uses cfg.
func NewWithConfig(cfg config.FlappyConfig) *Game {
	g := New()
	g.policy = cfg.Difficulty.Policy
	g.cfg = &cfg
	return g
}

// NewWithConfigFor creates the registered mode id pinned to cfg.
// The mode keeps its own difficulty policy.
func NewWithConfigFor(id string, cfg config.FlappyConfig) (*Game, error) {
	var g *Game
	switch id {
	case "flappy":
		g = New()
	case "flappy_smooth":
		g = NewSmooth()
	default:
		return nil, fmt.Errorf("flappy: unknown mode %q", id)
	}
	g.cfg = &cfg
	return g, nil
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.title
}

// Reset starts a new session in Ready. Any previous session is unloaded.
func (g *Game) Reset(rc core.RuntimeConfig, env core.Env) error {
	if rc.ScreenW < MinScreenW || rc.ScreenH < MinScreenH {
		return fmt.Errorf("%w: %dx%d is below %dx%d", ErrSurfaceUnavailable, rc.ScreenW, rc.ScreenH, MinScreenW, MinScreenH)
	}

	var cfg config.FlappyConfig
	if g.cfg != nil {
		cfg = *g.cfg
	} else {
		loaded, err := LoadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Difficulty.Policy = g.policy
	if rc.TickRate > 0 {
		cfg.Loop.TargetFPS = rc.TickRate
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if g.ctrl != nil {
		g.ctrl.OnUnload()
	}
	g.env = env.WithDefaults()
	g.ctrl = NewController(cfg, g.env, rc.Seed)
	return nil
}

// HandleAction maps platform actions onto the controller.
func (g *Game) HandleAction(a core.Action) {
	if g.ctrl == nil {
		return
	}
	switch a {
	case core.ActionTap:
		g.ctrl.Tap()
	case core.ActionPause:
		g.ctrl.TogglePause()
	case core.ActionRestart:
		if g.ctrl.State().GameOver {
			g.ctrl.Restart()
		}
	case core.ActionConfirm:
		if g.ctrl.State().Recoverable {
			if err := g.ctrl.RestoreRecovery(); err != nil {
				g.env.Logger.Warn("restore failed", "err", err)
			}
		}
	case core.ActionMute:
		if m, ok := g.env.Sound.(muter); ok {
			muted := m.ToggleMute()
			g.env.Logger.Debug("mute toggled", "muted", muted)
		}
	}
}

// Render draws the current frame.
func (g *Game) Render(dst core.Surface) {
	if g.ctrl == nil {
		return
	}
	g.ctrl.Render(dst)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.ctrl == nil {
		return core.GameState{}
	}
	return g.ctrl.State()
}

// WorldSize returns the logical play-field size hosts should project.
func (g *Game) WorldSize() (float64, float64) {
	if g.ctrl == nil {
		def := config.DefaultFlappyConfig()
		return def.World.Width, def.World.Height
	}
	cfg := g.ctrl.Config()
	return cfg.World.Width, cfg.World.Height
}

// OnVisible forwards the host visibility hook.
func (g *Game) OnVisible() {
	if g.ctrl != nil {
		g.ctrl.OnVisible()
	}
}

// OnHidden forwards the host visibility hook.
func (g *Game) OnHidden() {
	if g.ctrl != nil {
		g.ctrl.OnHidden()
	}
}

// OnUnload stops the session and releases audio.
func (g *Game) OnUnload() {
	if g.ctrl != nil {
		g.ctrl.OnUnload()
	}
}

// Controller returns the active session, or nil before Reset.
func (g *Game) Controller() *Controller {
	return g.ctrl
}

// Register the game with the registry
func init() {
	registry.Register("flappy", func() registry.Game {
		return New()
	})
	registry.Register("flappy_smooth", func() registry.Game {
		return NewSmooth()
	})
}
