package tui

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

// fakeGame is a scripted registry.Game. A tap starts a frame loop that
// ends the run with score endScore after endAfter frames.
type fakeGame struct {
	env      core.Env
	rc       core.RuntimeConfig
	state    core.GameState
	resetErr error
	actions  []core.Action

	endAfter int
	endScore int

	resets, frames           int
	visible, hidden, unloads int
}

func newFakeGame() *fakeGame {
	return &fakeGame{endAfter: 3, endScore: 5}
}

func (g *fakeGame) ID() string    { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) Reset(rc core.RuntimeConfig, env core.Env) error {
	g.resets++
	if g.resetErr != nil {
		return g.resetErr
	}
	g.rc = rc
	g.env = env.WithDefaults()
	g.state = core.GameState{Phase: core.PhaseReady, LevelName: "Easy"}
	return nil
}

func (g *fakeGame) HandleAction(a core.Action) {
	g.actions = append(g.actions, a)
	if a == core.ActionTap && g.state.Phase == core.PhaseReady {
		g.state.Phase = core.PhasePlaying
		g.env.Scheduler.RequestTick(g.frame)
	}
}

func (g *fakeGame) frame(time.Time) {
	g.frames++
	if g.frames >= g.endAfter {
		g.state.Phase = core.PhaseGameOver
		g.state.GameOver = true
		g.state.Score = g.endScore
		return
	}
	g.env.Scheduler.RequestTick(g.frame)
}

func (g *fakeGame) Render(dst core.Surface) {
	dst.Clear(core.ColorBlue)
	dst.Text(0, 0, "BIRD", core.ColorYellow)
}

func (g *fakeGame) State() core.GameState         { return g.state }
func (g *fakeGame) WorldSize() (float64, float64) { return 400, 600 }
func (g *fakeGame) OnVisible()                    { g.visible++ }
func (g *fakeGame) OnHidden()                     { g.hidden++ }
func (g *fakeGame) OnUnload()                     { g.unloads++ }

func tooSmall() error {
	return fmt.Errorf("%w: 10x5 is below 20x12", flappy.ErrSurfaceUnavailable)
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
}
