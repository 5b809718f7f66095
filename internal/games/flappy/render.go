package flappy

import (
	"fmt"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Colors
const (
	colorSky  = core.ColorBlue
	colorHUD  = core.ColorBrightWhite
	colorGold = core.ColorBrightYellow
)

var tutorialLines = []string{
	"Tap (Space) to flap",
	"Fly through the gaps",
	"Don't touch pipes or ground",
}

// Render draws the whole frame: world layer under shake, effects, then HUD.
func (c *Controller) Render(s core.Surface) {
	w, h := s.Size()
	s.Clear(colorSky)

	dx, dy := c.effects.ShakeOffset()
	s.Save()
	s.Translate(dx, dy)
	c.background.Draw(s)
	c.pipes.Draw(s, c.background.GroundY())
	c.bird.Draw(s)
	if c.cfg.Debug.ShowHitbox {
		c.drawHitboxes(s)
	}
	s.Restore()

	c.effects.Draw(s)
	c.drawHUD(s, w, h)
}

func (c *Controller) drawHitboxes(s core.Surface) {
	c.bird.DrawHitbox(s)
	for _, p := range c.pipes.Pipes() {
		top := p.TopRect()
		bottom := p.BottomRect(c.cfg.World.Height)
		s.StrokeRect(top.X, top.Y, top.W, top.H, core.ColorRed)
		s.StrokeRect(bottom.X, bottom.Y, bottom.W, bottom.H, core.ColorRed)
	}
	s.Line(0, c.background.GrassY(), c.cfg.World.Width, c.background.GrassY(), core.ColorRed)
}

func (c *Controller) drawHUD(s core.Surface, w, h float64) {
	core.TextCentered(s, w/2, 20, fmt.Sprintf("%d", c.score), colorHUD)

	if c.cfg.Debug.ShowFPS {
		s.Text(8, 8, fmt.Sprintf("FPS %.0f", c.fps), core.ColorGray)
	}

	switch c.phase {
	case core.PhaseReady:
		core.TextCentered(s, w/2, h*0.25, "FLAPPY", colorGold)
		for i, line := range tutorialLines {
			core.TextCentered(s, w/2, h*0.55+float64(i)*24, line, colorHUD)
		}
		if best := c.highScore; best > 0 {
			core.TextCentered(s, w/2, h*0.55+float64(len(tutorialLines))*24+12, fmt.Sprintf("Best: %d", best), colorGold)
		}
		if c.recoverable {
			core.TextCentered(s, w/2, h*0.4, "Press Enter to restore last run", core.ColorBrightCyan)
		}

	case core.PhasePlaying:
		s.Text(w-130, 8, "Level: "+c.settings.Name, core.ColorBrightCyan)

	case core.PhasePaused:
		c.drawPanel(s, w, h, "PAUSED", "Press P to resume")

	case core.PhaseGameOver:
		sub := fmt.Sprintf("Score %d  Best %d", c.score, core.Max(c.highScore, c.score))
		c.drawPanel(s, w, h, "GAME OVER", sub)
		hint := "Tap to restart"
		if c.recoverable {
			hint = "Something went wrong. Enter restores"
		}
		core.TextCentered(s, w/2, h/2+60, hint, colorHUD)
	}
}

// drawPanel draws a centered message box.
func (c *Controller) drawPanel(s core.Surface, w, h float64, title, sub string) {
	pw, ph := w*0.8, 100.0
	x, y := (w-pw)/2, (h-ph)/2

	s.Save()
	s.SetAlpha(0.8)
	s.FillRect(x, y, pw, ph, core.ColorBlack)
	s.Restore()
	s.StrokeRect(x, y, pw, ph, colorGold)
	core.TextCentered(s, w/2, y+25, title, colorGold)
	core.TextCentered(s, w/2, y+60, sub, colorHUD)
}
