package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Background is the scrolling ground strip. It is cosmetic apart from the
// grass line, which is the lower collision boundary.
type Background struct {
	Offset float64 // scroll position in [-width, 0]
	Speed  float64 // units per reference frame

	width  float64
	height float64
	cfg    config.BackgroundConfig
}

// NewBackground creates a background for a world of the given size.
func NewBackground(worldW, worldH float64, cfg config.BackgroundConfig) *Background {
	return &Background{width: worldW, height: worldH, cfg: cfg}
}

// GroundY returns the top of the dirt layer.
func (bg *Background) GroundY() float64 {
	return bg.height - bg.cfg.GroundOffset
}

// GrassY returns the top of the grass, the collision line.
func (bg *Background) GrassY() float64 {
	return bg.GroundY() - bg.cfg.GrassHeight
}

// Update scrolls the ground by its speed over dt seconds.
func (bg *Background) Update(dt float64) {
	bg.Offset -= bg.Speed * dt * referenceFPS
	for bg.Offset <= -bg.width {
		bg.Offset += bg.width
	}
}

// CheckGroundCollision reports whether a circle touches the grass.
func (bg *Background) CheckGroundCollision(c core.Circle) bool {
	return core.CircleHitsGround(c, bg.GrassY())
}

// Draw renders grass and dirt with scrolling tufts. The sky is the
// surface's clear color.
func (bg *Background) Draw(s core.Surface) {
	s.FillRect(0, bg.GrassY(), bg.width, bg.cfg.GrassHeight, core.ColorBrightGreen)
	s.FillRect(0, bg.GroundY(), bg.width, bg.cfg.GroundOffset, core.ColorBrown)

	const tuftSpacing = 40.0
	for x := bg.Offset; x < bg.width; x += tuftSpacing {
		s.Line(x, bg.GroundY()+8, x+tuftSpacing/2, bg.GroundY()+8, core.ColorOrange)
	}
}
