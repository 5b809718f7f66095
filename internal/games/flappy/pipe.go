package flappy

import (
	"math/rand"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Pipe is a pair of vertical obstacles with a gap between them.
type Pipe struct {
	X         float64 // Left edge
	Width     float64
	Gap       float64
	TopHeight float64 // Bottom edge of the top half
	Speed     float64 // Units per reference frame
	Passed    bool    // Set once when the bird clears the pipe
}

// BottomY returns the top edge of the bottom half.
func (p Pipe) BottomY() float64 {
	return p.TopHeight + p.Gap
}

// Update moves the pipe left by its speed over dt seconds.
func (p *Pipe) Update(dt float64) {
	p.X -= p.Speed * dt * referenceFPS
}

// TopRect returns the collision rectangle for the top half.
func (p Pipe) TopRect() core.RectF {
	return core.NewRectF(p.X, 0, p.Width, p.TopHeight)
}

// BottomRect returns the collision rectangle for the bottom half.
func (p Pipe) BottomRect(worldH float64) core.RectF {
	return core.NewRectF(p.X, p.BottomY(), p.Width, worldH-p.BottomY())
}

// OffScreen reports whether the pipe's right edge has left the world.
func (p Pipe) OffScreen() bool {
	return p.X+p.Width <= 0
}

// PipeManager spawns, advances and evicts pipes.
// Pipes are kept in spawn order, which is also left-to-right order.
type PipeManager struct {
	pipes  []Pipe
	rng    *rand.Rand
	cfg    config.PipeConfig
	worldW float64
	worldH float64

	speed    float64 // applied to every pipe
	gap      float64 // applied to new spawns
	interval float64 // spacing between spawns
}

// NewPipeManager creates a pipe manager with the given RNG seed.
func NewPipeManager(seed int64, worldW, worldH float64, cfg config.PipeConfig) *PipeManager {
	pm := &PipeManager{
		pipes:  make([]Pipe, 0, 8),
		cfg:    cfg,
		worldW: worldW,
		worldH: worldH,
		gap:    cfg.Gap,
	}
	pm.Reset(seed)
	return pm
}

// Reset clears all pipes and reseeds the RNG.
func (pm *PipeManager) Reset(seed int64) {
	pm.pipes = pm.pipes[:0]
	pm.rng = rand.New(rand.NewSource(seed))
}

// ApplySettings installs difficulty settings. Speed changes reach pipes
// already on screen; gap and interval only shape future spawns.
func (pm *PipeManager) ApplySettings(s config.LevelSettings) {
	pm.gap = s.PipeGap
	pm.interval = s.PipeInterval
	pm.ApplySpeed(s.PipeSpeed)
}

// ApplySpeed sets the speed of every current and future pipe.
func (pm *PipeManager) ApplySpeed(speed float64) {
	pm.speed = speed
	for i := range pm.pipes {
		pm.pipes[i].Speed = speed
	}
}

// Update advances every pipe, evicts the ones that left the world and
// spawns a new one when the spacing allows.
func (pm *PipeManager) Update(dt float64) {
	for i := range pm.pipes {
		pm.pipes[i].Update(dt)
	}
	pm.Evict()
	if pm.shouldSpawn() {
		pm.Spawn()
	}
}

func (pm *PipeManager) shouldSpawn() bool {
	if len(pm.pipes) == 0 {
		return true
	}
	last := pm.pipes[len(pm.pipes)-1]
	return pm.worldW-last.X >= pm.interval
}

// Spawn adds a pipe at the right edge with a random top height in
// [min_top_height, worldH - gap - min_top_height].
func (pm *PipeManager) Spawn() {
	minTop := pm.cfg.MinTopHeight
	maxTop := pm.worldH - pm.gap - minTop
	top := minTop
	if maxTop > minTop {
		top = minTop + pm.rng.Float64()*(maxTop-minTop)
	}

	pm.pipes = append(pm.pipes, Pipe{
		X:         pm.worldW,
		Width:     pm.cfg.Width,
		Gap:       pm.gap,
		TopHeight: top,
		Speed:     pm.speed,
	})
}

// Evict drops pipes whose right edge is at or past the left boundary.
// Returns the number removed.
func (pm *PipeManager) Evict() int {
	kept := pm.pipes[:0]
	for _, p := range pm.pipes {
		if !p.OffScreen() {
			kept = append(kept, p)
		}
	}
	removed := len(pm.pipes) - len(kept)
	pm.pipes = kept
	return removed
}

// ScorePassed marks pipes whose right edge is left of actorX as passed.
// Each pipe counts once; returns the number newly passed.
func (pm *PipeManager) ScorePassed(actorX float64) int {
	passed := 0
	for i := range pm.pipes {
		p := &pm.pipes[i]
		if !p.Passed && p.X+p.Width < actorX {
			p.Passed = true
			passed++
		}
	}
	return passed
}

// CheckCollision reports whether the bird hits any pipe.
func (pm *PipeManager) CheckCollision(b *Bird) bool {
	for _, p := range pm.pipes {
		if b.CheckCollision(p, pm.worldH) {
			return true
		}
	}
	return false
}

// Pipes returns the current pipes in left-to-right order.
func (pm *PipeManager) Pipes() []Pipe {
	return pm.pipes
}

// Draw renders every pipe with a cap at the gap edges.
func (pm *PipeManager) Draw(s core.Surface, groundY float64) {
	const capHeight, capOverhang = 20.0, 5.0

	for _, p := range pm.pipes {
		s.FillRect(p.X, 0, p.Width, p.TopHeight, core.ColorGreen)
		s.FillRect(p.X-capOverhang, p.TopHeight-capHeight, p.Width+2*capOverhang, capHeight, core.ColorBrightGreen)

		bottom := p.BottomY()
		if bottom < groundY {
			s.FillRect(p.X, bottom, p.Width, groundY-bottom, core.ColorGreen)
			s.FillRect(p.X-capOverhang, bottom, p.Width+2*capOverhang, capHeight, core.ColorBrightGreen)
		}
	}
}
