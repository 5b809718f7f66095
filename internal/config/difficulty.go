package config

import "github.com/vovakirdan/tui-flappy/internal/core"

// LevelSettings are the effective gameplay values for the current difficulty.
type LevelSettings struct {
	Name            string
	PipeSpeed       float64 // world units per reference frame
	PipeGap         float64
	PipeInterval    float64
	BackgroundSpeed float64
}

// DifficultyPolicy maps score to a difficulty level.
// Implementations never move the level backwards within a session.
type DifficultyPolicy interface {
	// Observe reports a new score and returns true if the level advanced.
	Observe(score int) bool
	// UpdateTransition advances any time-based blending by dt seconds.
	UpdateTransition(dt float64)
	// LevelConfig returns the effective settings right now.
	LevelConfig() LevelSettings
	// Level returns the current level index.
	Level() int
	// Reset returns to the configured start level.
	Reset()
}

// NewDifficultyPolicy builds the policy named by cfg.Policy.
func NewDifficultyPolicy(cfg DifficultyConfig) DifficultyPolicy {
	if cfg.Policy == PolicyInterpolated {
		return NewCursorPolicy(cfg)
	}
	return NewThresholdPolicy(cfg)
}

func settingsFor(cfg DifficultyConfig, lvl LevelConfig) LevelSettings {
	return LevelSettings{
		Name:            lvl.Name,
		PipeSpeed:       lvl.Speed * cfg.PipeSpeedFactor,
		PipeGap:         lvl.Gap,
		PipeInterval:    lvl.Interval,
		BackgroundSpeed: lvl.Speed * cfg.BackgroundSpeedFactor,
	}
}

func clampLevel(cfg DifficultyConfig, level int) int {
	return core.Clamp(level, 0, len(cfg.Levels)-1)
}

// ThresholdPolicy selects the last level whose score threshold has been reached.
type ThresholdPolicy struct {
	cfg   DifficultyConfig
	level int
}

// NewThresholdPolicy creates a threshold policy at the start level.
func NewThresholdPolicy(cfg DifficultyConfig) *ThresholdPolicy {
	p := &ThresholdPolicy{cfg: cfg}
	p.Reset()
	return p
}

// Observe moves to the highest level whose threshold is <= score.
func (p *ThresholdPolicy) Observe(score int) bool {
	if !p.cfg.Enabled {
		return false
	}
	target := p.level
	for i := p.level + 1; i < len(p.cfg.Levels); i++ {
		if p.cfg.Levels[i].ScoreThreshold <= score {
			target = i
		}
	}
	if target == p.level {
		return false
	}
	p.level = target
	return true
}

// UpdateTransition is a no-op; threshold changes apply immediately.
func (p *ThresholdPolicy) UpdateTransition(float64) {}

// LevelConfig returns the current level's settings.
func (p *ThresholdPolicy) LevelConfig() LevelSettings {
	return settingsFor(p.cfg, p.cfg.Levels[p.level])
}

// Level returns the current level index.
func (p *ThresholdPolicy) Level() int {
	return p.level
}

// Reset returns to the start level.
func (p *ThresholdPolicy) Reset() {
	p.level = clampLevel(p.cfg, p.cfg.StartLevel)
}

// CursorPolicy advances one level at a time and blends from the previous
// level's settings into the new one over TransitionSeconds.
type CursorPolicy struct {
	cfg      DifficultyConfig
	cursor   int
	progress float64 // 1 just after a level-up, decays to 0
}

// NewCursorPolicy creates an interpolating policy at the start level.
func NewCursorPolicy(cfg DifficultyConfig) *CursorPolicy {
	p := &CursorPolicy{cfg: cfg}
	p.Reset()
	return p
}

// IncreaseLevel moves the cursor up one level. Returns false at the top.
func (p *CursorPolicy) IncreaseLevel() bool {
	if p.cursor >= len(p.cfg.Levels)-1 {
		return false
	}
	p.cursor++
	if p.cfg.TransitionSeconds > 0 {
		p.progress = 1
	} else {
		p.progress = 0
	}
	return true
}

// Observe advances the cursor once when score reaches the next threshold.
// Larger jumps are taken one level per call so each step gets its blend.
func (p *CursorPolicy) Observe(score int) bool {
	if !p.cfg.Enabled {
		return false
	}
	next := p.cursor + 1
	if next >= len(p.cfg.Levels) || score < p.cfg.Levels[next].ScoreThreshold {
		return false
	}
	return p.IncreaseLevel()
}

// UpdateTransition decays the blend by dt seconds.
func (p *CursorPolicy) UpdateTransition(dt float64) {
	if p.progress <= 0 || dt <= 0 {
		return
	}
	p.progress = core.ClampF(p.progress-dt/p.cfg.TransitionSeconds, 0, 1)
}

// Transition returns the remaining blend in [0,1].
func (p *CursorPolicy) Transition() float64 {
	return p.progress
}

// LevelConfig returns settings blended from the previous level to the current one.
func (p *CursorPolicy) LevelConfig() LevelSettings {
	cur := settingsFor(p.cfg, p.cfg.Levels[p.cursor])
	if p.progress <= 0 || p.cursor == 0 {
		return cur
	}
	prev := settingsFor(p.cfg, p.cfg.Levels[p.cursor-1])
	t := 1 - p.progress
	return LevelSettings{
		Name:            cur.Name,
		PipeSpeed:       core.Lerp(prev.PipeSpeed, cur.PipeSpeed, t),
		PipeGap:         core.Lerp(prev.PipeGap, cur.PipeGap, t),
		PipeInterval:    core.Lerp(prev.PipeInterval, cur.PipeInterval, t),
		BackgroundSpeed: core.Lerp(prev.BackgroundSpeed, cur.BackgroundSpeed, t),
	}
}

// Level returns the cursor position.
func (p *CursorPolicy) Level() int {
	return p.cursor
}

// Reset returns the cursor to the start level with no blend.
func (p *CursorPolicy) Reset() {
	p.cursor = clampLevel(p.cfg, p.cfg.StartLevel)
	p.progress = 0
}

var (
	_ DifficultyPolicy = (*ThresholdPolicy)(nil)
	_ DifficultyPolicy = (*CursorPolicy)(nil)
)
