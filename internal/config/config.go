// Package config provides YAML-based configuration loading, validation and
// difficulty policies for the flappy game.
package config

import "errors"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// FlappyConfig contains all configuration for the game.
// It is passed by value; components never share a mutable copy.
type FlappyConfig struct {
	World      WorldConfig      `yaml:"world"`
	Bird       BirdConfig       `yaml:"bird"`
	Pipes      PipeConfig       `yaml:"pipes"`
	Background BackgroundConfig `yaml:"background"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Effects    EffectsConfig    `yaml:"effects"`
	Audio      AudioConfig      `yaml:"audio"`
	Loop       LoopConfig       `yaml:"loop"`
	Debug      DebugConfig      `yaml:"debug"`
}

// WorldConfig is the logical play-field size in world units.
// Hosts scale it to cells or pixels.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BirdConfig defines actor physics. Rates are per reference frame (1/60 s).
type BirdConfig struct {
	Gravity          float64 `yaml:"gravity"`
	FlapPower        float64 `yaml:"flap_power"`
	MinVelocity      float64 `yaml:"min_velocity"`
	TerminalVelocity float64 `yaml:"terminal_velocity"`
	VelocityScale    float64 `yaml:"velocity_scale"` // position units per velocity unit per second
	MaxRotation      float64 `yaml:"max_rotation"`
	MinRotation      float64 `yaml:"min_rotation"`
	RotationSpeed    float64 `yaml:"rotation_speed"`
	WingSpeed        float64 `yaml:"wing_speed"`
	Width            float64 `yaml:"width"`
	Height           float64 `yaml:"height"`
	RadiusDivisor    float64 `yaml:"radius_divisor"` // hitbox radius = width / divisor
}

// PipeConfig defines obstacle geometry.
type PipeConfig struct {
	Width        float64 `yaml:"width"`
	Gap          float64 `yaml:"gap"`
	MinTopHeight float64 `yaml:"min_top_height"`
}

// BackgroundConfig defines the scrolling ground.
type BackgroundConfig struct {
	GroundOffset float64 `yaml:"ground_offset"` // ground line sits this far above the bottom
	GrassHeight  float64 `yaml:"grass_height"`
}

// DifficultyConfig defines the level table and how the game walks it.
type DifficultyConfig struct {
	Enabled               bool          `yaml:"enabled"`
	Policy                string        `yaml:"policy"` // "threshold" or "interpolated"
	StartLevel            int           `yaml:"start_level"`
	PipeSpeedFactor       float64       `yaml:"pipe_speed_factor"`
	BackgroundSpeedFactor float64       `yaml:"background_speed_factor"`
	LevelUpBannerSeconds  float64       `yaml:"level_up_banner_seconds"`
	TransitionSeconds     float64       `yaml:"transition_seconds"`
	Levels                []LevelConfig `yaml:"levels"`
}

// LevelConfig is one row of the difficulty table.
type LevelConfig struct {
	Name           string  `yaml:"name"`
	Speed          float64 `yaml:"speed"`
	Gap            float64 `yaml:"gap"`
	Interval       float64 `yaml:"interval"`
	ScoreThreshold int     `yaml:"score_threshold"`
}

// EffectsConfig toggles the cosmetic effects.
type EffectsConfig struct {
	ScorePopup  bool `yaml:"score_popup"`
	ScreenShake bool `yaml:"screen_shake"`
	Particles   bool `yaml:"particles"`
	PoolSize    int  `yaml:"pool_size"`
}

// AudioConfig controls sound cues.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0..1
}

// LoopConfig controls frame timing.
type LoopConfig struct {
	TargetFPS      int     `yaml:"target_fps"`
	MaxFrameFactor float64 `yaml:"max_frame_factor"` // dt clamp in nominal frames
}

// DebugConfig enables developer overlays.
type DebugConfig struct {
	ShowFPS    bool `yaml:"show_fps"`
	ShowHitbox bool `yaml:"show_hitbox"`
}

// Policy names.
const (
	PolicyThreshold    = "threshold"
	PolicyInterpolated = "interpolated"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// StartLevelForPreset returns the level index a preset starts on.
func StartLevelForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 0
	case DifficultyNormal:
		return 1
	case DifficultyHard:
		return 2
	default:
		return 0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset validates a preset name from the command line.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}
