package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFlappy loads the game configuration.
// Search order: customPath -> ~/.flappy/configs/flappy.yaml -> ./configs/flappy.yaml -> embedded default.
// Files only need to set the keys they change; everything else keeps its default.
func LoadFlappy(customPath string) (FlappyConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return FlappyConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseFlappy(data)
		if err != nil {
			return FlappyConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("flappy.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseFlappy(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "flappy.yaml")); err == nil {
		if cfg, err := parseFlappy(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseFlappy(defaultFlappyYAML)
	if err != nil {
		return DefaultFlappyConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseFlappy overlays YAML onto the defaults and validates the result.
func parseFlappy(data []byte) (FlappyConfig, error) {
	cfg := DefaultFlappyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FlappyConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return FlappyConfig{}, err
	}
	return cfg, nil
}

// MarshalFlappy renders a config as YAML.
func MarshalFlappy(cfg FlappyConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigDir is the per-user directory under $HOME.
const userConfigDir = ".flappy"

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, userConfigDir, "configs", filename)
}

// ApplyFlappyPreset modifies the config based on a difficulty preset.
func ApplyFlappyPreset(cfg *FlappyConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	start := StartLevelForPreset(preset)
	if start >= len(cfg.Difficulty.Levels) {
		start = len(cfg.Difficulty.Levels) - 1
	}
	if start < 0 {
		start = 0
	}
	cfg.Difficulty.StartLevel = start
}

// Validate checks that the configuration describes a playable game.
func (c FlappyConfig) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: world size %vx%v must be positive", ErrInvalidConfig, c.World.Width, c.World.Height)
	}
	if c.Bird.MinVelocity >= c.Bird.TerminalVelocity {
		return fmt.Errorf("%w: bird min_velocity %v must be below terminal_velocity %v",
			ErrInvalidConfig, c.Bird.MinVelocity, c.Bird.TerminalVelocity)
	}
	if c.Bird.MinRotation > c.Bird.MaxRotation {
		return fmt.Errorf("%w: bird min_rotation %v exceeds max_rotation %v",
			ErrInvalidConfig, c.Bird.MinRotation, c.Bird.MaxRotation)
	}
	if c.Bird.Width <= 0 || c.Bird.RadiusDivisor <= 0 {
		return fmt.Errorf("%w: bird width and radius_divisor must be positive", ErrInvalidConfig)
	}
	if c.Pipes.Width <= 0 || c.Pipes.MinTopHeight < 0 {
		return fmt.Errorf("%w: pipe width must be positive and min_top_height non-negative", ErrInvalidConfig)
	}
	if err := c.checkGap("pipes", c.Pipes.Gap); err != nil {
		return err
	}
	if c.Background.GroundOffset < 0 || c.Background.GroundOffset+c.Background.GrassHeight >= c.World.Height {
		return fmt.Errorf("%w: ground_offset %v and grass_height %v leave no play area",
			ErrInvalidConfig, c.Background.GroundOffset, c.Background.GrassHeight)
	}

	d := c.Difficulty
	if d.Policy != PolicyThreshold && d.Policy != PolicyInterpolated {
		return fmt.Errorf("%w: unknown difficulty policy %q", ErrInvalidConfig, d.Policy)
	}
	if len(d.Levels) == 0 {
		return fmt.Errorf("%w: difficulty levels must not be empty", ErrInvalidConfig)
	}
	if d.StartLevel < 0 || d.StartLevel >= len(d.Levels) {
		return fmt.Errorf("%w: start_level %d outside 0..%d", ErrInvalidConfig, d.StartLevel, len(d.Levels)-1)
	}
	if d.PipeSpeedFactor <= 0 || d.BackgroundSpeedFactor < 0 {
		return fmt.Errorf("%w: speed factors must be positive", ErrInvalidConfig)
	}
	for i, lvl := range d.Levels {
		if lvl.Speed <= 0 || lvl.Interval <= 0 {
			return fmt.Errorf("%w: level %d (%s) needs positive speed and interval", ErrInvalidConfig, i, lvl.Name)
		}
		if err := c.checkGap(fmt.Sprintf("level %d", i), lvl.Gap); err != nil {
			return err
		}
		if i > 0 && lvl.ScoreThreshold <= d.Levels[i-1].ScoreThreshold {
			return fmt.Errorf("%w: level %d threshold %d must exceed level %d threshold %d",
				ErrInvalidConfig, i, lvl.ScoreThreshold, i-1, d.Levels[i-1].ScoreThreshold)
		}
	}

	if c.Effects.PoolSize <= 0 {
		return fmt.Errorf("%w: effects pool_size must be positive", ErrInvalidConfig)
	}
	if c.Loop.TargetFPS <= 0 || c.Loop.MaxFrameFactor < 1 {
		return fmt.Errorf("%w: loop target_fps must be positive and max_frame_factor at least 1", ErrInvalidConfig)
	}
	return nil
}

// checkGap ensures a gap leaves min_top_height above and below it.
func (c FlappyConfig) checkGap(where string, gap float64) error {
	if gap <= 0 || gap > c.World.Height-2*c.Pipes.MinTopHeight {
		return fmt.Errorf("%w: %s gap %v must be in (0, %v]",
			ErrInvalidConfig, where, gap, c.World.Height-2*c.Pipes.MinTopHeight)
	}
	return nil
}
