package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultLevels is the stock difficulty table.
func DefaultLevels() []LevelConfig {
	return []LevelConfig{
		{Name: "Easy", Speed: 1.0, Gap: 200, Interval: 300, ScoreThreshold: 0},
		{Name: "Normal", Speed: 1.3, Gap: 180, Interval: 280, ScoreThreshold: 10},
		{Name: "Hard", Speed: 1.6, Gap: 160, Interval: 260, ScoreThreshold: 25},
		{Name: "Expert", Speed: 2.0, Gap: 150, Interval: 240, ScoreThreshold: 50},
	}
}

// DefaultFlappyConfig returns the default configuration.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		World: WorldConfig{
			Width:  400,
			Height: 600,
		},
		Bird: BirdConfig{
			Gravity:          0.4,
			FlapPower:        -7,
			MinVelocity:      -8,
			TerminalVelocity: 12,
			VelocityScale:    50,
			MaxRotation:      45,
			MinRotation:      -25,
			RotationSpeed:    3,
			WingSpeed:        0.15,
			Width:            40,
			Height:           30,
			RadiusDivisor:    2.5,
		},
		Pipes: PipeConfig{
			Width:        80,
			Gap:          200,
			MinTopHeight: 100,
		},
		Background: BackgroundConfig{
			GroundOffset: 100,
			GrassHeight:  20,
		},
		Difficulty: DifficultyConfig{
			Enabled:               true,
			Policy:                PolicyThreshold,
			StartLevel:            0,
			PipeSpeedFactor:       3,
			BackgroundSpeedFactor: 2,
			LevelUpBannerSeconds:  3,
			TransitionSeconds:     1,
			Levels:                DefaultLevels(),
		},
		Effects: EffectsConfig{
			ScorePopup:  true,
			ScreenShake: true,
			Particles:   true,
			PoolSize:    256,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
		Loop: LoopConfig{
			TargetFPS:      60,
			MaxFrameFactor: 2,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultFlappyYAML
}
