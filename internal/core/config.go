package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to the host surface and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Host surface width in cells or pixels
	ScreenH  int   // Host surface height in cells or pixels
	TickRate int   // Nominal frames per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Phase is the session state machine position.
type Phase int

const (
	PhaseReady Phase = iota
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Phase       Phase
	Score       int    // Current score
	HighScore   int    // Best score seen, including this run
	Level       int    // Difficulty level index
	LevelName   string // Difficulty level display name
	GameOver    bool   // Whether the game has ended
	Paused      bool   // Whether the game is paused
	Recoverable bool   // A crash snapshot can be restored
}
