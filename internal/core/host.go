package core

import "sync"

// KVStore is the persistent key-value store used for high scores,
// achievements and recovery snapshots. Both calls may fail; callers log and
// fall back to defaults.
type KVStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// SoundPlayer triggers named sound cues. Play is fire-and-forget.
type SoundPlayer interface {
	Play(name string) error
	Dispose()
}

// Haptics triggers device vibration where the host supports it.
type Haptics interface {
	Vibrate() error
}

// Logger is the structured logger used by game code.
// *github.com/charmbracelet/log.Logger satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// Env bundles the host services a game session consumes.
// Nil fields are replaced with no-op implementations by WithDefaults.
type Env struct {
	Scheduler Scheduler
	Store     KVStore
	Sound     SoundPlayer
	Haptics   Haptics
	Logger    Logger
}

// WithDefaults returns a copy of e with every missing service filled in.
func (e Env) WithDefaults() Env {
	if e.Scheduler == nil {
		e.Scheduler = NewManualScheduler()
	}
	if e.Store == nil {
		e.Store = NewMemoryKV()
	}
	if e.Sound == nil {
		e.Sound = NopSound{}
	}
	if e.Haptics == nil {
		e.Haptics = NopHaptics{}
	}
	if e.Logger == nil {
		e.Logger = NopLogger{}
	}
	return e
}

// MemoryKV is an in-memory KVStore, used when no database is available.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKV creates an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get returns the stored value for key.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// NopSound discards every cue.
type NopSound struct{}

func (NopSound) Play(string) error { return nil }
func (NopSound) Dispose()          {}

// NopHaptics ignores vibration requests.
type NopHaptics struct{}

func (NopHaptics) Vibrate() error { return nil }

// NopLogger discards all log output.
type NopLogger struct{}

func (NopLogger) Debug(interface{}, ...interface{}) {}
func (NopLogger) Info(interface{}, ...interface{})  {}
func (NopLogger) Warn(interface{}, ...interface{})  {}
func (NopLogger) Error(interface{}, ...interface{}) {}
