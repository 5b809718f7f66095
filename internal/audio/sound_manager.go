// Package audio synthesises the game's sound cues and plays them through
// the system speaker.
package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

var (
	// ErrUnavailable is returned by Play before Initialize succeeds or
	// after Dispose.
	ErrUnavailable = errors.New("audio: unavailable")
	// ErrUnknownCue is returned for names without a synthesiser.
	ErrUnknownCue = errors.New("audio: unknown cue")
)

var speakerOnce struct {
	sync.Once
	err error
}

// initSpeaker opens the output device once per process.
func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerOnce.err = speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond))
	})
	return speakerOnce.err
}

// SoundManager plays named cues. Cues are rendered once into buffers and
// mixed, so overlapping cues play together.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	format      beep.Format
	cache       map[string]*beep.Buffer
	volume      float64
	muted       bool
	initialized bool
	disposed    bool
}

// NewSoundManager creates a manager at the given linear volume in [0, 1].
func NewSoundManager(volume float64) *SoundManager {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	return &SoundManager{
		mixer:  &beep.Mixer{},
		format: beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2},
		cache:  make(map[string]*beep.Buffer),
		volume: volume,
	}
}

// Initialize opens the speaker and starts the mixer. Calling it again is a
// no-op. Without an audio device it returns an error and Play keeps
// failing with ErrUnavailable.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.disposed {
		return ErrUnavailable
	}
	if err := initSpeaker(); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// buffer returns the rendered cue, synthesising it on first use.
func (sm *SoundManager) buffer(name string) (*beep.Buffer, error) {
	if buf, ok := sm.cache[name]; ok {
		return buf, nil
	}
	build, ok := cueBuilders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCue, name)
	}
	buf := beep.NewBuffer(sm.format)
	buf.Append(withVolume(build(sm.format.SampleRate), sm.volume))
	sm.cache[name] = buf
	return buf, nil
}

// Play starts a cue. A muted manager accepts and drops cues.
func (sm *SoundManager) Play(name string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return ErrUnavailable
	}
	buf, err := sm.buffer(name)
	if err != nil {
		return err
	}
	if sm.muted {
		return nil
	}

	speaker.Lock()
	sm.mixer.Add(buf.Streamer(0, buf.Len()))
	speaker.Unlock()
	return nil
}

// ToggleMute flips the mute flag and returns the new value. Muting also
// cuts cues that are already playing.
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.muted = !sm.muted
	if sm.muted && sm.initialized {
		speaker.Lock()
		sm.mixer.Clear()
		speaker.Unlock()
	}
	return sm.muted
}

// Muted reports the mute flag.
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// Dispose stops every cue. The manager cannot be used afterwards.
func (sm *SoundManager) Dispose() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		speaker.Lock()
		sm.mixer.Clear()
		speaker.Unlock()
	}
	sm.cache = make(map[string]*beep.Buffer)
	sm.initialized = false
	sm.disposed = true
}
