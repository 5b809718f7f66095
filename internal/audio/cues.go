package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Cue names understood by Play.
const (
	CueFlap        = "flap"
	CueScore       = "score"
	CueHit         = "hit"
	CueDie         = "die"
	CueLevelUp     = "levelUp"
	CueAchievement = "achievement"
)

// dieDelay separates the die cue from the hit that precedes it.
const dieDelay = 300 * time.Millisecond

// Wave selects an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// tone is a fixed-length oscillator whose pitch glides linearly from
// freq to endFreq.
type tone struct {
	freq    float64
	endFreq float64
	wave    Wave
	rate    beep.SampleRate
	total   int
	pos     int
	phase   float64
	rng     *rand.Rand
}

// NewTone returns a streamer playing one note for d.
func NewTone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return NewGlide(freq, freq, d, wave, rate)
}

// NewGlide returns a streamer sweeping from one pitch to another over d.
func NewGlide(from, to float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &tone{
		freq:    from,
		endFreq: to,
		wave:    wave,
		rate:    rate,
		total:   rate.N(d),
		rng:     rand.New(rand.NewSource(int64(from*1000 + to))),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}

		var v float64
		switch t.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * t.phase)
		case WaveSquare:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2 * (t.phase - 0.5)
		case WaveNoise:
			v = t.rng.Float64()*2 - 1
		}
		samples[i][0] = v
		samples[i][1] = v

		progress := float64(t.pos) / float64(t.total)
		freq := t.freq + (t.endFreq-t.freq)*progress
		t.phase += freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// envelope applies a linear attack and release to a stream of known length.
type envelope struct {
	s       beep.Streamer
	pos     int
	total   int
	attack  int
	release int
}

// NewEnvelope shapes s, which must last d, with the given attack and release.
func NewEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		s:       s,
		total:   rate.N(d),
		attack:  rate.N(attack),
		release: rate.N(release),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.attack > 0 && e.pos < e.attack {
			gain = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; e.release > 0 && left < e.release {
			gain = math.Max(float64(left)/float64(e.release), 0)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// withVolume scales a stream linearly. Zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// note is a shaped tone with short default edges.
func note(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewTone(freq, d, wave, rate), d, 5*time.Millisecond, d/2, rate)
}

// cueBuilders synthesise each cue at unity gain.
var cueBuilders = map[string]func(rate beep.SampleRate) beep.Streamer{
	CueFlap: func(rate beep.SampleRate) beep.Streamer {
		d := 90 * time.Millisecond
		return NewEnvelope(NewGlide(300, 620, d, WaveSquare, rate), d, 2*time.Millisecond, 40*time.Millisecond, rate)
	},
	CueScore: func(rate beep.SampleRate) beep.Streamer {
		return beep.Seq(
			note(987.77, 70*time.Millisecond, WaveSquare, rate),
			note(1318.51, 160*time.Millisecond, WaveSquare, rate),
		)
	},
	CueHit: func(rate beep.SampleRate) beep.Streamer {
		d := 150 * time.Millisecond
		return beep.Mix(
			withVolume(NewEnvelope(NewTone(0, d, WaveNoise, rate), d, time.Millisecond, 120*time.Millisecond, rate), 0.6),
			withVolume(NewEnvelope(NewTone(90, d, WaveSine, rate), d, time.Millisecond, 100*time.Millisecond, rate), 0.8),
		)
	},
	CueDie: func(rate beep.SampleRate) beep.Streamer {
		d := 500 * time.Millisecond
		return beep.Seq(
			beep.Silence(rate.N(dieDelay)),
			NewEnvelope(NewGlide(520, 110, d, WaveSaw, rate), d, 10*time.Millisecond, 200*time.Millisecond, rate),
		)
	},
	CueLevelUp: func(rate beep.SampleRate) beep.Streamer {
		step := 90 * time.Millisecond
		return beep.Seq(
			note(523.25, step, WaveSquare, rate),
			note(659.25, step, WaveSquare, rate),
			note(783.99, step, WaveSquare, rate),
			note(1046.5, 2*step, WaveSquare, rate),
		)
	},
	CueAchievement: func(rate beep.SampleRate) beep.Streamer {
		d := 600 * time.Millisecond
		return beep.Mix(
			withVolume(NewEnvelope(NewTone(880, d, WaveSine, rate), d, 2*time.Millisecond, 550*time.Millisecond, rate), 0.7),
			withVolume(NewEnvelope(NewTone(1760, d, WaveSine, rate), d, 2*time.Millisecond, 300*time.Millisecond, rate), 0.3),
		)
	},
}

// Cues lists every cue name in a stable order.
func Cues() []string {
	return []string{CueFlap, CueScore, CueHit, CueDie, CueLevelUp, CueAchievement}
}
