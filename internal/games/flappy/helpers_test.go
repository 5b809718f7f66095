package flappy

import (
	"errors"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

var errBroken = errors.New("broken")

// recordingSound counts cues.
type recordingSound struct {
	played   []string
	disposed int
	fail     bool
	muted    bool
}

func (s *recordingSound) Play(name string) error {
	s.played = append(s.played, name)
	if s.fail {
		return errBroken
	}
	return nil
}

func (s *recordingSound) Dispose() { s.disposed++ }

func (s *recordingSound) ToggleMute() bool {
	s.muted = !s.muted
	return s.muted
}

func (s *recordingSound) count(name string) int {
	n := 0
	for _, p := range s.played {
		if p == name {
			n++
		}
	}
	return n
}

// brokenKV fails every call.
type brokenKV struct{}

func (brokenKV) Get(string) (string, bool, error) { return "", false, errBroken }
func (brokenKV) Set(string, string) error         { return errBroken }

// recordingSurface records draw calls without rasterizing.
type recordingSurface struct {
	w, h    float64
	circles int
	rects   int
	texts   []string
	alpha   float64
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{w: 400, h: 600, alpha: 1}
}

func (s *recordingSurface) Size() (float64, float64)                    { return s.w, s.h }
func (s *recordingSurface) Clear(core.Color)                            {}
func (s *recordingSurface) FillRect(_, _, _, _ float64, _ core.Color)   { s.rects++ }
func (s *recordingSurface) StrokeRect(_, _, _, _ float64, _ core.Color) { s.rects++ }
func (s *recordingSurface) FillCircle(_, _, _ float64, _ core.Color)    { s.circles++ }
func (s *recordingSurface) Line(_, _, _, _ float64, _ core.Color)       {}
func (s *recordingSurface) Text(_, _ float64, t string, _ core.Color)   { s.texts = append(s.texts, t) }
func (s *recordingSurface) Save()                                       {}
func (s *recordingSurface) Restore()                                    {}
func (s *recordingSurface) Translate(_, _ float64)                      {}
func (s *recordingSurface) SetAlpha(a float64)                          { s.alpha = a }

const frameStep = time.Second / 60

// testRig bundles a controller with its fakes.
type testRig struct {
	ctrl  *Controller
	sched *core.ManualScheduler
	store *core.MemoryKV
	sound *recordingSound
	now   time.Time
}

func newRig(seed int64) *testRig {
	return newRigWithConfig(config.DefaultFlappyConfig(), seed)
}

func newRigWithConfig(cfg config.FlappyConfig, seed int64) *testRig {
	r := &testRig{
		sched: core.NewManualScheduler(),
		store: core.NewMemoryKV(),
		sound: &recordingSound{},
		now:   time.Unix(1_000, 0),
	}
	r.ctrl = NewController(cfg, core.Env{
		Scheduler: r.sched,
		Store:     r.store,
		Sound:     r.sound,
	}, seed)
	return r
}

// frames fires n scheduler frames one reference frame apart.
func (r *testRig) frames(n int) {
	for i := 0; i < n; i++ {
		r.now = r.now.Add(frameStep)
		r.sched.Fire(r.now)
	}
}

// passedPipe returns a pipe the bird has already cleared, out of reach of
// its hitbox.
func (r *testRig) passedPipe() Pipe {
	b := r.ctrl.Bird()
	return Pipe{X: b.X - 120, Width: 80, Gap: 200, TopHeight: b.Y - 100, Speed: 3}
}

// newRigWithStore builds a rig over an existing store.
func newRigWithStore(store *core.MemoryKV, seed int64) *testRig {
	r := newRig(seed)
	r.store = store
	r.ctrl = NewController(config.DefaultFlappyConfig(), core.Env{
		Scheduler: r.sched,
		Store:     store,
		Sound:     r.sound,
	}, seed)
	return r
}
