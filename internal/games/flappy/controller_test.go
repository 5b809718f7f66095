package flappy

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

func TestControllerStartsReady(t *testing.T) {
	r := newRig(1)
	st := r.ctrl.State()

	if st.Phase != core.PhaseReady || st.Score != 0 {
		t.Fatalf("initial state = %+v", st)
	}
	b := r.ctrl.Bird()
	if b.X != 400.0/3 || b.Y != 300 || b.Velocity != 0 {
		t.Errorf("bird starts at (%v, %v) v=%v, expected (133.3, 300) at rest", b.X, b.Y, b.Velocity)
	}
	if r.sched.Pending() != 0 || r.ctrl.Scheduled() {
		t.Error("no frame should be scheduled before the first tap")
	}

	// Ready does not simulate.
	r.ctrl.Step(1.0 / 60)
	if r.ctrl.Bird().Y != 300 || len(r.ctrl.Pipes().Pipes()) != 0 {
		t.Error("Step in Ready must not move anything")
	}
}

func TestTapStartsAndFlaps(t *testing.T) {
	r := newRig(1)
	r.ctrl.Tap()
	if r.ctrl.State().Phase != core.PhasePlaying {
		t.Fatalf("phase after tap = %v", r.ctrl.State().Phase)
	}
	if r.sched.Pending() != 1 {
		t.Fatalf("pending frames = %d, expected 1", r.sched.Pending())
	}

	r.frames(5)
	if len(r.ctrl.Pipes().Pipes()) == 0 {
		t.Error("a pipe should spawn once playing")
	}

	r.ctrl.Tap()
	if r.ctrl.Bird().Velocity != -7 {
		t.Errorf("velocity after flap = %v, expected -7", r.ctrl.Bird().Velocity)
	}
	if r.sound.count(SoundFlap) != 1 {
		t.Errorf("flap played %d times", r.sound.count(SoundFlap))
	}
	if r.sched.Pending() != 1 {
		t.Errorf("loop should stay registered exactly once, pending %d", r.sched.Pending())
	}
}

func TestPauseFreezesSession(t *testing.T) {
	r := newRig(1)
	r.ctrl.Tap()
	r.frames(5)

	r.ctrl.TogglePause()
	if r.ctrl.State().Phase != core.PhasePaused || !r.ctrl.State().Paused {
		t.Fatalf("state after pause = %+v", r.ctrl.State())
	}
	if r.sched.Pending() != 0 {
		t.Fatal("pause should deregister the loop")
	}

	y, v := r.ctrl.Bird().Y, r.ctrl.Bird().Velocity
	pipeX := r.ctrl.Pipes().Pipes()[0].X
	r.ctrl.Tap()
	r.frames(30)
	r.ctrl.Step(1.0 / 60)
	if r.ctrl.Bird().Y != y || r.ctrl.Pipes().Pipes()[0].X != pipeX {
		t.Error("paused session moved")
	}
	if r.ctrl.Bird().Velocity != v {
		t.Error("tap while paused should be ignored")
	}

	// Half a second passed while paused; the first frame back is nominal.
	r.now = r.now.Add(500 * time.Millisecond)
	r.ctrl.TogglePause()
	v = r.ctrl.Bird().Velocity
	r.frames(1)
	if got := r.ctrl.Bird().Velocity - v; math.Abs(got-0.4) > 1e-9 {
		t.Errorf("velocity change on resume = %v, expected one frame of gravity", got)
	}
}

func TestFrameDeltaClamped(t *testing.T) {
	r := newRig(1)
	r.ctrl.Tap()
	r.frames(1)
	if v := r.ctrl.Bird().Velocity; math.Abs(v-0.4) > 1e-9 {
		t.Fatalf("velocity after first frame = %v", v)
	}

	// A one second stall is simulated as two reference frames.
	r.now = r.now.Add(time.Second)
	r.sched.Fire(r.now)
	if v := r.ctrl.Bird().Velocity; math.Abs(v-1.2) > 1e-9 {
		t.Errorf("velocity after stall = %v, expected 1.2", v)
	}
}

func TestFallingEndsSessionOnce(t *testing.T) {
	r := newRig(1)
	r.ctrl.Tap()
	r.frames(120)

	st := r.ctrl.State()
	if st.Phase != core.PhaseGameOver || !st.GameOver {
		t.Fatalf("state after falling = %+v", st)
	}
	if r.sched.Pending() != 0 || r.ctrl.Scheduled() {
		t.Error("loop should be deregistered once the death effects drain")
	}
	if r.sound.count(SoundHit) != 1 || r.sound.count(SoundDie) != 1 {
		t.Errorf("hit played %d, die played %d; expected once each",
			r.sound.count(SoundHit), r.sound.count(SoundDie))
	}

	// Further ticks do nothing.
	y := r.ctrl.Bird().Y
	r.ctrl.Step(1.0 / 60)
	if r.ctrl.Bird().Y != y {
		t.Error("bird moved after game over")
	}
}

// playUntilDeath starts a run and falls until game over.
func playUntilDeath(t *testing.T, r *testRig) {
	t.Helper()
	r.ctrl.Tap()
	for i := 0; i < 120 && r.ctrl.State().Phase == core.PhasePlaying; i++ {
		r.frames(1)
	}
	if r.ctrl.State().Phase != core.PhaseGameOver {
		t.Fatal("run did not end")
	}
}

func TestDeathEffectsPlayOut(t *testing.T) {
	r := newRig(1)
	playUntilDeath(t, r)

	if n := r.ctrl.Effects().Len(); n < 36 {
		t.Fatalf("effects at game over = %d, expected shake, explosion and smoke", n)
	}
	if r.sched.Pending() != 1 {
		t.Fatalf("pending frames at game over = %d, expected 1", r.sched.Pending())
	}

	y := r.ctrl.Bird().Y
	offset := r.ctrl.background.Offset
	r.frames(1)
	if dx, dy := r.ctrl.Effects().ShakeOffset(); dx == 0 && dy == 0 {
		t.Error("screen should shake right after death")
	}
	if r.ctrl.Bird().Y != y || r.ctrl.background.Offset != offset {
		t.Error("effect frames must not simulate the world")
	}

	r.frames(120)
	if n := r.ctrl.Effects().Len(); n != 0 {
		t.Errorf("effects after two seconds = %d, expected drained", n)
	}
	if dx, dy := r.ctrl.Effects().ShakeOffset(); dx != 0 || dy != 0 {
		t.Errorf("shake offset after drain = (%v, %v)", dx, dy)
	}
	if r.sched.Pending() != 0 || r.ctrl.Scheduled() {
		t.Error("loop should stop once effects drain")
	}
	if r.ctrl.State().Phase != core.PhaseGameOver {
		t.Error("draining effects must not leave game over")
	}
}

func TestDeathWithoutEffectsStopsLoop(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	cfg.Effects.ScreenShake = false
	cfg.Effects.Particles = false
	r := newRigWithConfig(cfg, 1)
	playUntilDeath(t, r)

	if r.ctrl.Effects().Len() != 0 || r.sched.Pending() != 0 {
		t.Errorf("effects %d, pending %d; expected an idle game over",
			r.ctrl.Effects().Len(), r.sched.Pending())
	}
}

func TestRestartDuringDeathEffects(t *testing.T) {
	r := newRig(1)
	playUntilDeath(t, r)
	r.frames(3)

	r.ctrl.Tap()
	if r.ctrl.State().Phase != core.PhaseReady || r.sched.Pending() != 0 {
		t.Fatalf("restart left phase %v with %d pending frames",
			r.ctrl.State().Phase, r.sched.Pending())
	}
	r.ctrl.Tap()
	if r.sched.Pending() != 1 {
		t.Errorf("new run pending frames = %d, expected 1", r.sched.Pending())
	}
}

func TestGroundCollisionTiming(t *testing.T) {
	r := newRig(1)
	r.ctrl.Tap()

	frames := 0
	for r.ctrl.State().Phase == core.PhasePlaying && frames < 120 {
		r.frames(1)
		frames++
	}
	// Free fall from mid-screen reaches the grass in about half a second.
	if frames < 25 || frames > 40 {
		t.Errorf("hit the ground after %d frames", frames)
	}
	if hb := r.ctrl.Bird().Hitbox(); hb.Center.Y+hb.Radius < 480 {
		t.Errorf("game over with the bird clear of the grass at y=%v", hb.Center.Y)
	}
}

func TestCeilingEndsSession(t *testing.T) {
	r := newRig(1)
	r.ctrl.Tap()
	for i := 0; i < 60 && r.ctrl.State().Phase == core.PhasePlaying; i++ {
		r.ctrl.Tap()
		r.frames(1)
	}
	if r.ctrl.State().Phase != core.PhaseGameOver {
		t.Fatal("flapping every frame should hit the ceiling")
	}
	if y := r.ctrl.Bird().Y; y > 100 {
		t.Errorf("game ended at y=%v, expected near the top", y)
	}
}

func TestTapAfterGameOverRestarts(t *testing.T) {
	r := newRig(1)
	r.ctrl.Tap()
	r.frames(120)

	r.ctrl.Tap()
	st := r.ctrl.State()
	if st.Phase != core.PhaseReady || st.Score != 0 {
		t.Fatalf("state after restart tap = %+v", st)
	}
	if len(r.ctrl.Pipes().Pipes()) != 0 || r.ctrl.Effects().Len() != 0 {
		t.Error("restart should clear pipes and effects")
	}
	if r.ctrl.Bird().Y != 300 {
		t.Errorf("bird y after restart = %v", r.ctrl.Bird().Y)
	}

	r.ctrl.Tap()
	if r.ctrl.State().Phase != core.PhasePlaying || r.sched.Pending() != 1 {
		t.Error("second tap should start a new run")
	}
}

func TestScoringAndHighScore(t *testing.T) {
	r := newRig(1)
	r.ctrl.pipes.pipes = append(r.ctrl.pipes.pipes, r.passedPipe())
	r.ctrl.Tap()
	r.frames(1)

	if got := r.ctrl.State().Score; got != 1 {
		t.Fatalf("score = %d, expected 1", got)
	}
	if r.sound.count(SoundScore) != 1 {
		t.Errorf("score sound played %d times", r.sound.count(SoundScore))
	}

	r.frames(5)
	if got := r.ctrl.State().Score; got != 1 {
		t.Errorf("a pipe scored more than once: %d", got)
	}

	r.frames(120)
	if !r.ctrl.State().GameOver {
		t.Fatal("expected the bird to fall")
	}
	if raw, _, _ := r.store.Get(KeyHighScore); raw != "1" {
		t.Errorf("stored high score = %q, expected 1", raw)
	}

	next := NewController(config.DefaultFlappyConfig(), core.Env{Store: r.store}, 2)
	if got := next.State().HighScore; got != 1 {
		t.Errorf("high score after reload = %d, expected 1", got)
	}
}

func TestCorruptHighScoreIgnored(t *testing.T) {
	store := core.NewMemoryKV()
	_ = store.Set(KeyHighScore, "lots")
	c := NewController(config.DefaultFlappyConfig(), core.Env{Store: store}, 1)
	if got := c.State().HighScore; got != 0 {
		t.Errorf("high score = %d, expected 0", got)
	}
}

func TestLevelUpAndAchievementAtTen(t *testing.T) {
	r := newRig(1)
	r.ctrl.pipes.pipes = append(r.ctrl.pipes.pipes, r.passedPipe())
	r.ctrl.score = 9
	r.ctrl.Tap()
	r.frames(1)

	st := r.ctrl.State()
	if st.Score != 10 || st.Level != 1 || st.LevelName != "Normal" {
		t.Fatalf("state at ten = %+v", st)
	}
	if r.sound.count(SoundLevelUp) != 1 {
		t.Errorf("level up played %d times", r.sound.count(SoundLevelUp))
	}
	for _, p := range r.ctrl.Pipes().Pipes() {
		if math.Abs(p.Speed-3.9) > 1e-9 {
			t.Errorf("pipe speed %v, expected 3.9 after level up", p.Speed)
		}
	}
	if !r.ctrl.Achievements().IsUnlocked("highFlyer") {
		t.Fatal("highFlyer should unlock at ten")
	}
	unlocks := r.sound.count(SoundAchievement)

	r.ctrl.pipes.pipes = append(r.ctrl.pipes.pipes, r.passedPipe())
	r.frames(1)
	if r.ctrl.State().Score != 11 {
		t.Fatalf("score = %d, expected 11", r.ctrl.State().Score)
	}
	if r.sound.count(SoundAchievement) != unlocks {
		t.Error("achievements announced again after unlocking")
	}
	if r.sound.count(SoundLevelUp) != 1 {
		t.Error("level should not advance again at 11")
	}
}

func TestAchievementAnnouncedOnce(t *testing.T) {
	store := core.NewMemoryKV()
	_ = store.Set(KeyAchievements, "firstFlight: true\n")
	r := newRigWithStore(store, 1)

	r.ctrl.pipes.pipes = append(r.ctrl.pipes.pipes, r.passedPipe())
	r.ctrl.score = 9
	r.ctrl.Tap()
	r.frames(1)

	if got := r.sound.count(SoundAchievement); got != 1 {
		t.Errorf("achievement sound played %d times, expected 1", got)
	}

	// A fresh run reaching ten again stays quiet.
	r.ctrl.Restart()
	r.ctrl.pipes.pipes = append(r.ctrl.pipes.pipes, r.passedPipe())
	r.ctrl.score = 9
	r.ctrl.Tap()
	r.frames(1)
	if got := r.sound.count(SoundAchievement); got != 1 {
		t.Errorf("achievement sound played %d times across runs", got)
	}
}

func TestTickFailureSavesRecovery(t *testing.T) {
	r := newRig(1)
	r.ctrl.pipes.pipes = append(r.ctrl.pipes.pipes, r.passedPipe())
	r.ctrl.score = 9
	r.ctrl.Tap()
	r.frames(1)

	r.ctrl.beforeStep = func() { panic("boom") }
	r.frames(1)

	st := r.ctrl.State()
	if st.Phase != core.PhaseGameOver || !st.Recoverable {
		t.Fatalf("state after panic = %+v", st)
	}
	if r.sched.Pending() != 0 {
		t.Error("loop should stop after a failed tick")
	}

	raw, ok, _ := r.store.Get(KeyRecovery)
	if !ok {
		t.Fatal("no recovery snapshot stored")
	}
	var snap Snapshot
	if err := yaml.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Score != 10 || snap.Level != 1 || snap.HighScore != 10 {
		t.Errorf("snapshot = %+v", snap)
	}

	// The rendered game over panel offers the restore.
	screen := core.NewScreen(40, 30)
	r.ctrl.Render(core.NewCellSurface(screen, 400, 600))
	if !strings.Contains(screen.String(), "Enter restores") {
		t.Error("game over screen should offer a restore")
	}

	r.ctrl.beforeStep = nil
	if err := r.ctrl.RestoreRecovery(); err != nil {
		t.Fatalf("RestoreRecovery() error: %v", err)
	}
	st = r.ctrl.State()
	if st.Phase != core.PhaseReady || st.Score != 10 || st.Level != 1 || st.Recoverable {
		t.Errorf("state after restore = %+v", st)
	}
	if s := r.ctrl.Settings(); math.Abs(s.PipeSpeed-3.9) > 1e-9 {
		t.Errorf("restored pipe speed = %v", s.PipeSpeed)
	}

	if err := r.ctrl.RestoreRecovery(); !errors.Is(err, ErrNoRecovery) {
		t.Errorf("second restore error = %v, expected ErrNoRecovery", err)
	}
}

func TestRecoveryOfferedOnNextLaunch(t *testing.T) {
	store := core.NewMemoryKV()
	_ = store.Set(KeyRecovery, "score: 4\nhigh_score: 7\nlevel: 0\n")

	c := NewController(config.DefaultFlappyConfig(), core.Env{Store: store}, 1)
	if !c.State().Recoverable {
		t.Fatal("a stored snapshot should be offered")
	}
	if err := c.RestoreRecovery(); err != nil {
		t.Fatal(err)
	}
	if st := c.State(); st.Score != 4 || st.HighScore != 7 {
		t.Errorf("restored state = %+v", st)
	}
}

func TestSoundFailureMutesSession(t *testing.T) {
	r := newRig(1)
	r.sound.fail = true
	r.ctrl.Tap()
	r.ctrl.Tap()
	r.ctrl.Tap()
	r.frames(120)

	if len(r.sound.played) != 1 {
		t.Errorf("played %v, expected a single failed attempt", r.sound.played)
	}
	if !r.ctrl.State().GameOver {
		t.Error("the session should carry on without sound")
	}
}

func TestAudioDisabledByConfig(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	cfg.Audio.Enabled = false
	r := newRigWithConfig(cfg, 1)
	r.ctrl.Tap()
	r.ctrl.Tap()
	r.frames(120)
	if len(r.sound.played) != 0 {
		t.Errorf("played %v with audio disabled", r.sound.played)
	}
}

func TestVisibilityHooks(t *testing.T) {
	r := newRig(1)
	r.ctrl.Tap()
	r.frames(3)

	r.ctrl.OnHidden()
	if r.ctrl.State().Phase != core.PhasePaused || r.sched.Pending() != 0 {
		t.Fatal("hiding should pause and stop the loop")
	}

	r.ctrl.OnVisible()
	if r.ctrl.State().Phase != core.PhasePaused || r.sched.Pending() != 0 {
		t.Error("becoming visible must not resume a pause")
	}

	r.ctrl.Resume()
	r.ctrl.OnVisible()
	if r.sched.Pending() != 1 {
		t.Errorf("pending frames = %d, expected exactly 1", r.sched.Pending())
	}

	// A host that dropped the pending frame gets it back.
	r.sched.Cancel(r.ctrl.handle)
	r.ctrl.scheduled = false
	r.ctrl.OnVisible()
	if r.sched.Pending() != 1 {
		t.Error("OnVisible should re-register a dropped loop")
	}
}

func TestOnUnloadReleasesAudio(t *testing.T) {
	r := newRig(1)
	r.ctrl.Tap()
	r.ctrl.OnUnload()

	if r.sound.disposed != 1 {
		t.Errorf("sound disposed %d times", r.sound.disposed)
	}
	if r.sched.Pending() != 0 {
		t.Error("unload should stop the loop")
	}
}

func TestSessionsAreDeterministic(t *testing.T) {
	run := func() (*testRig, []Pipe) {
		r := newRig(42)
		r.ctrl.Tap()
		for i := 0; i < 300 && r.ctrl.State().Phase == core.PhasePlaying; i++ {
			if i%18 == 0 {
				r.ctrl.Tap()
			}
			r.frames(1)
		}
		return r, append([]Pipe(nil), r.ctrl.Pipes().Pipes()...)
	}

	a, pa := run()
	b, pb := run()
	if a.ctrl.State() != b.ctrl.State() || a.ctrl.Bird().Y != b.ctrl.Bird().Y {
		t.Fatalf("states differ: %+v vs %+v", a.ctrl.State(), b.ctrl.State())
	}
	if len(pa) != len(pb) {
		t.Fatalf("pipe counts differ: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Errorf("pipe %d differs: %+v vs %+v", i, pa[i], pb[i])
		}
	}
}

func TestBrokenStoreFallsBack(t *testing.T) {
	c := NewController(config.DefaultFlappyConfig(), core.Env{Store: brokenKV{}}, 1)
	if c.State().HighScore != 0 || c.State().Recoverable {
		t.Fatalf("state with broken store = %+v", c.State())
	}

	c.beforeStep = func() { panic("boom") }
	c.Tap()
	if err := c.safeStep(1.0 / 60); err != nil {
		c.fail(err)
	}
	if c.State().Recoverable {
		t.Error("recovery cannot be offered when the snapshot failed to save")
	}
}

func TestRenderReadyScreen(t *testing.T) {
	store := core.NewMemoryKV()
	_ = store.Set(KeyHighScore, "12")
	c := NewController(config.DefaultFlappyConfig(), core.Env{Store: store}, 1)

	screen := core.NewScreen(40, 30)
	c.Render(core.NewCellSurface(screen, 400, 600))
	out := screen.String()

	for _, want := range []string{"FLAPPY", "Best: 12"} {
		if !strings.Contains(out, want) {
			t.Errorf("ready screen missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPausedAndGameOver(t *testing.T) {
	r := newRig(1)
	r.ctrl.Tap()
	r.frames(2)
	r.ctrl.Pause()

	screen := core.NewScreen(40, 30)
	r.ctrl.Render(core.NewCellSurface(screen, 400, 600))
	if !strings.Contains(screen.String(), "PAUSED") {
		t.Error("paused panel not drawn")
	}

	r.ctrl.Resume()
	r.frames(120)
	r.ctrl.Render(core.NewCellSurface(screen, 400, 600))
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Error("game over panel not drawn")
	}
}

func TestCursorPolicyBlendsSettings(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	cfg.Difficulty.Policy = config.PolicyInterpolated
	r := newRigWithConfig(cfg, 1)

	r.ctrl.pipes.pipes = append(r.ctrl.pipes.pipes, r.passedPipe())
	r.ctrl.score = 9
	r.ctrl.Tap()
	r.frames(1)
	if r.ctrl.State().Level != 1 {
		t.Fatalf("level = %d, expected one step at ten", r.ctrl.State().Level)
	}

	// Right after the point the settings are still mostly the old level.
	if s := r.ctrl.Settings(); s.PipeSpeed >= 3.9 || s.PipeSpeed <= 3 {
		t.Errorf("speed mid transition = %v", s.PipeSpeed)
	}
	// Keep the bird hovering with no pipes in reach while the blend runs out.
	for i := 0; i < 90; i++ {
		r.ctrl.pipes.pipes = r.ctrl.pipes.pipes[:0]
		r.ctrl.bird.Y, r.ctrl.bird.Velocity = 300, 0
		r.ctrl.Step(1.0 / 60)
	}
	if r.ctrl.State().Phase != core.PhasePlaying {
		t.Fatal("session ended while hovering")
	}
	if s := r.ctrl.Settings(); math.Abs(s.PipeSpeed-3.9) > 1e-9 {
		t.Errorf("speed after transition = %v, expected 3.9", s.PipeSpeed)
	}
}
