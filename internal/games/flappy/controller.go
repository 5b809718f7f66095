package flappy

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Store keys.
const (
	KeyHighScore = "highScore"
	KeyRecovery  = "recovery"
)

// Sound cue names.
const (
	SoundFlap        = "flap"
	SoundScore       = "score"
	SoundHit         = "hit"
	SoundDie         = "die"
	SoundLevelUp     = "levelUp"
	SoundAchievement = "achievement"
)

const (
	shakeIntensity  = 5.0
	shakeSeconds    = 0.2
	flashSeconds    = 0.5
	bannerSeconds   = 2.0
	popupRiseOffset = 30.0
)

// ErrNoRecovery is returned by RestoreRecovery when no snapshot exists.
var ErrNoRecovery = errors.New("flappy: no recovery snapshot")

// Snapshot is the state saved when a tick fails.
type Snapshot struct {
	Score     int `yaml:"score"`
	HighScore int `yaml:"high_score"`
	Level     int `yaml:"level"`
}

// Controller owns one game session: the Ready/Playing/Paused/GameOver
// machine, the per-tick ordering and the frame loop registration.
type Controller struct {
	cfg    config.FlappyConfig
	env    core.Env
	policy config.DifficultyPolicy

	bird         *Bird
	pipes        *PipeManager
	background   *Background
	effects      *EffectPool
	achievements *AchievementTracker
	settings     config.LevelSettings

	phase       core.Phase
	score       int
	highScore   int
	recoverable bool

	seed int64
	runs int64

	handle    core.TickHandle
	scheduled bool
	lastFrame time.Time
	hasLast   bool
	maxDT     float64

	soundOK   bool
	hapticsOK bool

	fpsFrames int
	fpsSince  time.Time
	fps       float64

	// beforeStep runs at the top of every simulated tick. Tests use it to
	// inject failures.
	beforeStep func()
}

// NewController builds a session in the Ready phase. cfg is copied; the
// controller is the only place difficulty overrides are applied.
func NewController(cfg config.FlappyConfig, env core.Env, seed int64) *Controller {
	env = env.WithDefaults()
	w, h := cfg.World.Width, cfg.World.Height

	c := &Controller{
		cfg:          cfg,
		env:          env,
		policy:       config.NewDifficultyPolicy(cfg.Difficulty),
		pipes:        NewPipeManager(seed, w, h, cfg.Pipes),
		background:   NewBackground(w, h, cfg.Background),
		effects:      NewEffectPool(cfg.Effects.PoolSize, seed, w, h),
		achievements: NewAchievementTracker(env.Store, env.Logger),
		seed:         seed,
		maxDT:        cfg.Loop.MaxFrameFactor / float64(cfg.Loop.TargetFPS),
		soundOK:      cfg.Audio.Enabled,
		hapticsOK:    true,
	}

	if err := c.achievements.Load(); err != nil {
		env.Logger.Warn("achievements unavailable, starting fresh", "err", err)
	}
	c.highScore = c.loadHighScore()
	c.recoverable = c.hasSnapshot()
	c.reset()
	return c
}

// reset puts a fresh session into Ready.
func (c *Controller) reset() {
	w, h := c.cfg.World.Width, c.cfg.World.Height
	c.cancel()
	c.bird = NewBird(w/3, h/2, c.cfg.Bird)
	c.pipes.Reset(c.seed + c.runs)
	c.background.Offset = 0
	c.effects.Clear()
	c.policy.Reset()
	c.applySettings(c.policy.LevelConfig())
	c.score = 0
	c.phase = core.PhaseReady
	c.hasLast = false
}

// applySettings pushes difficulty settings into the pipes and background.
func (c *Controller) applySettings(s config.LevelSettings) {
	c.settings = s
	c.pipes.ApplySettings(s)
	c.background.Speed = s.BackgroundSpeed
}

// Tap is the single input signal: start when Ready, flap when Playing,
// restart after GameOver. Taps while Paused are ignored.
func (c *Controller) Tap() {
	switch c.phase {
	case core.PhaseReady:
		c.start()
	case core.PhasePlaying:
		if c.bird.Flap() {
			c.play(SoundFlap)
		}
	case core.PhaseGameOver:
		c.Restart()
	}
}

func (c *Controller) start() {
	c.phase = core.PhasePlaying
	c.hasLast = false
	c.env.Logger.Debug("session started", "level", c.settings.Name)
	c.schedule()
}

// TogglePause flips between Playing and Paused.
func (c *Controller) TogglePause() {
	switch c.phase {
	case core.PhasePlaying:
		c.Pause()
	case core.PhasePaused:
		c.Resume()
	}
}

// Pause freezes the simulation and deregisters the frame loop.
func (c *Controller) Pause() {
	if c.phase != core.PhasePlaying {
		return
	}
	c.phase = core.PhasePaused
	c.cancel()
	c.env.Logger.Debug("session paused", "score", c.score)
}

// Resume continues a paused session. The first frame after resuming uses
// the nominal frame time so the pause itself is not simulated.
func (c *Controller) Resume() {
	if c.phase != core.PhasePaused {
		return
	}
	c.phase = core.PhasePlaying
	c.hasLast = false
	c.schedule()
	c.env.Logger.Debug("session resumed", "score", c.score)
}

// Restart abandons the current run and returns to Ready.
func (c *Controller) Restart() {
	c.runs++
	c.recoverable = false
	c.reset()
}

// OnVisible re-registers the loop if the host dropped it while playing.
// It never resumes a pause.
func (c *Controller) OnVisible() {
	c.fpsFrames = 0
	c.fpsSince = time.Time{}
	if c.phase == core.PhasePlaying && !c.scheduled {
		c.hasLast = false
		c.schedule()
	}
}

// OnHidden forces a pause.
func (c *Controller) OnHidden() {
	c.Pause()
}

// OnUnload stops the loop and releases audio.
func (c *Controller) OnUnload() {
	c.cancel()
	c.env.Sound.Dispose()
}

func (c *Controller) schedule() {
	if c.scheduled {
		return
	}
	c.handle = c.env.Scheduler.RequestTick(c.frame)
	c.scheduled = true
}

func (c *Controller) cancel() {
	if !c.scheduled {
		return
	}
	c.env.Scheduler.Cancel(c.handle)
	c.scheduled = false
}

// frame is the scheduler callback: one tick per display refresh. After
// game over it keeps running until the death effects have drained.
func (c *Controller) frame(now time.Time) {
	c.scheduled = false
	dt := c.frameDelta(now)
	c.countFrame(now)

	switch c.phase {
	case core.PhasePlaying:
		if err := c.safeStep(dt); err != nil {
			c.fail(err)
		}
	case core.PhaseGameOver:
		// Only cosmetic effects move after death.
		c.effects.Update(dt)
	}

	if c.phase == core.PhasePlaying || c.phase == core.PhaseGameOver && c.effects.Len() > 0 {
		c.schedule()
	}
}

// frameDelta converts wall-clock time into a clamped step.
func (c *Controller) frameDelta(now time.Time) float64 {
	dt := 1 / float64(c.cfg.Loop.TargetFPS)
	if c.hasLast {
		dt = now.Sub(c.lastFrame).Seconds()
	}
	c.lastFrame = now
	c.hasLast = true
	return core.ClampF(dt, 0, c.maxDT)
}

func (c *Controller) countFrame(now time.Time) {
	if c.fpsSince.IsZero() {
		c.fpsSince = now
		return
	}
	c.fpsFrames++
	if elapsed := now.Sub(c.fpsSince); elapsed >= time.Second {
		c.fps = float64(c.fpsFrames) / elapsed.Seconds()
		c.fpsFrames = 0
		c.fpsSince = now
	}
}

// safeStep runs Step and turns a panic into an error.
func (c *Controller) safeStep(dt float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("flappy: tick panicked: %v", r)
		}
	}()
	c.Step(dt)
	return nil
}

// fail ends the session after a broken tick and saves a recovery snapshot.
func (c *Controller) fail(err error) {
	c.env.Logger.Error("tick failed", "err", err, "score", c.score, "level", c.policy.Level())

	c.phase = core.PhaseGameOver
	c.cancel()
	c.effects.Clear()
	if c.score > c.highScore {
		c.highScore = c.score
		c.saveHighScore()
	}

	snap := Snapshot{Score: c.score, HighScore: c.highScore, Level: c.policy.Level()}
	data, encErr := yaml.Marshal(snap)
	if encErr == nil {
		encErr = c.env.Store.Set(KeyRecovery, string(data))
	}
	if encErr != nil {
		c.env.Logger.Warn("save recovery snapshot", "err", encErr)
		c.recoverable = false
		return
	}
	c.recoverable = true
}

// Step advances the session by dt seconds. It does nothing unless Playing.
// Order: bird, pipes, collision, score and difficulty, effects.
func (c *Controller) Step(dt float64) {
	if c.phase != core.PhasePlaying {
		return
	}
	if c.beforeStep != nil {
		c.beforeStep()
	}
	dt = core.ClampF(dt, 0, c.maxDT)

	c.bird.Update(dt)
	c.bird.ClampY(c.cfg.World.Height)
	c.background.Update(dt)

	c.pipes.Update(dt)

	if c.collided() {
		c.gameOver()
		return
	}

	for n := c.pipes.ScorePassed(c.bird.X); n > 0; n-- {
		c.addPoint()
	}
	c.policy.UpdateTransition(dt)
	if s := c.policy.LevelConfig(); s != c.settings {
		c.applySettings(s)
	}

	c.effects.Update(dt)
}

func (c *Controller) collided() bool {
	hb := c.bird.Hitbox()
	return core.CircleHitsCeiling(hb, 0) ||
		c.background.CheckGroundCollision(hb) ||
		c.pipes.CheckCollision(c.bird)
}

func (c *Controller) addPoint() {
	c.score++

	if c.cfg.Effects.ScorePopup {
		c.effects.AddScorePopup(c.bird.X, c.bird.Y-popupRiseOffset, "+1")
	}
	if c.cfg.Effects.Particles {
		c.effects.AddParticles(c.bird.X, c.bird.Y, 5, 2, core.ColorBrightYellow)
	}
	c.play(SoundScore)

	if c.policy.Observe(c.score) {
		c.levelUp()
	}

	for _, a := range c.achievements.Check(c.score) {
		c.effects.AddBanner(a.Title, a.Description, bannerSeconds)
		c.play(SoundAchievement)
		c.vibrate()
		c.env.Logger.Info("achievement unlocked", "id", a.ID, "score", c.score)
	}
}

func (c *Controller) levelUp() {
	s := c.policy.LevelConfig()
	c.applySettings(s)
	c.effects.AddFlash(flashSeconds)
	c.effects.AddLevelUp(s.Name, c.cfg.Difficulty.LevelUpBannerSeconds)
	c.play(SoundLevelUp)
	c.env.Logger.Debug("level up", "level", c.policy.Level(), "name", s.Name, "score", c.score)
}

func (c *Controller) gameOver() {
	c.phase = core.PhaseGameOver
	c.cancel()

	if c.cfg.Effects.ScreenShake {
		c.effects.AddShake(shakeIntensity, shakeSeconds)
	}
	if c.cfg.Effects.Particles {
		c.effects.AddExplosion(c.bird.X, c.bird.Y)
	}

	if c.score > c.highScore {
		c.highScore = c.score
		c.saveHighScore()
	}

	c.play(SoundHit)
	c.play(SoundDie)
	c.vibrate()
	c.env.Logger.Debug("game over", "score", c.score, "high_score", c.highScore)

	if c.effects.Len() > 0 {
		c.schedule()
	}
}

// play triggers a sound. The first failure mutes the session.
func (c *Controller) play(name string) {
	if !c.soundOK {
		return
	}
	if err := c.env.Sound.Play(name); err != nil {
		c.soundOK = false
		c.env.Logger.Warn("sound disabled", "cue", name, "err", err)
	}
}

// vibrate triggers haptics. The first failure disables them.
func (c *Controller) vibrate() {
	if !c.hapticsOK {
		return
	}
	if err := c.env.Haptics.Vibrate(); err != nil {
		c.hapticsOK = false
		c.env.Logger.Warn("haptics disabled", "err", err)
	}
}

func (c *Controller) loadHighScore() int {
	raw, ok, err := c.env.Store.Get(KeyHighScore)
	if err != nil {
		c.env.Logger.Warn("load high score", "err", err)
		return 0
	}
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		c.env.Logger.Warn("ignoring corrupt high score", "value", raw)
		return 0
	}
	return v
}

func (c *Controller) saveHighScore() {
	if err := c.env.Store.Set(KeyHighScore, strconv.Itoa(c.highScore)); err != nil {
		c.env.Logger.Warn("save high score", "err", err)
	}
}

func (c *Controller) loadSnapshot() (Snapshot, error) {
	raw, ok, err := c.env.Store.Get(KeyRecovery)
	if err != nil {
		return Snapshot{}, fmt.Errorf("flappy: load recovery: %w", err)
	}
	if !ok || raw == "" {
		return Snapshot{}, ErrNoRecovery
	}
	var snap Snapshot
	if err := yaml.Unmarshal([]byte(raw), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("flappy: decode recovery: %w", err)
	}
	return snap, nil
}

func (c *Controller) hasSnapshot() bool {
	_, err := c.loadSnapshot()
	return err == nil
}

// RestoreRecovery starts a new Ready session carrying the score and level of
// the last failed run. The snapshot is consumed.
func (c *Controller) RestoreRecovery() error {
	snap, err := c.loadSnapshot()
	if err != nil {
		return err
	}

	c.runs++
	c.reset()
	c.score = snap.Score
	if snap.HighScore > c.highScore {
		c.highScore = snap.HighScore
	}
	for c.policy.Level() < snap.Level {
		if !c.policy.Observe(c.score) {
			break
		}
	}
	c.policy.UpdateTransition(c.cfg.Difficulty.TransitionSeconds)
	c.applySettings(c.policy.LevelConfig())

	if err := c.env.Store.Set(KeyRecovery, ""); err != nil {
		c.env.Logger.Warn("clear recovery snapshot", "err", err)
	}
	c.recoverable = false
	c.env.Logger.Info("session restored", "score", snap.Score, "level", c.policy.Level())
	return nil
}

// State reports the session state to hosts.
func (c *Controller) State() core.GameState {
	return core.GameState{
		Phase:       c.phase,
		Score:       c.score,
		HighScore:   core.Max(c.highScore, c.score),
		Level:       c.policy.Level(),
		LevelName:   c.settings.Name,
		GameOver:    c.phase == core.PhaseGameOver,
		Paused:      c.phase == core.PhasePaused,
		Recoverable: c.recoverable,
	}
}

// Bird exposes the actor for hosts and tests.
func (c *Controller) Bird() *Bird { return c.bird }

// Pipes exposes the obstacle stream.
func (c *Controller) Pipes() *PipeManager { return c.pipes }

// Effects exposes the effect pool.
func (c *Controller) Effects() *EffectPool { return c.effects }

// Achievements exposes the unlock tracker.
func (c *Controller) Achievements() *AchievementTracker { return c.achievements }

// Settings returns the difficulty settings currently in force.
func (c *Controller) Settings() config.LevelSettings { return c.settings }

// Scheduled reports whether a frame is pending.
func (c *Controller) Scheduled() bool { return c.scheduled }

// FPS returns the measured frame rate.
func (c *Controller) FPS() float64 { return c.fps }

// Config returns the controller's configuration copy.
func (c *Controller) Config() config.FlappyConfig { return c.cfg }
