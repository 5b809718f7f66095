package flappy

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// EffectKind tags the variant stored in an Effect slot.
type EffectKind uint8

const (
	EffectParticle EffectKind = iota
	EffectPopup
	EffectFlash
	EffectShake
	EffectBanner
	EffectSmoke
)

func (k EffectKind) String() string {
	switch k {
	case EffectParticle:
		return "particle"
	case EffectPopup:
		return "popup"
	case EffectFlash:
		return "flash"
	case EffectShake:
		return "shake"
	case EffectBanner:
		return "banner"
	case EffectSmoke:
		return "smoke"
	default:
		return "unknown"
	}
}

type bannerPhase uint8

const (
	bannerIn bannerPhase = iota
	bannerShow
	bannerOut
)

// Effect is one cosmetic effect. Which fields matter depends on Kind.
// Effects never touch gameplay state.
type Effect struct {
	Kind  EffectKind
	X, Y  float64
	VX    float64
	VY    float64
	Alpha float64
	Scale float64
	Size  float64 // particle or smoke radius
	Color core.Color
	Text  string
	Sub   string // banner second line

	Elapsed   float64 // seconds since the current phase began
	Duration  float64 // flash/shake lifetime, banner hold time
	Intensity float64 // shake amplitude
	OffsetX   float64 // current shake offset
	OffsetY   float64

	phase bannerPhase
}

// Per reference frame decay rates.
const (
	fadeRate        = 0.02
	popupRise       = 2.0
	popupGrowth     = 0.03
	bannerStep      = 0.05
	smokeExpansion  = 1.05
	smokeFade       = 0.95
	smokeMinAlpha   = 0.1
	flashPeakAlpha  = 0.6
	particleRadius  = 3.0
	bannerHalfWidth = 150.0
	bannerHalfH     = 40.0
)

// effectBehavior is the update/draw pair for one kind. update returns false
// when the effect has finished.
type effectBehavior struct {
	update func(e *Effect, dt float64, rng *rand.Rand) bool
	draw   func(e *Effect, s core.Surface)
}

var effectBehaviors = [...]effectBehavior{
	EffectParticle: {updateParticle, drawParticle},
	EffectPopup:    {updatePopup, drawPopup},
	EffectFlash:    {updateFlash, drawFlash},
	EffectShake:    {updateShake, func(*Effect, core.Surface) {}},
	EffectBanner:   {updateBanner, drawBanner},
	EffectSmoke:    {updateSmoke, drawSmoke},
}

// frames converts dt seconds into reference frames.
func frames(dt float64) float64 {
	return dt * referenceFPS
}

func updateParticle(e *Effect, dt float64, _ *rand.Rand) bool {
	f := frames(dt)
	e.X += e.VX * f
	e.Y += e.VY * f
	e.Alpha -= fadeRate * f
	return e.Alpha > 0
}

func drawParticle(e *Effect, s core.Surface) {
	s.SetAlpha(e.Alpha)
	s.FillCircle(e.X, e.Y, e.Size, e.Color)
}

func updatePopup(e *Effect, dt float64, _ *rand.Rand) bool {
	f := frames(dt)
	e.Y -= popupRise * f
	e.Alpha -= fadeRate * f
	e.Scale += popupGrowth * f
	return e.Alpha > 0
}

func drawPopup(e *Effect, s core.Surface) {
	s.SetAlpha(e.Alpha)
	core.TextCentered(s, e.X, e.Y, e.Text, e.Color)
}

func updateFlash(e *Effect, dt float64, _ *rand.Rand) bool {
	e.Elapsed += dt
	e.Alpha = flashPeakAlpha * (1 - e.Elapsed/e.Duration)
	return e.Elapsed < e.Duration
}

func drawFlash(e *Effect, s core.Surface) {
	w, h := s.Size()
	s.SetAlpha(e.Alpha)
	s.FillRect(0, 0, w, h, core.ColorBrightWhite)
}

func updateShake(e *Effect, dt float64, rng *rand.Rand) bool {
	e.Elapsed += dt
	if e.Elapsed >= e.Duration {
		e.OffsetX, e.OffsetY = 0, 0
		return false
	}
	amp := e.Intensity * (1 - e.Elapsed/e.Duration)
	e.OffsetX = (rng.Float64()*2 - 1) * amp
	e.OffsetY = (rng.Float64()*2 - 1) * amp
	return true
}

// updateBanner runs in -> show -> out. Fading is per frame; the hold is
// measured in accumulated seconds.
func updateBanner(e *Effect, dt float64, _ *rand.Rand) bool {
	f := frames(dt)
	switch e.phase {
	case bannerIn:
		e.Alpha += bannerStep * f
		e.Scale += bannerStep * f
		if e.Alpha >= 1 {
			e.Alpha = 1
			e.phase = bannerShow
			e.Elapsed = 0
		}
	case bannerShow:
		e.Elapsed += dt
		if e.Elapsed > e.Duration {
			e.phase = bannerOut
		}
	case bannerOut:
		e.Alpha -= bannerStep * f
	}
	return e.Alpha > 0
}

func drawBanner(e *Effect, s core.Surface) {
	w, _ := s.Size()
	cx := w / 2
	scale := math.Min(e.Scale, 1.2)
	hw, hh := bannerHalfWidth*scale, bannerHalfH*scale

	s.SetAlpha(e.Alpha)
	s.FillRect(cx-hw, e.Y-hh, hw*2, hh*2, core.ColorBlack)
	s.StrokeRect(cx-hw, e.Y-hh, hw*2, hh*2, core.ColorBrightYellow)
	core.TextCentered(s, cx, e.Y-hh/2, e.Text, core.ColorBrightYellow)
	if e.Sub != "" {
		core.TextCentered(s, cx, e.Y+hh/4, e.Sub, core.ColorBrightWhite)
	}
}

func updateSmoke(e *Effect, dt float64, _ *rand.Rand) bool {
	f := frames(dt)
	e.Size *= math.Pow(smokeExpansion, f)
	e.Alpha *= math.Pow(smokeFade, f)
	return e.Alpha > smokeMinAlpha
}

func drawSmoke(e *Effect, s core.Surface) {
	s.SetAlpha(e.Alpha)
	s.FillCircle(e.X, e.Y, e.Size, core.ColorGray)
}

// EffectHandle refers to a pool slot. It goes stale once the effect ends.
type EffectHandle struct {
	slot int
	gen  uint32
}

// EffectPool is a fixed-capacity arena of effects. Slots are reused through
// a free list; live effects keep insertion order for drawing.
type EffectPool struct {
	slots   []Effect
	gens    []uint32
	free    []int
	live    []int
	rng     *rand.Rand
	worldW  float64
	worldH  float64
	dropped int
}

// NewEffectPool creates a pool with room for capacity live effects.
func NewEffectPool(capacity int, seed int64, worldW, worldH float64) *EffectPool {
	if capacity < 1 {
		capacity = 1
	}
	p := &EffectPool{
		slots:  make([]Effect, capacity),
		gens:   make([]uint32, capacity),
		free:   make([]int, 0, capacity),
		live:   make([]int, 0, capacity),
		rng:    rand.New(rand.NewSource(seed)),
		worldW: worldW,
		worldH: worldH,
	}
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, i)
	}
	return p
}

// Add stores e and returns its handle. When the pool is full the effect is
// dropped and ok is false.
func (p *EffectPool) Add(e Effect) (h EffectHandle, ok bool) {
	if len(p.free) == 0 {
		p.dropped++
		return EffectHandle{}, false
	}
	slot := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.slots[slot] = e
	p.live = append(p.live, slot)
	return EffectHandle{slot: slot, gen: p.gens[slot]}, true
}

// Get returns the effect behind h if it is still live.
func (p *EffectPool) Get(h EffectHandle) (Effect, bool) {
	if h.slot < 0 || h.slot >= len(p.slots) || p.gens[h.slot] != h.gen {
		return Effect{}, false
	}
	for _, s := range p.live {
		if s == h.slot {
			return p.slots[s], true
		}
	}
	return Effect{}, false
}

func (p *EffectPool) release(slot int) {
	p.gens[slot]++
	p.slots[slot] = Effect{}
	p.free = append(p.free, slot)
}

// Update advances every effect by dt seconds and drops finished ones.
func (p *EffectPool) Update(dt float64) {
	kept := p.live[:0]
	for _, slot := range p.live {
		e := &p.slots[slot]
		if effectBehaviors[e.Kind].update(e, dt, p.rng) {
			kept = append(kept, slot)
		} else {
			p.release(slot)
		}
	}
	p.live = kept
}

// Draw renders live effects in insertion order.
func (p *EffectPool) Draw(s core.Surface) {
	for _, slot := range p.live {
		e := &p.slots[slot]
		s.Save()
		effectBehaviors[e.Kind].draw(e, s)
		s.Restore()
	}
}

// ShakeOffset returns the summed offset of all active shakes.
func (p *EffectPool) ShakeOffset() (dx, dy float64) {
	for _, slot := range p.live {
		if e := &p.slots[slot]; e.Kind == EffectShake {
			dx += e.OffsetX
			dy += e.OffsetY
		}
	}
	return dx, dy
}

// Len returns the number of live effects.
func (p *EffectPool) Len() int {
	return len(p.live)
}

// Cap returns the pool capacity.
func (p *EffectPool) Cap() int {
	return len(p.slots)
}

// Dropped returns how many effects were refused because the pool was full.
func (p *EffectPool) Dropped() int {
	return p.dropped
}

// Clear ends every live effect.
func (p *EffectPool) Clear() {
	for _, slot := range p.live {
		p.release(slot)
	}
	p.live = p.live[:0]
}

// AddParticles emits count particles evenly spaced around (x, y).
func (p *EffectPool) AddParticles(x, y float64, count int, speed float64, c core.Color) {
	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		p.Add(Effect{
			Kind:  EffectParticle,
			X:     x,
			Y:     y,
			VX:    math.Cos(angle) * speed,
			VY:    math.Sin(angle) * speed,
			Alpha: 1,
			Size:  particleRadius,
			Color: c,
		})
	}
}

// AddScorePopup shows floating text that rises and fades.
func (p *EffectPool) AddScorePopup(x, y float64, text string) (EffectHandle, bool) {
	return p.Add(Effect{
		Kind:  EffectPopup,
		X:     x,
		Y:     y,
		Text:  text,
		Alpha: 1,
		Scale: 1,
		Color: core.ColorBrightYellow,
	})
}

// AddFlash whitens the whole surface, fading over duration seconds.
func (p *EffectPool) AddFlash(duration float64) (EffectHandle, bool) {
	return p.Add(Effect{
		Kind:     EffectFlash,
		Alpha:    flashPeakAlpha,
		Duration: duration,
	})
}

// AddShake jitters the gameplay layer with decaying intensity.
func (p *EffectPool) AddShake(intensity, duration float64) (EffectHandle, bool) {
	return p.Add(Effect{
		Kind:      EffectShake,
		Intensity: intensity,
		Duration:  duration,
	})
}

// AddBanner pops a two-line banner that fades in, holds for hold seconds
// and fades out.
func (p *EffectPool) AddBanner(title, sub string, hold float64) (EffectHandle, bool) {
	return p.Add(Effect{
		Kind:     EffectBanner,
		Y:        p.worldH * 0.3,
		Text:     title,
		Sub:      sub,
		Alpha:    0,
		Scale:    0.5,
		Duration: hold,
	})
}

// AddLevelUp shows a banner that appears at full opacity and starts fading
// after hold seconds.
func (p *EffectPool) AddLevelUp(levelName string, hold float64) (EffectHandle, bool) {
	return p.Add(Effect{
		Kind:     EffectBanner,
		Y:        p.worldH * 0.2,
		Text:     "LEVEL UP",
		Sub:      levelName,
		Alpha:    1,
		Scale:    1,
		Duration: hold,
		phase:    bannerShow,
	})
}

// AddSmoke adds an expanding, fading puff.
func (p *EffectPool) AddSmoke(x, y float64) (EffectHandle, bool) {
	return p.Add(Effect{
		Kind:  EffectSmoke,
		X:     x,
		Y:     y,
		Size:  2,
		Alpha: 0.8,
	})
}

// AddExplosion bursts red and gold particles with a smoke puff.
func (p *EffectPool) AddExplosion(x, y float64) {
	p.AddParticles(x, y, 20, 4, core.ColorBrightRed)
	p.AddParticles(x, y, 15, 3, core.ColorBrightYellow)
	p.AddSmoke(x, y)
}
