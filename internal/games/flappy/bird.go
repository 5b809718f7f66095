package flappy

import (
	"math"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// referenceFPS is the frame rate the per-frame tuning constants assume.
const referenceFPS = 60.0

// Bird is the player-controlled actor.
// Velocity is in units per reference frame; positive is down.
type Bird struct {
	X, Y      float64
	Velocity  float64
	Rotation  float64 // degrees, positive tilts the beak down
	WingPhase float64 // radians in [0, 2π)

	cfg config.BirdConfig
}

// NewBird creates a bird at rest at (x, y).
func NewBird(x, y float64, cfg config.BirdConfig) *Bird {
	return &Bird{X: x, Y: y, cfg: cfg}
}

// Radius returns the hitbox radius.
func (b *Bird) Radius() float64 {
	return b.cfg.Width / b.cfg.RadiusDivisor
}

// Hitbox returns the circular collision proxy centered on the bird.
func (b *Bird) Hitbox() core.Circle {
	return core.Circle{Center: core.Vec2{X: b.X, Y: b.Y}, Radius: b.Radius()}
}

// Flap applies the upward impulse unless the bird is already rising at
// full speed. Returns true if the impulse was applied.
func (b *Bird) Flap() bool {
	if b.Velocity <= b.cfg.MinVelocity {
		return false
	}
	b.Velocity = b.cfg.FlapPower
	b.Rotation = b.cfg.MinRotation
	b.WingPhase = 0
	return true
}

// Update integrates gravity over dt seconds.
func (b *Bird) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}

	b.Velocity += b.cfg.Gravity * dt * referenceFPS
	b.Velocity = core.ClampF(b.Velocity, b.cfg.MinVelocity, b.cfg.TerminalVelocity)

	b.Y += b.Velocity * dt * b.cfg.VelocityScale

	if b.Velocity > 0 {
		target := math.Min(b.cfg.MaxRotation, b.Velocity/b.cfg.TerminalVelocity*b.cfg.MaxRotation)
		b.Rotation += (target - b.Rotation) * b.cfg.RotationSpeed * dt
	} else {
		b.Rotation = b.cfg.MinRotation
	}
	b.Rotation = core.ClampF(b.Rotation, b.cfg.MinRotation, b.cfg.MaxRotation)

	b.WingPhase = math.Mod(b.WingPhase+b.cfg.WingSpeed*dt*referenceFPS, 2*math.Pi)
}

// ClampY keeps the bird's body inside [0, worldH]. Collision is decided
// separately; this only keeps the sprite drawable.
func (b *Bird) ClampY(worldH float64) {
	half := b.cfg.Height / 2
	b.Y = core.ClampF(b.Y, half, worldH-half)
}

// CheckCollision reports whether the hitbox overlaps either half of the pipe.
func (b *Bird) CheckCollision(p Pipe, worldH float64) bool {
	hb := b.Hitbox()
	return core.CircleRectIntersects(hb, p.TopRect()) ||
		core.CircleRectIntersects(hb, p.BottomRect(worldH))
}

// Draw renders the bird. The beak and wing follow rotation and wing phase.
func (b *Bird) Draw(s core.Surface) {
	r := b.cfg.Width / 2
	rad := b.Rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	s.FillCircle(b.X, b.Y, r, core.ColorYellow)

	// Wing sweeps around the back of the body.
	wingY := math.Sin(b.WingPhase) * 10
	s.Line(b.X-r/2, b.Y, b.X-r, b.Y+wingY-b.cfg.Height/4, core.ColorOrange)

	// Eye and beak are placed in the rotated frame.
	ex, ey := r/2, -b.cfg.Height/6
	s.FillCircle(b.X+ex*cos-ey*sin, b.Y+ex*sin+ey*cos, 3, core.ColorBlack)

	bx := b.X + r*cos
	by := b.Y + r*sin
	s.Line(bx, by, bx+r*0.6*cos, by+r*0.6*sin, core.ColorRed)
}

// DrawHitbox outlines the collision circle for debugging.
func (b *Bird) DrawHitbox(s core.Surface) {
	hb := b.Hitbox()
	s.StrokeRect(hb.Center.X-hb.Radius, hb.Center.Y-hb.Radius, hb.Radius*2, hb.Radius*2, core.ColorRed)
}
