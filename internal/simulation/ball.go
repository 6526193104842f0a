package simulation

import "github.com/go-gl/mathgl/mgl64"

// Ball owns the ball state and exposes kick/push actions on top of the
// physics integrator.
type Ball struct {
	state BallState
}

// NewBall returns a ball at the kickoff spot.
func NewBall() *Ball {
	b := &Ball{}
	b.Reset()
	return b
}

// Update advances the ball physics by dt seconds.
func (b *Ball) Update(dt float64, bounds FieldBounds) {
	UpdateBall(&b.state, dt, bounds)
}

// Reset returns the ball to center field, slightly elevated, with all motion
// zeroed.
func (b *Ball) Reset() {
	b.state = BallState{Position: mgl64.Vec3{0, 0.5, 0}}
}

// Kick replaces the ball velocity with dir*power and sets spin. A degenerate
// direction is a no-op rather than a NaN propagation.
func (b *Ball) Kick(dir mgl64.Vec3, power, spinY, spinX float64) {
	if dir.Len() < 1e-6 {
		return
	}
	b.state.Velocity = dir.Normalize().Mul(power)
	b.state.AngularVelocity = mgl64.Vec3{spinX, spinY, 0}
}

// Push adds an impulse along dir without replacing existing velocity.
func (b *Ball) Push(dir mgl64.Vec3, force float64) {
	b.state.Velocity = b.state.Velocity.Add(dir.Mul(force))
}

func (b *Ball) Position() mgl64.Vec3   { return b.state.Position }
func (b *Ball) Velocity() mgl64.Vec3   { return b.state.Velocity }
func (b *Ball) RotationAngle() float64 { return b.state.RotationAngle }
func (b *Ball) InAir() bool            { return BallInAir(&b.state) }
func (b *Ball) IsLow() bool            { return BallIsLow(&b.state) }

func (b *Ball) SetPosition(pos mgl64.Vec3) { b.state.Position = pos }
func (b *Ball) SetVelocity(vel mgl64.Vec3) { b.state.Velocity = vel }

// State exposes the raw state for collision handlers that need to correct
// position and velocity directly.
func (b *Ball) State() *BallState { return &b.state }
