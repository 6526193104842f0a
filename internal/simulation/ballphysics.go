package simulation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Physical constants for the ball, SI units.
const (
	BallRadius = 0.22 // meters
	BallMass   = 0.43 // kg, FIFA regulation 410-450g

	Gravity           = 9.81
	AirDensity        = 1.2
	DragCoefficient   = 0.2
	MagnusCoefficient = 0.5
	MaxMagnusAccel    = 15.0 // bounds curve extremity
	BounceFactor      = 0.7  // energy retained on bounce
	RollingFriction   = 0.3  // grass
	SpinDecayAir      = 0.98 // per second
	SpinDecayGround   = 0.9  // per second

	ballAirThreshold   = BallRadius + 0.3
	ballLowThreshold   = BallRadius + 0.15
	sidelineMargin     = 0.5
	boundaryDamping    = 0.5
	rotationVisualGain = 3.0
)

// BallState is the complete runtime state of the ball.
type BallState struct {
	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3 // spin, rad/s
	RotationAngle   float64    // visual roll angle, cosmetic only
}

// FieldBounds holds the field dimensions shared by physics and match logic.
// Fixed at session start.
type FieldBounds struct {
	Length     float64
	Width      float64
	GoalWidth  float64
	GoalHeight float64
}

// DefaultFieldBounds returns FIFA regulation dimensions in meters.
func DefaultFieldBounds() FieldBounds {
	return FieldBounds{Length: 105, Width: 68, GoalWidth: 7.32, GoalHeight: 2.44}
}

// UpdateBall advances the ball state by dt seconds. The pipeline order matters:
// forces first, then integration, then ground and boundary corrections.
func UpdateBall(ball *BallState, dt float64, bounds FieldBounds) {
	inAir := BallInAir(ball)
	speed := ball.Velocity.Len()

	applyGravity(ball, dt)

	if inAir && speed > 0.1 {
		applyAirDrag(ball, dt)
	}

	// Magnus effect: F = S * (omega x v) curves the flight path.
	if inAir && ball.AngularVelocity.Len() > 0.1 && speed > 1.0 {
		applyMagnusEffect(ball, dt)
	}

	applySpinDecay(ball, dt)

	ball.Position = ball.Position.Add(ball.Velocity.Mul(dt))

	if speed > 0.1 {
		ball.RotationAngle += speed * dt * rotationVisualGain
	}

	handleGroundCollision(ball)
	applyRollingFriction(ball, dt)
	handleFieldBoundaries(ball, bounds)
}

// BallInAir reports whether the ball is clearly airborne.
func BallInAir(ball *BallState) bool {
	return ball.Position.Y() > ballAirThreshold
}

// BallIsLow reports whether the ball is close to the ground and not rising,
// i.e. safe to kick. Prevents kicking a ball mid-bounce.
func BallIsLow(ball *BallState) bool {
	return ball.Position.Y() < ballLowThreshold && ball.Velocity.Y() < 0.5
}

func applyGravity(ball *BallState, dt float64) {
	ball.Velocity[1] -= Gravity * dt
}

func applyAirDrag(ball *BallState, dt float64) {
	speed := ball.Velocity.Len()
	if speed < 0.01 {
		return
	}

	// Drag equation: F = 0.5 * rho * Cd * A * v^2
	area := math.Pi * BallRadius * BallRadius
	dragForce := 0.5 * AirDensity * DragCoefficient * area * speed * speed
	dragAccel := dragForce / BallMass

	velDir := ball.Velocity.Mul(1 / speed)
	ball.Velocity = ball.Velocity.Sub(velDir.Mul(dragAccel * dt))
}

func applyMagnusEffect(ball *BallState, dt float64) {
	// Magnus force is perpendicular to both the spin axis and the velocity.
	magnusForce := ball.AngularVelocity.Cross(ball.Velocity).Mul(MagnusCoefficient)

	magnusAccel := magnusForce.Len() / BallMass
	if magnusAccel > MaxMagnusAccel {
		magnusForce = magnusForce.Mul(MaxMagnusAccel / magnusAccel)
	}

	ball.Velocity = ball.Velocity.Add(magnusForce.Mul(dt / BallMass))
}

func applySpinDecay(ball *BallState, dt float64) {
	// decay^dt keeps the per-second rate frame-rate independent. Ground
	// contact scrubs spin faster than air.
	decay := SpinDecayGround
	if BallInAir(ball) {
		decay = SpinDecayAir
	}
	ball.AngularVelocity = ball.AngularVelocity.Mul(math.Pow(decay, dt))
}

func handleGroundCollision(ball *BallState) {
	if ball.Position.Y() >= BallRadius {
		return
	}
	ball.Position[1] = BallRadius

	if ball.Velocity.Y() < -0.5 {
		ball.Velocity[1] = -ball.Velocity.Y() * BounceFactor
		ball.Velocity[0] *= 0.9
		ball.Velocity[2] *= 0.9
		ball.AngularVelocity = ball.AngularVelocity.Mul(0.7)
	} else {
		// Resting contact.
		ball.Velocity[1] = 0
	}
}

func applyRollingFriction(ball *BallState, dt float64) {
	if ball.Position.Y() > BallRadius+0.05 {
		return
	}

	groundSpeed := math.Hypot(ball.Velocity.X(), ball.Velocity.Z())
	if groundSpeed > 0.01 {
		newSpeed := math.Max(0, groundSpeed-RollingFriction*Gravity*dt)
		factor := newSpeed / groundSpeed
		ball.Velocity[0] *= factor
		ball.Velocity[2] *= factor
	} else {
		ball.Velocity[0] = 0
		ball.Velocity[2] = 0
	}
}

func handleFieldBoundaries(ball *BallState, bounds FieldBounds) {
	halfLength := bounds.Length / 2
	halfWidth := bounds.Width / 2

	// End lines reflect unless the ball is inside the goal aperture; passing
	// through the aperture is how the ball enters a goal.
	if math.Abs(ball.Position.X()) > halfLength && !inGoalAperture(ball.Position, bounds) {
		ball.Position[0] = math.Copysign(halfLength, ball.Position.X())
		ball.Velocity[0] = -ball.Velocity.X() * boundaryDamping
		ball.AngularVelocity = ball.AngularVelocity.Mul(boundaryDamping)
	}

	// Side lines always reflect.
	if math.Abs(ball.Position.Z()) > halfWidth+sidelineMargin {
		ball.Position[2] = math.Copysign(halfWidth+sidelineMargin, ball.Position.Z())
		ball.Velocity[2] = -ball.Velocity.Z() * boundaryDamping
		ball.AngularVelocity = ball.AngularVelocity.Mul(boundaryDamping)
	}
}

// inGoalAperture reports whether pos is laterally and vertically inside the
// goal mouth rectangle at either end line.
func inGoalAperture(pos mgl64.Vec3, bounds FieldBounds) bool {
	return math.Abs(pos.Z()) < bounds.GoalWidth/2 && pos.Y() < bounds.GoalHeight
}
