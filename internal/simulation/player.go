package simulation

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Human player tuning, meters and m/s.
const (
	PlayerMaxSpeed     = 8.0
	PlayerSprintSpeed  = 12.0
	PlayerAcceleration = 40.0
	PlayerDeceleration = 30.0
	PlayerRotationRate = 6.0 // rad/s
	PlayerRadius       = 0.3
	PlayerKickRange    = 1.5
	PlayerDribbleRange = 1.2

	KickPowerNormal  = 15.0
	KickPowerSprint  = 22.0
	SprintTopspin    = -5.0 // rad/s, dips power shots
	kickLoft         = 0.3  // upward component before normalize
	kickAnimDuration = 0.3

	dribbleControlGain = 0.15
	dribbleTouchPeriod = 0.15
	dribbleSpeedCap    = 1.5 // ball speed cap relative to player speed

	fieldInset = 1.0 // players stay this far inside the lines
)

// Player is the human-controlled player. It consumes a per-frame movement
// vector and sprint flag and exposes kick and dribble operations on the ball.
type Player struct {
	Position       mgl64.Vec3
	Velocity       mgl64.Vec3
	Rotation       float64 // yaw, radians, in (-pi, pi]
	TargetRotation float64

	inputDirection mgl64.Vec3
	sprinting      bool

	AnimationTime float64
	kickTimer     float64
	kicking       bool

	// Time since the last dribble touch impulse. Explicit state so touch
	// cadence is deterministic and testable.
	touchTimer float64

	rng *rand.Rand
}

// NewPlayer returns a player at the default spawn. The rng drives dribble
// touch impulses and must be seeded by the owner for reproducible runs.
func NewPlayer(rng *rand.Rand) *Player {
	return &Player{
		Position: mgl64.Vec3{0, 0, 5},
		rng:      rng,
	}
}

// SetMovementInput stores the per-frame movement direction and sprint flag.
func (p *Player) SetMovementInput(dir mgl64.Vec3, sprinting bool) {
	p.inputDirection = dir
	p.sprinting = sprinting
}

// SetTargetRotation sets the yaw the player turns toward.
func (p *Player) SetTargetRotation(yaw float64) {
	p.TargetRotation = yaw
}

// Update advances movement, rotation and animation by dt and clamps the
// player inside the field.
func (p *Player) Update(dt float64, bounds FieldBounds) {
	p.updateMovement(dt)
	p.Rotation = smoothRotate(p.Rotation, p.TargetRotation, PlayerRotationRate, dt)
	p.updateAnimation(dt)
	p.clampToField(bounds)
}

// Speed returns the current ground speed.
func (p *Player) Speed() float64 { return p.Velocity.Len() }

// IsKicking reports whether the kick animation is active.
func (p *Player) IsKicking() bool { return p.kicking }

// KickTimer returns the remaining kick animation time.
func (p *Player) KickTimer() float64 { return p.kickTimer }

// Forward returns the facing direction on the ground plane.
func (p *Player) Forward() mgl64.Vec3 {
	return mgl64.Vec3{-math.Sin(p.Rotation), 0, -math.Cos(p.Rotation)}
}

// TryKick kicks the ball in the facing direction with a slight upward loft.
// Returns false without touching the ball when it is out of range. Sprinting
// raises the power tier and adds topspin.
func (p *Player) TryKick(ball *Ball, sprinting bool, spinY float64) bool {
	if ball.Position().Sub(p.Position).Len() >= PlayerKickRange {
		return false
	}

	kickDir := mgl64.Vec3{-math.Sin(p.Rotation), kickLoft, -math.Cos(p.Rotation)}

	power := KickPowerNormal
	spinX := 0.0
	if sprinting {
		power = KickPowerSprint
		spinX = SprintTopspin
	}

	ball.Kick(kickDir, power, spinY, spinX)

	p.kicking = true
	p.kickTimer = kickAnimDuration
	return true
}

// HandleBallCollision applies dribbling when the ball is controllable and
// resolves the hard player-ball overlap.
func (p *Player) HandleBallCollision(ball *Ball, dt float64) {
	toBall := ball.Position().Sub(p.Position)
	toBall[1] = 0
	dist := toBall.Len()

	minDist := PlayerRadius + BallRadius
	ballOnGround := ball.Position().Y() <= BallRadius+0.1

	// Dribbling guides the ball while moving.
	if dist < PlayerDribbleRange && p.Speed() > 0.5 && ballOnGround {
		p.dribble(ball, dt)
	}

	// Hard collision keeps the player from walking through the ball.
	if dist < minDist && dist > 0.01 {
		pushDir := toBall.Mul(1 / dist)
		st := ball.State()
		st.Position[0] = p.Position.X() + pushDir.X()*minDist
		st.Position[2] = p.Position.Z() + pushDir.Z()*minDist

		if speed := p.Speed(); speed > 0.5 {
			st.Velocity[0] += pushDir.X() * speed * 0.3
			st.Velocity[2] += pushDir.Z() * speed * 0.3
		}
	}
}

func (p *Player) updateMovement(dt float64) {
	targetSpeed := PlayerMaxSpeed
	if p.sprinting {
		targetSpeed = PlayerSprintSpeed
	}

	if p.inputDirection.Len() > 0.01 {
		targetVel := p.inputDirection.Normalize().Mul(targetSpeed)
		p.Velocity = accelerateToward(p.Velocity, targetVel, PlayerAcceleration*dt)
	} else if speed := p.Velocity.Len(); speed > 0.01 {
		decel := PlayerDeceleration * dt
		if speed < decel {
			p.Velocity = mgl64.Vec3{}
		} else {
			p.Velocity = p.Velocity.Sub(p.Velocity.Mul(decel / speed))
		}
	}

	p.Position = p.Position.Add(p.Velocity.Mul(dt))
}

func (p *Player) updateAnimation(dt float64) {
	if speed := p.Velocity.Len(); speed > 0.5 {
		p.AnimationTime += dt * speed * 0.8
	}

	if p.kickTimer > 0 {
		p.kickTimer -= dt
		if p.kickTimer <= 0 {
			p.kicking = false
		}
	}
}

func (p *Player) clampToField(bounds FieldBounds) {
	halfL := bounds.Length/2 - fieldInset
	halfW := bounds.Width/2 - fieldInset
	p.Position[0] = clamp(p.Position.X(), -halfL, halfL)
	p.Position[2] = clamp(p.Position.Z(), -halfW, halfW)
}

// dribble nudges the ball toward a spot just ahead of the facing direction,
// with periodic touch impulses and a speed cap so the ball cannot escape.
func (p *Player) dribble(ball *Ball, dt float64) {
	toBall := ball.Position().Sub(p.Position)
	toBall[1] = 0

	forward := p.Forward()
	idealPos := p.Position.Add(forward.Mul(0.8))
	idealPos[1] = BallRadius

	toIdeal := idealPos.Sub(ball.Position())
	toIdeal[1] = 0

	// Only dribble a ball that is roughly in front.
	if toBall.Len() < 1e-6 || toBall.Normalize().Dot(forward) <= -0.3 {
		return
	}

	speed := p.Speed()
	st := ball.State()
	st.Velocity[0] += toIdeal.X() * dribbleControlGain * speed
	st.Velocity[2] += toIdeal.Z() * dribbleControlGain * speed

	p.touchTimer += dt
	if p.touchTimer > dribbleTouchPeriod {
		p.touchTimer = 0
		touchStrength := 0.5 + p.rng.Float64()*0.5
		st.Velocity = st.Velocity.Add(forward.Mul(speed * touchStrength * 0.3))
	}

	ballSpeed := math.Hypot(st.Velocity.X(), st.Velocity.Z())
	if ballSpeed > speed*dribbleSpeedCap {
		factor := speed * dribbleSpeedCap / ballSpeed
		st.Velocity[0] *= factor
		st.Velocity[2] *= factor
	}
}
