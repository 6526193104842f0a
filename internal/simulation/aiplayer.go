package simulation

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// AI player tuning, slightly slower than the human for balance.
const (
	AIMaxSpeed     = 7.0
	AIAcceleration = 25.0
	AIKickPower    = 15.0
	AIKickRange    = 1.0
	AIRotationRate = 8.0
	AIKickCooldown = 1.5 // seconds between kicks
	AIRadius       = 0.3

	aiChaseRadius      = 35.0 // beyond this every AI holds formation
	aiPredictHorizon   = 0.2  // seconds of ball velocity lead when chasing
	aiHalfwayThreshold = 40.0 // chasers stay inside their attacking half
	aiKeeperEngageX    = 20.0 // keeper engages ball this close to the goal line
	aiKeeperEngageDist = 15.0

	aiBallPushRadius   = 0.5
	aiHumanAvoidRadius = 0.8
	aiSeparationRadius = 0.7
)

// AIState is the behavioral state of one AI player.
type AIState int

const (
	StateIdle AIState = iota
	StateChaseBall
	StateReturnToPosition
	StateDefend // reserved, not entered by current transitions
)

func (s AIState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChaseBall:
		return "chase_ball"
	case StateReturnToPosition:
		return "return_to_position"
	case StateDefend:
		return "defend"
	default:
		return "unknown"
	}
}

// Role is the tactical role assigned at roster creation. Roles are explicit
// and never reassigned.
type Role int

const (
	RoleGoalkeeper Role = iota
	RoleDefender
	RoleMidfielder
	RoleForward
)

func (r Role) String() string {
	switch r {
	case RoleGoalkeeper:
		return "goalkeeper"
	case RoleDefender:
		return "defender"
	case RoleMidfielder:
		return "midfielder"
	case RoleForward:
		return "forward"
	default:
		return "unknown"
	}
}

// AIPlayer is one autonomous player: a finite-state decision layer over the
// same accelerate/decelerate movement model as the human player.
type AIPlayer struct {
	Position       mgl64.Vec3
	Velocity       mgl64.Vec3
	HomePosition   mgl64.Vec3 // formation position to return to
	Rotation       float64
	TargetRotation float64

	State AIState
	Team  int // 0 = red (attacks +X), 1 = blue (attacks -X)
	Role  Role

	KickCooldown  float64
	AnimationTime float64

	// Recomputed every frame by the AIManager; at most one non-goalkeeper
	// per team carries it.
	IsClosestChaser bool

	targetPos   mgl64.Vec3
	targetSpeed float64

	rng *rand.Rand
}

// NewAIPlayer creates an AI player at its formation home with an explicit
// team and role.
func NewAIPlayer(home mgl64.Vec3, team int, role Role, rng *rand.Rand) *AIPlayer {
	return &AIPlayer{
		Position:     home,
		HomePosition: home,
		Team:         team,
		Role:         role,
		targetSpeed:  AIMaxSpeed,
		rng:          rng,
	}
}

// Update runs one decision/movement/kick cycle.
func (a *AIPlayer) Update(dt float64, ball *Ball, bounds FieldBounds) {
	if a.KickCooldown > 0 {
		a.KickCooldown -= dt
	}

	a.decideAction(ball.Position(), ball.Velocity(), bounds)
	a.moveToward(a.targetPos, a.targetSpeed, dt)

	// Kick only a grounded ball: IsLow rejects a ball mid-bounce.
	if a.DistanceToBall(ball.Position()) < AIKickRange && a.KickCooldown <= 0 && ball.IsLow() {
		a.tryKick(ball, bounds.Length)
	}

	if speed := a.Velocity.Len(); speed > 0.5 {
		a.AnimationTime += dt * speed * 0.8
	}

	halfL := bounds.Length/2 - fieldInset
	halfW := bounds.Width/2 - fieldInset
	a.Position[0] = clamp(a.Position.X(), -halfL, halfL)
	a.Position[2] = clamp(a.Position.Z(), -halfW, halfW)

	a.Rotation = smoothRotate(a.Rotation, a.TargetRotation, AIRotationRate, dt)
}

// DistanceToBall is the ground-plane distance to the ball.
func (a *AIPlayer) DistanceToBall(ballPos mgl64.Vec3) float64 {
	toBall := ballPos.Sub(a.Position)
	return math.Hypot(toBall.X(), toBall.Z())
}

func (a *AIPlayer) decideAction(ballPos, ballVel mgl64.Vec3, bounds FieldBounds) {
	dist := a.DistanceToBall(ballPos)
	ballX := ballPos.X()

	shouldChase := false
	switch {
	case a.Role == RoleGoalkeeper:
		// Keeper engages only when the ball threatens its own goal.
		goalX := bounds.Length / 2
		if a.Team == 0 {
			goalX = -goalX
		}
		shouldChase = math.Abs(ballX-goalX) < aiKeeperEngageX && dist < aiKeeperEngageDist
	case a.IsClosestChaser:
		// Only the elected outfield player pursues, and only while the ball
		// is on its attacking side of the halfway threshold.
		if a.Team == 0 {
			shouldChase = ballX < aiHalfwayThreshold
		} else {
			shouldChase = ballX > -aiHalfwayThreshold
		}
	}

	if shouldChase && dist < aiChaseRadius {
		a.State = StateChaseBall
		a.chaseBall(ballPos, ballVel)
	} else {
		a.State = StateReturnToPosition
		a.returnToPosition(ballPos, bounds.GoalWidth)
	}
}

func (a *AIPlayer) chaseBall(ballPos, ballVel mgl64.Vec3) {
	// Intercept where the ball will be shortly, not where it is.
	predicted := ballPos.Add(ballVel.Mul(aiPredictHorizon))
	predicted[1] = 0
	a.targetPos = predicted
	a.targetSpeed = AIMaxSpeed
}

func (a *AIPlayer) returnToPosition(ballPos mgl64.Vec3, goalWidth float64) {
	// Shift the formation with the ball to keep a compact shape.
	shifted := a.HomePosition
	shiftAmount := ballPos.X() * 0.2

	switch a.Role {
	case RoleGoalkeeper:
		// Keeper slides along the goal line, tracking the ball laterally.
		shifted[2] = clamp(ballPos.Z()*0.5, -goalWidth/2+1, goalWidth/2-1)
	case RoleDefender:
		shifted[0] += shiftAmount * 0.3
	default:
		shifted[0] += shiftAmount * 0.5
	}

	a.targetPos = shifted
	a.targetSpeed = AIMaxSpeed * 0.5 // jog back
}

func (a *AIPlayer) moveToward(target mgl64.Vec3, targetSpeed, dt float64) {
	toTarget := target.Sub(a.Position)
	toTarget[1] = 0
	distToTarget := toTarget.Len()

	if distToTarget > 0.5 {
		moveDir := toTarget.Mul(1 / distToTarget)

		// Approach speed scales with distance to prevent overshoot.
		targetVel := moveDir.Mul(math.Min(distToTarget*2, targetSpeed))
		a.Velocity = accelerateToward(a.Velocity, targetVel, AIAcceleration*dt)

		a.TargetRotation = math.Atan2(-moveDir.X(), -moveDir.Z())
	} else {
		// Arrived; bleed off remaining speed.
		if a.Velocity.Len() > 0.1 {
			a.Velocity = a.Velocity.Mul(0.9)
		} else {
			a.Velocity = mgl64.Vec3{}
		}
	}

	a.Position = a.Position.Add(a.Velocity.Mul(dt))
}

func (a *AIPlayer) tryKick(ball *Ball, fieldLength float64) {
	goalX := fieldLength / 2
	if a.Team == 1 {
		goalX = -goalX
	}

	goalDir := mgl64.Vec3{goalX, 0, 0}.Sub(a.Position)
	goalDir[1] = 0
	if goalDir.Len() < 1e-6 {
		return
	}
	goalDir = goalDir.Normalize()

	// Lateral jitter keeps shots from being perfectly predictable.
	goalDir[2] += (a.rng.Float64() - 0.5) * 0.3
	goalDir = goalDir.Normalize()

	st := ball.State()
	st.Velocity = goalDir.Mul(AIKickPower)
	st.Velocity[1] = 1.0 // slight lift
	a.KickCooldown = AIKickCooldown
}

// HandleBallCollision pushes an overlapping ball out to the contact ring.
func (a *AIPlayer) HandleBallCollision(ball *Ball) {
	dist := a.DistanceToBall(ball.Position())
	if dist >= aiBallPushRadius || dist <= 0.01 {
		return
	}
	toBall := ball.Position().Sub(a.Position)
	toBall[1] = 0
	pushDir := toBall.Normalize()
	st := ball.State()
	st.Position[0] = a.Position.X() + pushDir.X()*aiBallPushRadius
	st.Position[2] = a.Position.Z() + pushDir.Z()*aiBallPushRadius
}

// HandlePlayerCollision moves the AI itself away from the human player.
func (a *AIPlayer) HandlePlayerCollision(playerPos mgl64.Vec3) {
	toPlayer := playerPos.Sub(a.Position)
	toPlayer[1] = 0
	dist := toPlayer.Len()
	if dist >= aiHumanAvoidRadius || dist <= 0.01 {
		return
	}
	pushDir := toPlayer.Mul(1 / dist)
	a.Position = a.Position.Sub(pushDir.Mul(aiHumanAvoidRadius - dist))
}

// HandleAICollision pushes two overlapping AI players apart symmetrically.
func (a *AIPlayer) HandleAICollision(other *AIPlayer) {
	toOther := other.Position.Sub(a.Position)
	toOther[1] = 0
	dist := toOther.Len()
	if dist >= aiSeparationRadius || dist <= 0.01 {
		return
	}
	pushDir := toOther.Mul(1 / dist)
	half := (aiSeparationRadius - dist) * 0.5
	a.Position = a.Position.Sub(pushDir.Mul(half))
	other.Position = other.Position.Add(pushDir.Mul(half))
}
