package simulation

import (
	"math"
	"math/rand"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/RJETanjutcoII/sports-engine/internal/shared/logger"
	"github.com/RJETanjutcoII/sports-engine/internal/shared/types"
)

// MaxTickDelta caps the per-tick time step. Frame hitches beyond this would
// tunnel the ball through colliders, so the session clamps at its seam on
// behalf of every host.
const MaxTickDelta = 0.1

// SessionConfig configures a simulation session. The zero value is usable:
// regulation field, seed 0, no logger.
type SessionConfig struct {
	Bounds FieldBounds
	Seed   int64
	Log    *logger.Logger
}

// Session owns the ball, the human player, both AI rosters and the match
// state, and advances them in a fixed order each tick. All randomized
// behavior (AI kick jitter, dribble touches) draws from one seeded source,
// so identical seed, input and dt sequences reproduce identical state.
type Session struct {
	mu  sync.RWMutex
	log *logger.Logger

	bounds FieldBounds
	ball   *Ball
	player *Player
	ai     *AIManager
	match  *Match
	rng    *rand.Rand

	input          types.ControlInput
	externalYaw    float64
	hasExternalYaw bool
	aiEnabled      bool

	tick    uint64
	elapsed float64 // simulated seconds, drives event timestamps
	events  []types.GameplayEvent
}

// NewSession creates a session at kickoff.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Bounds == (FieldBounds{}) {
		cfg.Bounds = DefaultFieldBounds()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	return &Session{
		log:       cfg.Log,
		bounds:    cfg.Bounds,
		ball:      NewBall(),
		player:    NewPlayer(rng),
		ai:        NewAIManager(rng),
		match:     NewMatch(cfg.Bounds),
		rng:       rng,
		aiEnabled: true,
	}
}

// ApplyInput stores the latest control state. The kick flag is edge
// triggered and consumed by the next tick.
func (s *Session) ApplyInput(in types.ControlInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mag := math.Hypot(in.MoveX, in.MoveZ); mag > 1 {
		in.MoveX /= mag
		in.MoveZ /= mag
	}
	kick := s.input.Kick || in.Kick
	s.input = in
	s.input.Kick = kick
}

// SetTargetRotation overrides the player's facing yaw, e.g. from a host
// camera. Without it the player faces its movement direction.
func (s *Session) SetTargetRotation(yaw float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.externalYaw = yaw
	s.hasExternalYaw = true
}

// SetAIEnabled toggles the AI teams, mostly for testing and debugging.
func (s *Session) SetAIEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aiEnabled = enabled
}

// ResetBall returns the ball to center field.
func (s *Session) ResetBall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ball.Reset()
	s.events = append(s.events, types.GameplayEvent{
		Type:       "ball_reset",
		Team:       -1,
		OccurredMS: int64(s.elapsed * 1000),
	})
}

// Reset restores the session to kickoff: scores, ball, player and formations.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.match.Reset()
	s.ball.Reset()
	s.player.Position = mgl64.Vec3{0, 0, 5}
	s.player.Velocity = mgl64.Vec3{}
	for _, ai := range s.ai.Players {
		ai.Position = ai.HomePosition
		ai.Velocity = mgl64.Vec3{}
		ai.State = StateIdle
		ai.KickCooldown = 0
	}
}

// Tick advances the simulation by dt seconds in the fixed per-frame order:
// player movement, ball physics, boundary response, player-ball interaction,
// goal logic, AI teams.
func (s *Session) Tick(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dt > MaxTickDelta {
		dt = MaxTickDelta
	}

	s.tick++
	s.elapsed += dt
	s.events = s.events[:0]

	dir := mgl64.Vec3{s.input.MoveX, 0, s.input.MoveZ}
	s.player.SetMovementInput(dir, s.input.Sprint)
	if s.hasExternalYaw {
		s.player.SetTargetRotation(s.externalYaw)
	} else if dir.Len() > 0.01 {
		s.player.SetTargetRotation(math.Atan2(-dir.X(), -dir.Z()))
	}

	if s.input.Kick {
		s.input.Kick = false
		if !s.match.IsGoalScored() {
			s.player.TryKick(s.ball, s.input.Sprint, s.input.Spin)
		}
	}

	s.player.Update(dt, s.bounds)

	s.ball.Update(dt, s.bounds)
	s.match.HandleBoundaryCollision(s.ball)

	// Dribble and hard collision pause while a goal celebration runs.
	if !s.match.IsGoalScored() {
		s.player.HandleBallCollision(s.ball, dt)
	}

	wasCelebrating := s.match.IsGoalScored()
	s.match.Update(dt, s.ball)
	s.recordMatchEvents(wasCelebrating)

	if s.aiEnabled {
		s.ai.Update(dt, s.ball, s.player.Position, s.bounds)
	}
}

func (s *Session) recordMatchEvents(wasCelebrating bool) {
	now := int64(s.elapsed * 1000)

	if !wasCelebrating && s.match.IsGoalScored() {
		team := s.match.LastScoringTeam()
		s.events = append(s.events, types.GameplayEvent{
			Type:       "goal",
			Team:       team,
			OccurredMS: now,
		})
		if s.log != nil {
			s.log.Info("goal",
				"team", team,
				"score_left", s.match.ScoreLeft(),
				"score_right", s.match.ScoreRight())
		}
	}

	if wasCelebrating && !s.match.IsGoalScored() {
		s.events = append(s.events, types.GameplayEvent{
			Type:       "celebration_end",
			Team:       s.match.LastScoringTeam(),
			OccurredMS: now,
		})
	}
}

// Snapshot returns a deep copy of the replicated state for safe concurrent
// reads.
func (s *Session) Snapshot() types.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	aiSnaps := make([]types.AIPlayerSnapshot, len(s.ai.Players))
	for i, ai := range s.ai.Players {
		aiSnaps[i] = types.AIPlayerSnapshot{
			Position:      types.FromMgl(ai.Position),
			Velocity:      types.FromMgl(ai.Velocity),
			Rotation:      ai.Rotation,
			AnimationTime: ai.AnimationTime,
			Team:          ai.Team,
			Role:          ai.Role.String(),
			State:         ai.State.String(),
			ClosestChaser: ai.IsClosestChaser,
		}
	}

	events := make([]types.GameplayEvent, len(s.events))
	copy(events, s.events)

	return types.SessionState{
		Tick: s.tick,
		Field: types.FieldConfig{
			Length:     s.bounds.Length,
			Width:      s.bounds.Width,
			GoalWidth:  s.bounds.GoalWidth,
			GoalHeight: s.bounds.GoalHeight,
		},
		Ball: types.BallSnapshot{
			Position:        types.FromMgl(s.ball.Position()),
			Velocity:        types.FromMgl(s.ball.Velocity()),
			AngularVelocity: types.FromMgl(s.ball.State().AngularVelocity),
			RotationAngle:   s.ball.RotationAngle(),
			InAir:           s.ball.InAir(),
			OutOfBounds:     s.match.IsBallOutOfBounds(s.ball.Position()),
		},
		Player: types.PlayerSnapshot{
			Position:      types.FromMgl(s.player.Position),
			Velocity:      types.FromMgl(s.player.Velocity),
			Rotation:      s.player.Rotation,
			AnimationTime: s.player.AnimationTime,
			IsKicking:     s.player.IsKicking(),
			KickTimer:     s.player.KickTimer(),
		},
		AIPlayers: aiSnaps,
		Score: types.ScoreState{
			Left:  s.match.ScoreLeft(),
			Right: s.match.ScoreRight(),
		},
		GoalScored:       s.match.IsGoalScored(),
		LastScoringTeam:  s.match.LastScoringTeam(),
		CelebrationAlpha: s.match.CelebrationAlpha(),
		AIEnabled:        s.aiEnabled,
		Events:           events,
	}
}

// Shared movement helpers.

// accelerateToward moves vel toward targetVel by at most maxDelta, snapping
// when the remaining difference is smaller than one step.
func accelerateToward(vel, targetVel mgl64.Vec3, maxDelta float64) mgl64.Vec3 {
	diff := targetVel.Sub(vel)
	dist := diff.Len()
	if dist < maxDelta {
		return targetVel
	}
	return vel.Add(diff.Mul(maxDelta / dist))
}

// smoothRotate eases current toward target with the frame-rate independent
// factor 1-e^(-rate*dt), keeping the result wrapped.
func smoothRotate(current, target, rate, dt float64) float64 {
	diff := wrapAngle(target - current)
	t := 1 - math.Exp(-rate*dt)
	return wrapAngle(current + diff*t)
}

// wrapAngle normalizes an angle to (-pi, pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func clamp(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
