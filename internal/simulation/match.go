package simulation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CelebrationDuration is the pause after a goal before play resumes.
const CelebrationDuration = 3.0

// Match tracks score, the goal/celebration state machine, and the ball's
// field-boundary collision response.
type Match struct {
	bounds FieldBounds

	scoreLeft  int // goals in the negative-X goal, scored by team 1
	scoreRight int // goals in the positive-X goal, scored by team 0

	goalScored       bool
	celebrationTimer float64
	lastScoringTeam  int // -1 when no goal has been scored yet
}

// NewMatch creates a match over the given field.
func NewMatch(bounds FieldBounds) *Match {
	return &Match{bounds: bounds, lastScoringTeam: -1}
}

// Update advances the goal state machine: during a celebration the timer
// counts down and goal checks are suppressed; otherwise the ball position is
// checked against both goals.
func (m *Match) Update(dt float64, ball *Ball) {
	if m.goalScored {
		m.celebrationTimer -= dt
		if m.celebrationTimer <= 0 {
			m.ResetAfterGoal(ball)
		}
		return
	}
	m.CheckGoal(ball.Position())
}

// Reset clears scores and goal state. Manual only; scoring a goal never
// resets the scoreboard.
func (m *Match) Reset() {
	m.scoreLeft = 0
	m.scoreRight = 0
	m.goalScored = false
	m.celebrationTimer = 0
	m.lastScoringTeam = -1
}

// CheckGoal fires when the ball has fully crossed an end line inside the
// goal aperture. Idempotent while a goal is already flagged, so one crossing
// cannot score twice.
func (m *Match) CheckGoal(ballPos mgl64.Vec3) bool {
	if m.goalScored {
		return false
	}

	goalLineX := m.bounds.Length / 2
	inGoalZ := math.Abs(ballPos.Z()) < m.bounds.GoalWidth/2
	inGoalY := ballPos.Y() > 0 && ballPos.Y() < m.bounds.GoalHeight
	if !inGoalZ || !inGoalY {
		return false
	}

	switch {
	case ballPos.X() > goalLineX+BallRadius:
		// Red team scores in the positive-X goal.
		m.scoreRight++
		m.lastScoringTeam = 0
	case ballPos.X() < -goalLineX-BallRadius:
		// Blue team scores in the negative-X goal.
		m.scoreLeft++
		m.lastScoringTeam = 1
	default:
		return false
	}

	m.goalScored = true
	m.celebrationTimer = CelebrationDuration
	return true
}

// ResetAfterGoal returns the ball to center field and resumes play. Scores
// persist.
func (m *Match) ResetAfterGoal(ball *Ball) {
	ball.Reset()
	m.goalScored = false
	m.celebrationTimer = 0
}

func (m *Match) ScoreLeft() int            { return m.scoreLeft }
func (m *Match) ScoreRight() int           { return m.scoreRight }
func (m *Match) IsGoalScored() bool        { return m.goalScored }
func (m *Match) CelebrationTimer() float64 { return m.celebrationTimer }
func (m *Match) LastScoringTeam() int      { return m.lastScoringTeam }

// CelebrationAlpha is the goal-banner fade: in over the first half second,
// hold at one, out over the final second.
func (m *Match) CelebrationAlpha() float64 {
	if !m.goalScored || m.celebrationTimer <= 0 {
		return 0
	}
	switch {
	case m.celebrationTimer > CelebrationDuration-0.5:
		return (CelebrationDuration - m.celebrationTimer) * 2
	case m.celebrationTimer < 1:
		return m.celebrationTimer
	default:
		return 1
	}
}

// IsBallOutOfBounds reports whether the ball has left the field other than
// through a goal aperture. Exposed for external respawn policies; the match
// itself never acts on it.
func (m *Match) IsBallOutOfBounds(ballPos mgl64.Vec3) bool {
	halfLength := m.bounds.Length / 2
	halfWidth := m.bounds.Width / 2

	if math.Abs(ballPos.Z()) > halfWidth {
		return true
	}
	if math.Abs(ballPos.X()) > halfLength {
		inGoalArea := math.Abs(ballPos.Z()) < m.bounds.GoalWidth/2 &&
			ballPos.Y() < m.bounds.GoalHeight
		if !inGoalArea {
			return true
		}
	}
	return false
}

// HandleBoundaryCollision reflects the ball off the side lines always, and
// off the end lines only outside the goal aperture. Runs every tick,
// including during a celebration, so the ball stays physically contained
// while scoring logic is paused.
func (m *Match) HandleBoundaryCollision(ball *Ball) {
	st := ball.State()
	halfLength := m.bounds.Length / 2
	halfWidth := m.bounds.Width / 2

	// Side lines (Z axis).
	if st.Position.Z() < -halfWidth+BallRadius {
		st.Position[2] = -halfWidth + BallRadius
		st.Velocity[2] = math.Abs(st.Velocity.Z()) * 0.6
	} else if st.Position.Z() > halfWidth-BallRadius {
		st.Position[2] = halfWidth - BallRadius
		st.Velocity[2] = -math.Abs(st.Velocity.Z()) * 0.6
	}

	// End lines (X axis), skipped inside the goal mouth.
	inGoalArea := math.Abs(st.Position.Z()) < m.bounds.GoalWidth/2 &&
		st.Position.Y() < m.bounds.GoalHeight
	if inGoalArea {
		return
	}
	if st.Position.X() < -halfLength+BallRadius {
		st.Position[0] = -halfLength + BallRadius
		st.Velocity[0] = math.Abs(st.Velocity.X()) * 0.6
	} else if st.Position.X() > halfLength-BallRadius {
		st.Position[0] = halfLength - BallRadius
		st.Velocity[0] = -math.Abs(st.Velocity.X()) * 0.6
	}
}
