package simulation

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// AIManager owns both AI rosters and coordinates team behavior: chaser
// election, per-player updates, and collision resolution.
type AIManager struct {
	Players []*AIPlayer
}

// NewAIManager builds the two fixed rosters mirrored across the center line.
// Team 0 fields a full six (keeper, two defenders, two midfielders, forward);
// team 1 omits its forward because the human player occupies that role.
func NewAIManager(rng *rand.Rand) *AIManager {
	m := &AIManager{}

	add := func(home mgl64.Vec3, team int, role Role) {
		m.Players = append(m.Players, NewAIPlayer(home, team, role, rng))
	}

	// Red team (0), attacks the positive-X goal.
	add(mgl64.Vec3{-45, 0, 0}, 0, RoleGoalkeeper)
	add(mgl64.Vec3{-35, 0, -12}, 0, RoleDefender)
	add(mgl64.Vec3{-35, 0, 12}, 0, RoleDefender)
	add(mgl64.Vec3{-15, 0, -15}, 0, RoleMidfielder)
	add(mgl64.Vec3{-15, 0, 15}, 0, RoleMidfielder)
	add(mgl64.Vec3{-5, 0, 0}, 0, RoleForward)

	// Blue team (1), attacks the negative-X goal.
	add(mgl64.Vec3{45, 0, 0}, 1, RoleGoalkeeper)
	add(mgl64.Vec3{35, 0, -12}, 1, RoleDefender)
	add(mgl64.Vec3{35, 0, 12}, 1, RoleDefender)
	add(mgl64.Vec3{15, 0, -15}, 1, RoleMidfielder)
	add(mgl64.Vec3{15, 0, 15}, 1, RoleMidfielder)

	return m
}

// Update runs one frame of team coordination: elect chasers, advance every
// AI player, then resolve collisions.
func (m *AIManager) Update(dt float64, ball *Ball, playerPos mgl64.Vec3, bounds FieldBounds) {
	m.FindClosestChasers(ball.Position())

	for _, ai := range m.Players {
		ai.Update(dt, ball, bounds)
	}

	m.handleCollisions(ball, playerPos)
}

// FindClosestChasers marks, per team, the single outfield player nearest the
// ball. Goalkeepers never receive chase duty.
func (m *AIManager) FindClosestChasers(ballPos mgl64.Vec3) {
	closest := [2]*AIPlayer{}
	closestDist := [2]float64{}

	for _, ai := range m.Players {
		if ai.Role == RoleGoalkeeper {
			continue
		}
		dist := ai.DistanceToBall(ballPos)
		if closest[ai.Team] == nil || dist < closestDist[ai.Team] {
			closest[ai.Team] = ai
			closestDist[ai.Team] = dist
		}
	}

	for _, ai := range m.Players {
		ai.IsClosestChaser = ai == closest[0] || ai == closest[1]
	}
}

// handleCollisions resolves, in order: each AI against the ball, each AI
// against the human player, then every AI pair. O(n^2) on a roster of eleven.
func (m *AIManager) handleCollisions(ball *Ball, playerPos mgl64.Vec3) {
	for _, ai := range m.Players {
		ai.HandleBallCollision(ball)
		ai.HandlePlayerCollision(playerPos)
	}

	for i := 0; i < len(m.Players); i++ {
		for j := i + 1; j < len(m.Players); j++ {
			m.Players[i].HandleAICollision(m.Players[j])
		}
	}
}
