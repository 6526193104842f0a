package types

import "github.com/go-gl/mathgl/mgl64"

// Vec3 represents a position or vector in world space. The field uses a
// Y-up coordinate system: X runs along the field length, Z along the width.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FromMgl converts an mgl64 vector into a wire vector.
func FromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// ToMgl converts a wire vector back into an mgl64 vector.
func (v Vec3) ToMgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// ControlInput is the per-frame control state for the human player.
// MoveX/MoveZ form the normalized ground-plane movement direction.
// Kick is edge-triggered: the session consumes it on the next tick.
type ControlInput struct {
	Sequence uint64  `json:"sequence"`
	MoveX    float64 `json:"move_x"` // -1..1
	MoveZ    float64 `json:"move_z"` // -1..1
	Sprint   bool    `json:"sprint"`
	Kick     bool    `json:"kick"`
	Spin     float64 `json:"spin"` // lateral spin applied on kick, rad/s
	ClientMS int64   `json:"client_ms"`
}

// BallSnapshot is the replicated ball state.
type BallSnapshot struct {
	Position        Vec3    `json:"position"`
	Velocity        Vec3    `json:"velocity"`
	AngularVelocity Vec3    `json:"angular_velocity"`
	RotationAngle   float64 `json:"rotation_angle"`
	InAir           bool    `json:"in_air"`
	OutOfBounds     bool    `json:"out_of_bounds"`
}

// PlayerSnapshot is the replicated human player state.
type PlayerSnapshot struct {
	Position      Vec3    `json:"position"`
	Velocity      Vec3    `json:"velocity"`
	Rotation      float64 `json:"rotation"`
	AnimationTime float64 `json:"animation_time"`
	IsKicking     bool    `json:"is_kicking"`
	KickTimer     float64 `json:"kick_timer"`
}

// AIPlayerSnapshot is the replicated state for one AI player.
type AIPlayerSnapshot struct {
	Position      Vec3    `json:"position"`
	Velocity      Vec3    `json:"velocity"`
	Rotation      float64 `json:"rotation"`
	AnimationTime float64 `json:"animation_time"`
	Team          int     `json:"team"` // 0 = red, 1 = blue
	Role          string  `json:"role"`
	State         string  `json:"state"`
	ClosestChaser bool    `json:"closest_chaser"`
}

// ScoreState tracks goals for both ends of the field.
type ScoreState struct {
	Left  int `json:"left"`  // goals in the negative-X goal, scored by team 1
	Right int `json:"right"` // goals in the positive-X goal, scored by team 0
}

// FieldConfig is the session field configuration, fixed at startup.
type FieldConfig struct {
	Length     float64 `json:"length"`
	Width      float64 `json:"width"`
	GoalWidth  float64 `json:"goal_width"`
	GoalHeight float64 `json:"goal_height"`
}

// SessionState is the full replicated simulation state.
type SessionState struct {
	Tick             uint64             `json:"tick"`
	Field            FieldConfig        `json:"field"`
	Ball             BallSnapshot       `json:"ball"`
	Player           PlayerSnapshot     `json:"player"`
	AIPlayers        []AIPlayerSnapshot `json:"ai_players"`
	Score            ScoreState         `json:"score"`
	GoalScored       bool               `json:"goal_scored"`
	LastScoringTeam  int                `json:"last_scoring_team"` // -1 when none
	CelebrationAlpha float64            `json:"celebration_alpha"`
	AIEnabled        bool               `json:"ai_enabled"`
	Events           []GameplayEvent    `json:"events"`
}

// GameplayEvent tracks state changes worth UI/audio feedback.
type GameplayEvent struct {
	Type       string `json:"type"` // goal|ball_reset|celebration_end
	Team       int    `json:"team"`
	OccurredMS int64  `json:"occurred_ms"`
}

// ClientEnvelope is sent from client to server.
type ClientEnvelope struct {
	Type  string        `json:"type"` // hello|input|ping|reset_ball|toggle_ai
	Input *ControlInput `json:"input,omitempty"`
}

// ServerEnvelope is sent from server to client.
type ServerEnvelope struct {
	Type     string        `json:"type"` // welcome|state|pong|error
	Tick     uint64        `json:"tick,omitempty"`
	State    *SessionState `json:"state,omitempty"`
	ServerMS int64         `json:"server_ms,omitempty"`
	Message  string        `json:"message,omitempty"`
	Role     string        `json:"role,omitempty"` // driver|spectator
}
