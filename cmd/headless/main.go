package main

import (
	"flag"
	"fmt"
	"math"

	"github.com/RJETanjutcoII/sports-engine/internal/shared/logger"
	"github.com/RJETanjutcoII/sports-engine/internal/shared/types"
	"github.com/RJETanjutcoII/sports-engine/internal/simulation"
)

// Headless deterministic runner: a scripted striker chases the ball and
// shoots at the blue goal while both AI teams play. Identical seed, dt and
// duration always print the identical digest, which makes this the quickest
// way to catch a determinism regression.
func main() {
	seed := flag.Int64("seed", 1, "simulation seed")
	duration := flag.Float64("duration", 120, "simulated seconds to run")
	dt := flag.Float64("dt", 1.0/120.0, "fixed time step in seconds")
	flag.Parse()

	log := logger.New("headless")

	session := simulation.NewSession(simulation.SessionConfig{
		Bounds: simulation.DefaultFieldBounds(),
		Seed:   *seed,
		Log:    log,
	})

	ticks := int(*duration / *dt)
	log.Info("starting run", "seed", *seed, "dt", *dt, "ticks", ticks)

	for i := 0; i < ticks; i++ {
		state := session.Snapshot()
		session.ApplyInput(scriptedInput(state))
		session.Tick(*dt)

		for _, ev := range session.Snapshot().Events {
			if ev.Type == "goal" {
				log.Info("goal", "team", ev.Team, "sim_ms", ev.OccurredMS)
			}
		}
	}

	final := session.Snapshot()
	log.Info("run complete",
		"score_left", final.Score.Left,
		"score_right", final.Score.Right,
		"tick", final.Tick)
	fmt.Println(digest(final))
}

// scriptedInput steers the human player at the ball and kicks when close,
// playing as team 1's missing forward.
func scriptedInput(state types.SessionState) types.ControlInput {
	dx := state.Ball.Position.X - state.Player.Position.X
	dz := state.Ball.Position.Z - state.Player.Position.Z
	dist := math.Hypot(dx, dz)

	in := types.ControlInput{}
	if dist > 0.8 {
		in.MoveX = dx / dist
		in.MoveZ = dz / dist
		in.Sprint = dist > 6
	}
	if dist < 1.2 && !state.GoalScored {
		in.Kick = true
	}
	return in
}

// digest is a compact reproducible fingerprint of the final state.
func digest(s types.SessionState) string {
	return fmt.Sprintf("tick=%d score=%d-%d ball=%.3f,%.3f,%.3f player=%.3f,%.3f",
		s.Tick,
		s.Score.Left, s.Score.Right,
		s.Ball.Position.X, s.Ball.Position.Y, s.Ball.Position.Z,
		s.Player.Position.X, s.Player.Position.Z)
}
