package simulation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestPlayerAcceleratesToMaxSpeed(t *testing.T) {
	p := NewPlayer(testRNG())
	bounds := DefaultFieldBounds()

	p.SetMovementInput(mgl64.Vec3{0, 0, -1}, false)
	for i := 0; i < 120; i++ {
		p.Update(1.0/120.0, bounds)
	}
	if math.Abs(p.Speed()-PlayerMaxSpeed) > 1e-6 {
		t.Fatalf("expected max speed %f, got %f", PlayerMaxSpeed, p.Speed())
	}

	p.SetMovementInput(mgl64.Vec3{0, 0, -1}, true)
	for i := 0; i < 120; i++ {
		p.Update(1.0/120.0, bounds)
	}
	if math.Abs(p.Speed()-PlayerSprintSpeed) > 1e-6 {
		t.Fatalf("expected sprint speed %f, got %f", PlayerSprintSpeed, p.Speed())
	}
}

func TestPlayerDeceleratesToRest(t *testing.T) {
	p := NewPlayer(testRNG())
	bounds := DefaultFieldBounds()
	p.Velocity = mgl64.Vec3{6, 0, 0}

	p.SetMovementInput(mgl64.Vec3{}, false)
	for i := 0; i < 120; i++ {
		p.Update(1.0/120.0, bounds)
	}
	if p.Speed() != 0 {
		t.Fatalf("expected rest, speed=%f", p.Speed())
	}
}

func TestRotationStaysWrapped(t *testing.T) {
	p := NewPlayer(testRNG())
	bounds := DefaultFieldBounds()

	for _, target := range []float64{10, -10, 3 * math.Pi, -7.5, math.Pi} {
		p.SetTargetRotation(target)
		for i := 0; i < 240; i++ {
			p.Update(1.0/120.0, bounds)
			if p.Rotation <= -math.Pi || p.Rotation > math.Pi {
				t.Fatalf("rotation %f escaped (-pi, pi] for target %f", p.Rotation, target)
			}
		}
	}
}

func TestRotationConvergesToTarget(t *testing.T) {
	p := NewPlayer(testRNG())
	bounds := DefaultFieldBounds()

	target := -math.Pi / 2
	p.SetTargetRotation(target)
	for i := 0; i < 240; i++ {
		p.Update(1.0/120.0, bounds)
	}
	if math.Abs(wrapAngle(p.Rotation-target)) > 0.01 {
		t.Fatalf("rotation %f did not converge to %f", p.Rotation, target)
	}
}

func TestKickOutOfRangeFails(t *testing.T) {
	p := NewPlayer(testRNG())
	ball := NewBall()
	ball.SetPosition(mgl64.Vec3{0, BallRadius, -20})

	if p.TryKick(ball, false, 0) {
		t.Fatal("kick should fail out of range")
	}
	if ball.Velocity().Len() != 0 {
		t.Fatalf("failed kick must not move the ball, got %v", ball.Velocity())
	}
}

func TestKickSetsVelocityAndAnimation(t *testing.T) {
	p := NewPlayer(testRNG())
	p.Position = mgl64.Vec3{0, 0, 0}
	p.Rotation = -math.Pi / 2 // facing +X

	ball := NewBall()
	ball.SetPosition(mgl64.Vec3{1, BallRadius, 0})

	if !p.TryKick(ball, false, 0) {
		t.Fatal("kick in range should succeed")
	}

	vel := ball.Velocity()
	if vel.X() <= 0 || vel.Y() <= 0 {
		t.Fatalf("expected forward and lofted velocity, got %v", vel)
	}
	if math.Abs(vel.Len()-KickPowerNormal) > 1e-9 {
		t.Fatalf("kick speed should equal power %f, got %f", KickPowerNormal, vel.Len())
	}
	if !p.IsKicking() || p.KickTimer() != kickAnimDuration {
		t.Fatalf("kick animation not started: kicking=%v timer=%f", p.IsKicking(), p.KickTimer())
	}
}

func TestSprintKickAddsTopspin(t *testing.T) {
	p := NewPlayer(testRNG())
	p.Position = mgl64.Vec3{0, 0, 0}
	ball := NewBall()
	ball.SetPosition(mgl64.Vec3{0, BallRadius, -1})

	if !p.TryKick(ball, true, 0) {
		t.Fatal("kick should succeed")
	}
	if math.Abs(ball.Velocity().Len()-KickPowerSprint) > 1e-9 {
		t.Fatalf("expected sprint power %f, got %f", KickPowerSprint, ball.Velocity().Len())
	}
	if ball.State().AngularVelocity.X() != SprintTopspin {
		t.Fatalf("expected topspin %f, got %f", SprintTopspin, ball.State().AngularVelocity.X())
	}
}

func TestDribbleCapsBallSpeed(t *testing.T) {
	p := NewPlayer(testRNG())
	p.Position = mgl64.Vec3{0, 0, 0}
	p.Velocity = mgl64.Vec3{0, 0, -PlayerMaxSpeed} // moving toward -Z, facing -Z by default

	ball := NewBall()
	ball.SetPosition(mgl64.Vec3{0, BallRadius, -0.9})
	ball.SetVelocity(mgl64.Vec3{0, 0, -40})

	p.HandleBallCollision(ball, 1.0/120.0)

	groundSpeed := math.Hypot(ball.Velocity().X(), ball.Velocity().Z())
	speedCap := p.Speed() * dribbleSpeedCap
	if groundSpeed > speedCap+1e-9 {
		t.Fatalf("dribbled ball speed %f exceeds cap %f", groundSpeed, speedCap)
	}
}

func TestDribbleIgnoresBallBehind(t *testing.T) {
	p := NewPlayer(testRNG())
	p.Position = mgl64.Vec3{0, 0, 0}
	p.Velocity = mgl64.Vec3{0, 0, -PlayerMaxSpeed}

	// Directly behind the facing direction and outside the contact ring.
	ball := NewBall()
	ball.SetPosition(mgl64.Vec3{0, BallRadius, 1.0})

	p.HandleBallCollision(ball, 1.0/120.0)
	if ball.Velocity().Len() != 0 {
		t.Fatalf("ball behind the player must not be dribbled, got %v", ball.Velocity())
	}
}

func TestHardCollisionPushesBallOut(t *testing.T) {
	p := NewPlayer(testRNG())
	p.Position = mgl64.Vec3{0, 0, 0}

	ball := NewBall()
	ball.SetPosition(mgl64.Vec3{0.2, BallRadius, 0})

	p.HandleBallCollision(ball, 1.0/120.0)

	dist := math.Hypot(ball.Position().X(), ball.Position().Z())
	if dist < PlayerRadius+BallRadius-1e-9 {
		t.Fatalf("ball still overlapping after push-out, dist=%f", dist)
	}
}

func TestPlayerClampedToField(t *testing.T) {
	p := NewPlayer(testRNG())
	bounds := DefaultFieldBounds()
	p.Position = mgl64.Vec3{1000, 0, -1000}

	p.Update(1.0/120.0, bounds)

	if p.Position.X() > bounds.Length/2-fieldInset || p.Position.Z() < -(bounds.Width/2-fieldInset) {
		t.Fatalf("player escaped field clamp: %v", p.Position)
	}
}

func TestDribbleTouchCadenceIsDeterministic(t *testing.T) {
	run := func() mgl64.Vec3 {
		p := NewPlayer(rand.New(rand.NewSource(7)))
		p.Position = mgl64.Vec3{0, 0, 0}
		p.Velocity = mgl64.Vec3{0, 0, -6}
		ball := NewBall()
		ball.SetPosition(mgl64.Vec3{0, BallRadius, -0.8})
		for i := 0; i < 120; i++ {
			p.HandleBallCollision(ball, 1.0/120.0)
		}
		return ball.Velocity()
	}

	if run() != run() {
		t.Fatal("identical seeds must produce identical dribble outcomes")
	}
}
