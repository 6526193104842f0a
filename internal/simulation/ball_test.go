package simulation

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestKickNormalizesDirection(t *testing.T) {
	b := NewBall()
	b.Kick(mgl64.Vec3{10, 0, 0}, 15, 2, -1)

	if math.Abs(b.Velocity().Len()-15) > 1e-9 {
		t.Fatalf("kick speed should equal power, got %f", b.Velocity().Len())
	}
	if b.Velocity().X() <= 0 {
		t.Fatalf("kick should point along +X, got %v", b.Velocity())
	}
	spin := b.State().AngularVelocity
	if spin.X() != -1 || spin.Y() != 2 || spin.Z() != 0 {
		t.Fatalf("unexpected spin %v", spin)
	}
}

func TestKickDegenerateDirectionIsNoOp(t *testing.T) {
	b := NewBall()
	b.SetVelocity(mgl64.Vec3{1, 0, 0})
	b.Kick(mgl64.Vec3{}, 15, 0, 0)

	if b.Velocity().X() != 1 {
		t.Fatalf("zero-direction kick must not change velocity, got %v", b.Velocity())
	}
}

func TestPushAccumulatesVelocity(t *testing.T) {
	b := NewBall()
	b.SetVelocity(mgl64.Vec3{1, 0, 0})
	b.Push(mgl64.Vec3{1, 0, 0}, 2)

	if b.Velocity().X() != 3 {
		t.Fatalf("push should add to velocity, got %v", b.Velocity())
	}
}

func TestBallResetReturnsToCenter(t *testing.T) {
	b := NewBall()
	b.Kick(mgl64.Vec3{1, 1, 1}, 20, 5, 5)
	b.SetPosition(mgl64.Vec3{30, 4, -10})
	b.Reset()

	want := mgl64.Vec3{0, 0.5, 0}
	if b.Position() != want {
		t.Fatalf("expected reset position %v, got %v", want, b.Position())
	}
	if b.Velocity().Len() != 0 || b.State().AngularVelocity.Len() != 0 {
		t.Fatal("reset must zero all motion")
	}
}
