package xr

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b, eps float32) bool { return float32(math.Abs(float64(a-b))) <= eps }

func TestPose_InverseUndoesPose(t *testing.T) {
	p := Pose{
		Orientation: mgl32.QuatRotate(float32(math.Pi/2), mgl32.Vec3{0, 1, 0}),
		Position:    mgl32.Vec3{1, 2, 3},
	}
	id := p.Inverse().Mul(p)
	if !near(id.Position.Len(), 0, 1e-5) || !near(id.Orientation.W, 1, 1e-5) {
		t.Fatalf("inverse * pose = %+v", id)
	}

	v := p.ViewMatrix().Mul4x1(p.Matrix().Mul4x1(mgl32.Vec4{0.5, 0.5, 0.5, 1}))
	if !near(v.X(), 0.5, 1e-5) || !near(v.Z(), 0.5, 1e-5) {
		t.Fatalf("view * model = %v", v)
	}
}

func TestPose_MulTranslatesInParentFrame(t *testing.T) {
	parent := Pose{
		Orientation: mgl32.QuatRotate(float32(math.Pi/2), mgl32.Vec3{0, 1, 0}),
		Position:    mgl32.Vec3{0, 1, 0},
	}
	child := Pose{Orientation: mgl32.QuatIdent(), Position: mgl32.Vec3{1, 0, 0}}
	got := parent.Mul(child).Position
	// +X rotated 90 degrees about +Y points at -Z.
	if !near(got.X(), 0, 1e-5) || !near(got.Y(), 1, 1e-5) || !near(got.Z(), -1, 1e-5) {
		t.Fatalf("position=%v want [0 1 -1]", got)
	}
}

func TestFov_SymmetricProjectionMatchesPerspective(t *testing.T) {
	half := float32(math.Pi / 4)
	got := SymmetricFov(half, half).Projection(0.1, 100)
	want := mgl32.Perspective(2*half, 1, 0.1, 100)
	for i := range got {
		if !near(got[i], want[i], 1e-4) {
			t.Fatalf("element %d = %v want %v", i, got[i], want[i])
		}
	}
}

func TestFov_InfiniteFarPlane(t *testing.T) {
	m := SymmetricFov(0.5, 0.5).Projection(0.1, 0)
	if m[10] != -1 || !near(m[14], -0.2, 1e-6) {
		t.Fatalf("m[10]=%v m[14]=%v", m[10], m[14])
	}
}
