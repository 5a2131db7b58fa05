package xr

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Pose is a rigid transform: orientation then position.
type Pose struct {
	Orientation mgl32.Quat
	Position    mgl32.Vec3
}

// IdentityPose has unit orientation and zero position.
func IdentityPose() Pose {
	return Pose{Orientation: mgl32.QuatIdent()}
}

// Matrix returns the model matrix of the pose.
func (p Pose) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).Mul4(p.Orientation.Normalize().Mat4())
}

// ViewMatrix returns the inverse of Matrix, used as a camera matrix.
func (p Pose) ViewMatrix() mgl32.Mat4 {
	return p.Matrix().Inv()
}

// Mul composes p with child expressed in p's frame.
func (p Pose) Mul(child Pose) Pose {
	return Pose{
		Orientation: p.Orientation.Mul(child.Orientation),
		Position:    p.Position.Add(p.Orientation.Rotate(child.Position)),
	}
}

// Inverse returns the transform undoing p.
func (p Pose) Inverse() Pose {
	inv := p.Orientation.Conjugate()
	return Pose{Orientation: inv, Position: inv.Rotate(p.Position.Mul(-1))}
}

// Fovf holds the four half-angles of a view frustum in radians. Left and
// Down are normally negative.
type Fovf struct {
	AngleLeft  float32
	AngleRight float32
	AngleUp    float32
	AngleDown  float32
}

// SymmetricFov builds a frustum with equal horizontal and vertical half-angles.
func SymmetricFov(halfX, halfY float32) Fovf {
	return Fovf{AngleLeft: -halfX, AngleRight: halfX, AngleUp: halfY, AngleDown: -halfY}
}

// Projection returns an OpenGL-convention projection matrix for the frustum.
// A far plane <= near yields an infinite far plane.
func (f Fovf) Projection(near, far float32) mgl32.Mat4 {
	tanLeft := float32(math.Tan(float64(f.AngleLeft)))
	tanRight := float32(math.Tan(float64(f.AngleRight)))
	tanUp := float32(math.Tan(float64(f.AngleUp)))
	tanDown := float32(math.Tan(float64(f.AngleDown)))

	w := tanRight - tanLeft
	h := tanUp - tanDown

	var m mgl32.Mat4
	m[0] = 2 / w
	m[5] = 2 / h
	m[8] = (tanRight + tanLeft) / w
	m[9] = (tanUp + tanDown) / h
	m[11] = -1
	if far <= near {
		m[10] = -1
		m[14] = -2 * near
	} else {
		m[10] = -(far + near) / (far - near)
		m[14] = -(far * (near + near)) / (far - near)
	}
	return m
}
