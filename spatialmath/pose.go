// Package spatialmath defines the spatial primitives shared across the
// planning layers, poses expressed as a translation plus a unit quaternion
// orientation, and the solid geometries used for regions and collision
// objects.
package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/kavrakilab/robowflex-go/utils"
)

// Pose is a rigid transformation in 3D space, a point paired with an
// orientation quaternion. The zero orientation is the identity rotation.
type Pose struct {
	Point       r3.Vector
	Orientation quat.Number
}

// NewZeroPose returns the identity pose, no translation and no rotation.
func NewZeroPose() Pose {
	return Pose{Orientation: quat.Number{Real: 1}}
}

// NewPose returns a pose with the given translation and orientation. The
// orientation is normalized so downstream composition stays well behaved.
func NewPose(point r3.Vector, orientation quat.Number) Pose {
	return Pose{Point: point, Orientation: Normalize(orientation)}
}

// NewPoseFromPoint returns a pose at the given point with identity rotation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return Pose{Point: point, Orientation: quat.Number{Real: 1}}
}

// Compose returns the pose resulting from applying b within the frame of a.
func Compose(a, b Pose) Pose {
	return Pose{
		Point:       a.Point.Add(QuatRotate(a.Orientation, b.Point)),
		Orientation: Normalize(quat.Mul(a.Orientation, b.Orientation)),
	}
}

// Invert returns the pose that undoes p, so Compose(p, Invert(p)) is identity.
func Invert(p Pose) Pose {
	inv := quat.Conj(Normalize(p.Orientation))
	return Pose{
		Point:       QuatRotate(inv, p.Point.Mul(-1)),
		Orientation: inv,
	}
}

// QuatRotate rotates vector v by unit quaternion q.
func QuatRotate(q quat.Number, v r3.Vector) r3.Vector {
	vq := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, vq), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Normalize scales q to unit length. A degenerate all-zero quaternion
// normalizes to the identity rotation rather than propagating NaNs.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// PoseAlmostEqual returns whether two poses are within epsilon of each other
// in both translation and orientation.
func PoseAlmostEqual(a, b Pose, epsilon float64) bool {
	return a.Point.Sub(b.Point).Norm() < epsilon &&
		OrientationAlmostEqual(a.Orientation, b.Orientation, epsilon)
}

// OrientationAlmostEqual returns whether two orientations represent nearly
// the same rotation. Antipodal quaternions describe the same rotation and
// compare equal here.
func OrientationAlmostEqual(a, b quat.Number, epsilon float64) bool {
	a, b = Normalize(a), Normalize(b)
	dot := a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
	return utils.Float64AlmostEqual(dot*dot, 1, epsilon)
}
