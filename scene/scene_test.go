package scene

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"github.com/kavrakilab/robowflex-go/spatialmath"
)

func mustBox(t *testing.T, x, y, z float64) spatialmath.Geometry {
	t.Helper()
	box, err := spatialmath.NewBox(r3.Vector{X: x, Y: y, Z: z}, "")
	test.That(t, err, test.ShouldBeNil)
	return box
}

func TestSceneAdd(t *testing.T) {
	s := New()
	box := mustBox(t, 1, 1, 1)

	err := s.Add(Object{Name: "table", Geometry: box, Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: 1})})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Objects(), test.ShouldResemble, []string{"table"})

	// parent defaults to World
	obj, err := s.Object("table")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, obj.Parent, test.ShouldEqual, World)

	test.That(t, s.Add(Object{Name: "table", Geometry: box}), test.ShouldNotBeNil)
	test.That(t, s.Add(Object{Name: "", Geometry: box}), test.ShouldNotBeNil)
	test.That(t, s.Add(Object{Name: World, Geometry: box}), test.ShouldNotBeNil)
	test.That(t, s.Add(Object{Name: "cup", Geometry: box, Parent: "missing"}), test.ShouldNotBeNil)
}

func TestScenePoseComposition(t *testing.T) {
	s := New()
	box := mustBox(t, 1, 1, 1)

	// table at x=1, rotated 90 degrees about Z
	sq := math.Sqrt2 / 2
	tablePose := spatialmath.NewPose(r3.Vector{X: 1}, quat.Number{Real: sq, Kmag: sq})
	test.That(t, s.Add(Object{Name: "table", Geometry: box, Pose: tablePose}), test.ShouldBeNil)

	// cup one unit along the table's local X, which points along world Y
	test.That(t, s.Add(Object{
		Name: "cup", Geometry: box, Parent: "table",
		Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: 1}),
	}), test.ShouldBeNil)

	pose, err := s.Pose("cup")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Point.X, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, pose.Point.Y, test.ShouldAlmostEqual, 1, 1e-9)

	direct := spatialmath.Compose(tablePose, spatialmath.NewPoseFromPoint(r3.Vector{X: 1}))
	test.That(t, spatialmath.PoseAlmostEqual(pose, direct, 1e-9), test.ShouldBeTrue)

	_, err = s.Pose("missing")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSceneAttachDetach(t *testing.T) {
	s := New()
	box := mustBox(t, 1, 1, 1)

	test.That(t, s.Add(Object{Name: "gripper", Geometry: box, Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: 2, Y: 1})}), test.ShouldBeNil)
	test.That(t, s.Add(Object{Name: "cup", Geometry: box, Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: 2, Y: 2})}), test.ShouldBeNil)

	before, err := s.Pose("cup")
	test.That(t, err, test.ShouldBeNil)

	// attaching preserves the world pose while changing the parent
	test.That(t, s.Attach("cup", "gripper"), test.ShouldBeNil)
	obj, err := s.Object("cup")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, obj.Parent, test.ShouldEqual, "gripper")

	after, err := s.Pose("cup")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(before, after, 1e-9), test.ShouldBeTrue)
	test.That(t, obj.Pose.Point.Y, test.ShouldAlmostEqual, 1, 1e-9)

	test.That(t, s.Detach("cup"), test.ShouldBeNil)
	obj, err = s.Object("cup")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, obj.Parent, test.ShouldEqual, World)
	after, err = s.Pose("cup")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(before, after, 1e-9), test.ShouldBeTrue)

	// cycles are rejected
	test.That(t, s.Attach("cup", "gripper"), test.ShouldBeNil)
	test.That(t, s.Attach("gripper", "cup"), test.ShouldNotBeNil)
	test.That(t, s.Attach("missing", "gripper"), test.ShouldNotBeNil)
}

func TestSceneRemove(t *testing.T) {
	s := New()
	box := mustBox(t, 1, 1, 1)

	test.That(t, s.Add(Object{Name: "tray", Geometry: box, Pose: spatialmath.NewPoseFromPoint(r3.Vector{Z: 1})}), test.ShouldBeNil)
	test.That(t, s.Add(Object{Name: "cup", Geometry: box, Parent: "tray", Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: 0.1})}), test.ShouldBeNil)

	worldPose, err := s.Pose("cup")
	test.That(t, err, test.ShouldBeNil)

	test.That(t, s.Remove("tray"), test.ShouldBeNil)
	test.That(t, s.Objects(), test.ShouldResemble, []string{"cup"})

	obj, err := s.Object("cup")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, obj.Parent, test.ShouldEqual, World)
	test.That(t, spatialmath.PoseAlmostEqual(obj.Pose, worldPose, 1e-9), test.ShouldBeTrue)

	test.That(t, s.Remove("tray"), test.ShouldNotBeNil)
}

func TestSceneClone(t *testing.T) {
	s := New()
	box := mustBox(t, 1, 1, 1)
	test.That(t, s.Add(Object{Name: "table", Geometry: box}), test.ShouldBeNil)

	clone := s.Clone()
	test.That(t, clone.Objects(), test.ShouldResemble, []string{"table"})

	// mutating the clone leaves the original alone
	test.That(t, clone.Add(Object{Name: "cup", Geometry: box, Parent: "table"}), test.ShouldBeNil)
	test.That(t, s.Objects(), test.ShouldResemble, []string{"table"})
}
