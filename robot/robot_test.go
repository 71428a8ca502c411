package robot

import (
	"testing"

	"go.viam.com/test"
)

func r2Robot(t *testing.T) *Robot {
	t.Helper()
	m, err := UnmarshalModelJSON([]byte(r2ModelJSON), "")
	test.That(t, err, test.ShouldBeNil)
	return New(m)
}

func TestRobotGroupState(t *testing.T) {
	r := r2Robot(t)

	state, err := r.GroupState("left_leg")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, state, test.ShouldResemble, []float64{0, 0})

	test.That(t, r.SetGroupState("left_leg", []float64{0.5, -0.25}), test.ShouldBeNil)
	state, err = r.GroupState("left_leg")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, state, test.ShouldResemble, []float64{0.5, -0.25})

	err = r.SetGroupState("left_leg", []float64{1})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "wrong number of joint positions")

	_, err = r.GroupState("no_such_group")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRobotSetState(t *testing.T) {
	r := r2Robot(t)

	err := r.SetState(map[string]float64{"r2/waist": 1.5, "r2/torso_lift": 0.2})
	test.That(t, err, test.ShouldBeNil)

	state, err := r.GroupState("legsandtorso")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, state, test.ShouldResemble, []float64{0, 0, 0, 1.5})

	// unknown names reject the whole update
	err = r.SetState(map[string]float64{"r2/waist": 9, "bogus": 1})
	test.That(t, err, test.ShouldNotBeNil)
	state, err = r.GroupState("legsandtorso")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, state[3], test.ShouldEqual, 1.5)
}

func TestRobotStateVector(t *testing.T) {
	r := r2Robot(t)
	test.That(t, r.SetGroupState("legsandtorso", []float64{1, 2, 3, 4}), test.ShouldBeNil)

	vec := r.StateVector()
	test.That(t, r.Model().VariableCount(), test.ShouldEqual, 7+5)
	test.That(t, len(vec), test.ShouldEqual, r.Model().VariableCount())
	test.That(t, vec[:7], test.ShouldResemble, r.Model().VirtualBase().Values())
	test.That(t, vec[7:], test.ShouldResemble, []float64{1, 2, 3, 4, 0})
}

func TestRobotSnapshotRestore(t *testing.T) {
	r := r2Robot(t)
	test.That(t, r.SetGroupState("left_leg", []float64{0.1, 0.2}), test.ShouldBeNil)

	snap := r.Snapshot()
	test.That(t, r.SetGroupState("left_leg", []float64{5, 6}), test.ShouldBeNil)
	test.That(t, r.Restore(snap), test.ShouldBeNil)

	state, err := r.GroupState("left_leg")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, state, test.ShouldResemble, []float64{0.1, 0.2})

	test.That(t, r.Restore([]float64{1}), test.ShouldNotBeNil)
}

func TestModelWithoutVirtualBase(t *testing.T) {
	m, err := UnmarshalModelJSON([]byte(`{"name": "arm", "joints": [{"id": "j0", "min": -1, "max": 1}]}`), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.VirtualBase(), test.ShouldBeNil)

	r := New(m)
	test.That(t, r.StateVector(), test.ShouldResemble, []float64{0})
}
