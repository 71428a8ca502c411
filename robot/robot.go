// Package robot describes the planning-side view of a robot: named joints
// with limits, ordered joint groups, an optional virtual base transform, and
// a mutable scratch state used to chain sequential planning calls.
package robot

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"github.com/kavrakilab/robowflex-go/spatialmath"
)

// Limit represents the bounds of a joint's travel.
type Limit struct {
	Min float64
	Max float64
}

// Joint is a single named articulation of a model.
type Joint struct {
	Name  string
	Type  string
	Limit Limit
}

// Supported joint types.
const (
	JointRevolute   = "revolute"
	JointPrismatic  = "prismatic"
	JointContinuous = "continuous"
)

// VirtualBase is the un-actuated transform between the world and the model
// root. Its seven values prefix the full state vector but are not joints and
// never move during planning.
type VirtualBase struct {
	Name        string
	Translation r3.Vector
	Quaternion  quat.Number
}

// Values returns the base transform as the seven-element slice that prefixes
// the full state vector: translation x, y, z then quaternion x, y, z, w. The
// values are returned exactly as configured, without normalization.
func (vb *VirtualBase) Values() []float64 {
	return []float64{
		vb.Translation.X, vb.Translation.Y, vb.Translation.Z,
		vb.Quaternion.Imag, vb.Quaternion.Jmag, vb.Quaternion.Kmag, vb.Quaternion.Real,
	}
}

// Pose returns the base transform as a pose with a normalized orientation.
func (vb *VirtualBase) Pose() spatialmath.Pose {
	return spatialmath.NewPose(vb.Translation, vb.Quaternion)
}

// Model is the static description of a robot. Models are immutable once
// parsed; mutable state lives on Robot.
type Model struct {
	name   string
	joints []Joint
	index  map[string]int
	groups map[string][]string
	base   *VirtualBase
}

// Name returns the model's name.
func (m *Model) Name() string {
	return m.name
}

// Joints returns the model's joints in model order.
func (m *Model) Joints() []Joint {
	out := make([]Joint, len(m.joints))
	copy(out, m.joints)
	return out
}

// JointNames returns the names of all joints in model order.
func (m *Model) JointNames() []string {
	names := make([]string, len(m.joints))
	for i, j := range m.joints {
		names[i] = j.Name
	}
	return names
}

// Group returns the ordered joint names of the named group.
func (m *Model) Group(group string) ([]string, error) {
	names, ok := m.groups[group]
	if !ok {
		return nil, NewGroupNotFoundError(group, m.name)
	}
	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}

// DoF returns the number of joints in the named group.
func (m *Model) DoF(group string) (int, error) {
	names, ok := m.groups[group]
	if !ok {
		return 0, NewGroupNotFoundError(group, m.name)
	}
	return len(names), nil
}

// Limits returns the joint limits of the named group in group order.
func (m *Model) Limits(group string) ([]Limit, error) {
	names, ok := m.groups[group]
	if !ok {
		return nil, NewGroupNotFoundError(group, m.name)
	}
	limits := make([]Limit, len(names))
	for i, name := range names {
		limits[i] = m.joints[m.index[name]].Limit
	}
	return limits, nil
}

// VirtualBase returns the model's virtual base, or nil if the model is fixed
// directly to the world.
func (m *Model) VirtualBase() *VirtualBase {
	return m.base
}

// VariableCount returns the length of the full state vector: one value per
// joint, plus seven for the virtual base when the model has one.
func (m *Model) VariableCount() int {
	n := len(m.joints)
	if m.base != nil {
		n += 7
	}
	return n
}

// Robot pairs a model with a mutable scratch state holding one value per
// joint. The state is what sequential planning reads back between sub-plans.
type Robot struct {
	model *Model
	state []float64
}

// New returns a robot for the given model with all joint values zeroed.
func New(model *Model) *Robot {
	return &Robot{model: model, state: make([]float64, len(model.joints))}
}

// Model returns the robot's model.
func (r *Robot) Model() *Model {
	return r.model
}

// SetState writes the named joint values into the scratch state. Joints not
// named keep their current values. Unknown names are an error and leave the
// state untouched.
func (r *Robot) SetState(values map[string]float64) error {
	for name := range values {
		if _, ok := r.model.index[name]; !ok {
			return NewUnknownJointError(name, r.model.name)
		}
	}
	for name, value := range values {
		r.state[r.model.index[name]] = value
	}
	return nil
}

// SetGroupState writes values for the named group's joints in group order.
func (r *Robot) SetGroupState(group string, values []float64) error {
	names, ok := r.model.groups[group]
	if !ok {
		return NewGroupNotFoundError(group, r.model.name)
	}
	if len(values) != len(names) {
		return NewIncorrectDoFError(len(values), len(names))
	}
	for i, name := range names {
		r.state[r.model.index[name]] = values[i]
	}
	return nil
}

// GroupState returns the named group's joint values in group order.
func (r *Robot) GroupState(group string) ([]float64, error) {
	names, ok := r.model.groups[group]
	if !ok {
		return nil, NewGroupNotFoundError(group, r.model.name)
	}
	out := make([]float64, len(names))
	for i, name := range names {
		out[i] = r.state[r.model.index[name]]
	}
	return out, nil
}

// StateVector returns the full ordered state: the virtual base's seven
// values first when the model has one, then every joint value in model order.
func (r *Robot) StateVector() []float64 {
	var out []float64
	if r.model.base != nil {
		out = append(out, r.model.base.Values()...)
	}
	return append(out, r.state...)
}

// Snapshot returns a copy of the joint state for later Restore.
func (r *Robot) Snapshot() []float64 {
	out := make([]float64, len(r.state))
	copy(out, r.state)
	return out
}

// Restore overwrites the joint state with a snapshot taken from this robot.
func (r *Robot) Restore(snapshot []float64) error {
	if len(snapshot) != len(r.state) {
		return NewIncorrectDoFError(len(snapshot), len(r.state))
	}
	copy(r.state, snapshot)
	return nil
}

// NewGroupNotFoundError returns an error for a joint group the model does
// not define.
func NewGroupNotFoundError(group, model string) error {
	return errors.Errorf("no joint group named %q in model %q", group, model)
}

// NewUnknownJointError returns an error for a joint name the model does not
// define.
func NewUnknownJointError(joint, model string) error {
	return errors.Errorf("no joint named %q in model %q", joint, model)
}

// NewIncorrectDoFError returns an error for a joint position slice whose
// length does not match the expected degrees of freedom.
func NewIncorrectDoFError(got, expected int) error {
	return errors.Errorf("wrong number of joint positions. Expected: %d Received: %d", expected, got)
}
