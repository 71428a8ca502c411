package motionplan

import (
	"strings"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"github.com/kavrakilab/robowflex-go/robot"
	"github.com/kavrakilab/robowflex-go/spatialmath"
)

// DefaultConfig is the planner config sought out by substring match when a
// request is first built.
const DefaultConfig = "RRTConnect"

// DefaultAllowedPlanningTime bounds a single planning call unless overridden.
const DefaultAllowedPlanningTime = 5 * time.Second

// half-extent of the default axis-aligned workspace, meters
const defaultWorkspaceBound = 1.0

// WorkspaceParameters is the axis-aligned box the planner may move through.
type WorkspaceParameters struct {
	MinCorner r3.Vector
	MaxCorner r3.Vector
}

// JointConstraint pins a single named joint to a position at the goal.
type JointConstraint struct {
	JointName string
	Position  float64
}

// PositionConstraint confines a link to a geometric region placed relative
// to a base frame.
type PositionConstraint struct {
	LinkName string
	BaseName string
	Target   spatialmath.Pose
	Region   spatialmath.Geometry
}

// OrientationConstraint holds a link near an orientation, within per-axis
// angular tolerances.
type OrientationConstraint struct {
	LinkName    string
	BaseName    string
	Orientation quat.Number
	Tolerances  r3.Vector
}

// Constraints is one goal alternative: either a set of joint constraints or
// a workspace region with an orientation.
type Constraints struct {
	Joints      []JointConstraint
	Position    *PositionConstraint
	Orientation *OrientationConstraint
}

// Request is a single motion planning problem. It is deliberately mutable:
// sequential planning rewrites the start configuration and goal constraints
// between calls while everything else carries over.
type Request struct {
	GroupName           string
	Workspace           WorkspaceParameters
	AllowedPlanningTime time.Duration
	PlannerID           string

	// StartConfiguration is the robot's full variable vector, virtual base
	// values first when the model has one.
	StartConfiguration []Input

	// GoalConstraints holds the active goal alternatives. The builder's goal
	// setters replace the whole list.
	GoalConstraints []Constraints

	// Extra carries engine-specific parameters opaque to this layer.
	Extra map[string]interface{}
}

// RequestBuilder assembles and mutates a Request for one robot joint group.
// The builder hands out a single Request value so successive planning calls
// observe each mutation.
type RequestBuilder struct {
	planner    Planner
	robot      *robot.Robot
	groupName  string
	jointNames []string
	req        *Request
}

// NewRequestBuilder returns a builder for the named joint group, seeded with
// the default workspace, the default allowed planning time, and the first
// advertised planner config matching DefaultConfig if there is one.
func NewRequestBuilder(planner Planner, groupName string) (*RequestBuilder, error) {
	r := planner.Robot()
	jointNames, err := r.Model().Group(groupName)
	if err != nil {
		return nil, err
	}

	req := &Request{
		GroupName: groupName,
		Workspace: WorkspaceParameters{
			MinCorner: r3.Vector{X: -defaultWorkspaceBound, Y: -defaultWorkspaceBound, Z: -defaultWorkspaceBound},
			MaxCorner: r3.Vector{X: defaultWorkspaceBound, Y: defaultWorkspaceBound, Z: defaultWorkspaceBound},
		},
		AllowedPlanningTime: DefaultAllowedPlanningTime,
		Extra:               map[string]interface{}{},
	}

	for _, config := range planner.PlannerConfigs() {
		if strings.Contains(config, DefaultConfig) {
			req.PlannerID = config
			break
		}
	}

	return &RequestBuilder{
		planner:    planner,
		robot:      r,
		groupName:  groupName,
		jointNames: jointNames,
		req:        req,
	}, nil
}

// Request returns the builder's one mutable request.
func (b *RequestBuilder) Request() *Request {
	return b.req
}

// GroupJointNames returns the ordered joint names of the builder's group.
func (b *RequestBuilder) GroupJointNames() []string {
	out := make([]string, len(b.jointNames))
	copy(out, b.jointNames)
	return out
}

// SetWorkspaceBounds replaces the workspace box.
func (b *RequestBuilder) SetWorkspaceBounds(wp WorkspaceParameters) {
	b.req.Workspace = wp
}

// SetAllowedPlanningTime replaces the planning time budget.
func (b *RequestBuilder) SetAllowedPlanningTime(d time.Duration) {
	b.req.AllowedPlanningTime = d
}

// SetConfig selects the first advertised planner config containing the
// requested name and errors when none matches.
func (b *RequestBuilder) SetConfig(requested string) error {
	for _, config := range b.planner.PlannerConfigs() {
		if strings.Contains(config, requested) {
			b.req.PlannerID = config
			return nil
		}
	}
	return errors.Errorf("no planner config matching %q", requested)
}

// SetStartConfiguration replaces the start state with the given full
// variable vector (virtual base values first when the model has one).
func (b *RequestBuilder) SetStartConfiguration(values []float64) error {
	if expected := b.robot.Model().VariableCount(); len(values) != expected {
		return robot.NewIncorrectDoFError(len(values), expected)
	}
	b.req.StartConfiguration = FloatsToInputs(values)
	return nil
}

// SetGoalConfiguration replaces all goal constraints with a joint-space goal
// for the group.
func (b *RequestBuilder) SetGoalConfiguration(values []float64) error {
	if len(values) != len(b.jointNames) {
		return robot.NewIncorrectDoFError(len(values), len(b.jointNames))
	}
	joints := make([]JointConstraint, len(values))
	for i, name := range b.jointNames {
		joints[i] = JointConstraint{JointName: name, Position: values[i]}
	}
	b.req.GoalConstraints = []Constraints{{Joints: joints}}
	return nil
}

// SetGoalRegion replaces all goal constraints with a workspace goal: the
// named end-effector link must reach the geometric region placed at the
// given pose relative to the base frame, holding the given orientation
// within per-axis angular tolerances.
func (b *RequestBuilder) SetGoalRegion(
	eeName, baseName string,
	pose spatialmath.Pose,
	region spatialmath.Geometry,
	orientation quat.Number,
	tolerances r3.Vector,
) {
	b.req.GoalConstraints = []Constraints{{
		Position: &PositionConstraint{
			LinkName: eeName,
			BaseName: baseName,
			Target:   pose,
			Region:   region,
		},
		Orientation: &OrientationConstraint{
			LinkName:    eeName,
			BaseName:    baseName,
			Orientation: orientation,
			Tolerances:  tolerances,
		},
	}}
}

// SetExtra records an engine-specific parameter on the request.
func (b *RequestBuilder) SetExtra(key string, value interface{}) {
	b.req.Extra[key] = value
}
