// Package fake provides a deterministic planning pipeline for tests and for
// embedding the planning layers without a real engine. Plans are straight
// joint-space interpolations between the request's start and goal.
package fake

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kavrakilab/robowflex-go/logging"
	"github.com/kavrakilab/robowflex-go/motionplan"
	"github.com/kavrakilab/robowflex-go/robot"
	"github.com/kavrakilab/robowflex-go/scene"
)

// ExtraFailKey, when set to true in a request's Extra map, fails that
// request with a planning failure.
const ExtraFailKey = "fake/fail"

// default number of waypoints in a produced trajectory
const defaultWaypointCount = 10

// Pipeline is a fake planning engine. It honors joint-space goals by linear
// interpolation and reports workspace region goals as planning failures.
// Not safe for concurrent use.
type Pipeline struct {
	robot  *robot.Robot
	logger logging.Logger

	// WaypointCount is the number of waypoints in produced trajectories.
	WaypointCount int
	// FailNextPlans fails this many upcoming calls before succeeding again.
	FailNextPlans int
}

// NewPipeline returns a fake pipeline for the given robot.
func NewPipeline(r *robot.Robot, logger logging.Logger) *Pipeline {
	return &Pipeline{robot: r, logger: logger, WaypointCount: defaultWaypointCount}
}

// NewConstructor returns a pipeline constructor producing fakes tuned from
// the assembled parameter map, for use with the OMPL pipeline planner.
func NewConstructor() motionplan.PipelineConstructor {
	return func(r *robot.Robot, params map[string]interface{}, logger logging.Logger) (motionplan.Pipeline, error) {
		settings, err := motionplan.OMPLSettingsFromParams(params)
		if err != nil {
			return nil, err
		}
		p := NewPipeline(r, logger)
		if settings.MinimumWaypointCount > 0 {
			p.WaypointCount = settings.MinimumWaypointCount
		}
		return p, nil
	}
}

// GeneratePlan interpolates from the request's start configuration to its
// joint-space goal, ignoring the scene. Failures injected through
// FailNextPlans or the request's Extra map come back as failed responses,
// not errors.
func (p *Pipeline) GeneratePlan(ctx context.Context, _ *scene.Scene, req *motionplan.Request) (*motionplan.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if p.FailNextPlans > 0 {
		p.FailNextPlans--
		p.logger.Debugw("failing plan by request", "group", req.GroupName)
		return motionplan.NewFailedResponse(motionplan.ErrorCodePlanningFailed), nil
	}
	if fail, ok := req.Extra[ExtraFailKey].(bool); ok && fail {
		return motionplan.NewFailedResponse(motionplan.ErrorCodePlanningFailed), nil
	}

	names, err := p.robot.Model().Group(req.GroupName)
	if err != nil {
		return nil, err
	}

	start, err := p.startGroupValues(req, names)
	if err != nil {
		return nil, err
	}

	goal, ok := p.goalGroupValues(req, names)
	if !ok {
		return motionplan.NewFailedResponse(motionplan.ErrorCodePlanningFailed), nil
	}

	limits, err := p.robot.Model().Limits(req.GroupName)
	if err != nil {
		return nil, err
	}
	for i, v := range goal {
		if v < limits[i].Min || v > limits[i].Max {
			p.logger.Debugw("goal outside joint limits", "joint", names[i], "value", v)
			return motionplan.NewFailedResponse(motionplan.ErrorCodePlanningFailed), nil
		}
	}
	// out-of-bounds starts are clamped in the manner of the start-state fix
	// adapters a real pipeline runs
	for i, v := range start {
		if v < limits[i].Min {
			start[i] = limits[i].Min
		} else if v > limits[i].Max {
			start[i] = limits[i].Max
		}
	}

	count := p.WaypointCount
	if count < 2 {
		count = 2
	}
	from := motionplan.FloatsToInputs(start)
	to := motionplan.FloatsToInputs(goal)
	waypoints := make([][]motionplan.Input, 0, count)
	for i := 0; i < count; i++ {
		by := float64(i) / float64(count-1)
		waypoints = append(waypoints, motionplan.InterpolateInputs(from, to, by))
	}

	return &motionplan.Response{
		Success:   true,
		ErrorCode: motionplan.ErrorCodeSuccess,
		Trajectory: &motionplan.Trajectory{
			JointNames: names,
			Waypoints:  waypoints,
		},
	}, nil
}

// startGroupValues slices the group's values out of the request's full start
// vector, falling back to the robot's current state when the request has no
// start configuration.
func (p *Pipeline) startGroupValues(req *motionplan.Request, names []string) ([]float64, error) {
	if len(req.StartConfiguration) == 0 {
		return p.robot.GroupState(req.GroupName)
	}
	model := p.robot.Model()
	full := motionplan.InputsToFloats(req.StartConfiguration)
	if len(full) != model.VariableCount() {
		return nil, robot.NewIncorrectDoFError(len(full), model.VariableCount())
	}
	offset := model.VariableCount() - len(model.JointNames())
	byName := make(map[string]float64, len(model.JointNames()))
	for i, name := range model.JointNames() {
		byName[name] = full[offset+i]
	}
	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = byName[name]
	}
	return values, nil
}

// goalGroupValues extracts a joint-space goal in group order. Region goals
// and requests with no goal report not-ok.
func (p *Pipeline) goalGroupValues(req *motionplan.Request, names []string) ([]float64, bool) {
	for _, constraints := range req.GoalConstraints {
		if len(constraints.Joints) == 0 {
			continue
		}
		byName := make(map[string]float64, len(constraints.Joints))
		for _, jc := range constraints.Joints {
			byName[jc.JointName] = jc.Position
		}
		values := make([]float64, len(names))
		for i, name := range names {
			v, ok := byName[name]
			if !ok {
				return nil, false
			}
			values[i] = v
		}
		return values, true
	}
	return nil, false
}
