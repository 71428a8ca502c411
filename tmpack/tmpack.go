// Package tmpack sequences task plans into motion plans: an injected task
// planner produces an ordered list of goal configurations, and the linear
// planning loop plans to each in turn, re-seeding the start configuration
// from the previous result. All domain semantics (constraint mutation,
// scene-graph mutation) live in injected callback interfaces with no default
// implementation here.
package tmpack

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kavrakilab/robowflex-go/logging"
	"github.com/kavrakilab/robowflex-go/motionplan"
	"github.com/kavrakilab/robowflex-go/robot"
	"github.com/kavrakilab/robowflex-go/scene"
)

// ConstraintHelper injects domain constraint semantics into the sequencing
// loop. PlanLinearlyCallback runs before each sub-plan with the upcoming
// task operation and the start configuration that will seed it; an
// implementation typically writes the goal for the task operation into the
// builder.
type ConstraintHelper interface {
	TaskPlanCallback()
	PlanLinearlyCallback(builder *motionplan.RequestBuilder, taskOp []float64, r *robot.Robot, startConfiguration []float64)
}

// SceneGraphHelper injects domain scene-graph semantics into the sequencing
// loop. PlanLinearlyCallback runs before each sub-plan, after the constraint
// helper's.
type SceneGraphHelper interface {
	TaskPlanCallback()
	PlanLinearlyCallback(builder *motionplan.RequestBuilder, taskOp []float64)
}

// TaskPlanner produces the ordered goal configurations for one run. It is
// the external task planning contract.
type TaskPlanner interface {
	TaskPlan(ctx context.Context) ([][]float64, error)
}

// InterfaceParams collects the collaborators an Interface sequences over.
type InterfaceParams struct {
	Robot            *robot.Robot
	GroupName        string
	Planner          motionplan.Planner
	Scene            *scene.Scene
	Builder          *motionplan.RequestBuilder
	ConstraintHelper ConstraintHelper
	SceneGraphHelper SceneGraphHelper
	TaskPlanner      TaskPlanner
	Logger           logging.Logger
}

// Validate validates that p contains all required parameters.
func (p InterfaceParams) Validate() error {
	if p.Robot == nil {
		return errors.New("missing required parameter robot")
	}
	if p.GroupName == "" {
		return errors.New("missing required parameter group name")
	}
	if p.Planner == nil {
		return errors.New("missing required parameter planner")
	}
	if p.Scene == nil {
		return errors.New("missing required parameter scene")
	}
	if p.Builder == nil {
		return errors.New("missing required parameter builder")
	}
	if p.ConstraintHelper == nil {
		return errors.New("missing required parameter constraint helper")
	}
	if p.SceneGraphHelper == nil {
		return errors.New("missing required parameter scene graph helper")
	}
	if p.TaskPlanner == nil {
		return errors.New("missing required parameter task planner")
	}
	if p.Logger == nil {
		return errors.New("missing required parameter logger")
	}
	return nil
}

// Interface ties a robot, planner, scene, and request builder together with
// the injected task planner and helpers, and runs the sequencing loop.
type Interface struct {
	robot            *robot.Robot
	groupName        string
	planner          motionplan.Planner
	scene            *scene.Scene
	builder          *motionplan.RequestBuilder
	constraintHelper ConstraintHelper
	sceneGraphHelper SceneGraphHelper
	taskPlanner      TaskPlanner
	logger           logging.Logger
}

// NewInterface returns an Interface over the given collaborators.
func NewInterface(params InterfaceParams) (*Interface, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Interface{
		robot:            params.Robot,
		groupName:        params.GroupName,
		planner:          params.Planner,
		scene:            params.Scene,
		builder:          params.Builder,
		constraintHelper: params.ConstraintHelper,
		sceneGraphHelper: params.SceneGraphHelper,
		taskPlanner:      params.TaskPlanner,
		logger:           params.Logger,
	}, nil
}

// Plan asks the task planner for goals and plans to each linearly. Both
// helpers' TaskPlanCallback run before the task planner. The returned slice
// always has one response per goal, failed sub-plans included; errors are
// reserved for infrastructure problems such as cancellation.
func (i *Interface) Plan(ctx context.Context) ([]*motionplan.Response, error) {
	i.constraintHelper.TaskPlanCallback()
	i.sceneGraphHelper.TaskPlanCallback()

	goals, err := i.taskPlanner.TaskPlan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "task planning failed")
	}
	return i.planLinearly(ctx, goals)
}

// planLinearly plans to each goal in turn. The seed start configuration is
// the request's existing one, or the robot's full state vector when the
// request has none. After each successful sub-plan the next seed is the
// robot's state vector with the response's final joint positions applied,
// so the virtual base prefix carries through unchanged; a failed sub-plan
// leaves the seed alone.
func (i *Interface) planLinearly(ctx context.Context, goals [][]float64) ([]*motionplan.Response, error) {
	executionID := uuid.New()
	i.logger.Infow("planning task linearly",
		"executionID", executionID,
		"group", i.groupName,
		"goals", len(goals),
	)

	req := i.builder.Request()
	var nextStart []float64
	if len(req.StartConfiguration) > 0 {
		nextStart = motionplan.InputsToFloats(req.StartConfiguration)
	} else {
		nextStart = i.robot.StateVector()
	}

	responses := make([]*motionplan.Response, 0, len(goals))
	for n, goal := range goals {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		i.constraintHelper.PlanLinearlyCallback(i.builder, goal, i.robot, nextStart)
		i.sceneGraphHelper.PlanLinearlyCallback(i.builder, goal)

		resp, err := i.planner.Plan(ctx, i.scene, req)
		if err != nil {
			return nil, err
		}
		// every sub-plan yields a response, failed ones included
		responses = append(responses, resp)

		if resp.Success {
			positions, err := resp.FinalJointPositions()
			if err != nil {
				return nil, err
			}
			snapshot := i.robot.Snapshot()
			if err := i.robot.SetState(positions); err != nil {
				return nil, err
			}
			nextStart = i.robot.StateVector()
			if err := i.robot.Restore(snapshot); err != nil {
				return nil, err
			}
		} else {
			i.logger.Warnw("sub-plan failed, keeping previous seed",
				"executionID", executionID,
				"goal", n,
				"errorCode", resp.ErrorCode,
			)
		}

		if err := i.builder.SetStartConfiguration(nextStart); err != nil {
			return nil, err
		}
	}
	return responses, nil
}
