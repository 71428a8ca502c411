package inject

import (
	"context"

	"github.com/kavrakilab/robowflex-go/motionplan"
	"github.com/kavrakilab/robowflex-go/robot"
	"github.com/kavrakilab/robowflex-go/tmpack"
)

// TaskPlanner is an injected task planner.
type TaskPlanner struct {
	tmpack.TaskPlanner
	TaskPlanFunc func(ctx context.Context) ([][]float64, error)
}

// TaskPlan calls the injected TaskPlan or the real version.
func (tp *TaskPlanner) TaskPlan(ctx context.Context) ([][]float64, error) {
	if tp.TaskPlanFunc == nil {
		return tp.TaskPlanner.TaskPlan(ctx)
	}
	return tp.TaskPlanFunc(ctx)
}

// ConstraintHelper is an injected constraint helper.
type ConstraintHelper struct {
	tmpack.ConstraintHelper
	TaskPlanCallbackFunc     func()
	PlanLinearlyCallbackFunc func(
		builder *motionplan.RequestBuilder,
		taskOp []float64,
		r *robot.Robot,
		startConfiguration []float64,
	)
}

// TaskPlanCallback calls the injected TaskPlanCallback or the real version.
func (ch *ConstraintHelper) TaskPlanCallback() {
	if ch.TaskPlanCallbackFunc == nil {
		ch.ConstraintHelper.TaskPlanCallback()
		return
	}
	ch.TaskPlanCallbackFunc()
}

// PlanLinearlyCallback calls the injected PlanLinearlyCallback or the real version.
func (ch *ConstraintHelper) PlanLinearlyCallback(
	builder *motionplan.RequestBuilder,
	taskOp []float64,
	r *robot.Robot,
	startConfiguration []float64,
) {
	if ch.PlanLinearlyCallbackFunc == nil {
		ch.ConstraintHelper.PlanLinearlyCallback(builder, taskOp, r, startConfiguration)
		return
	}
	ch.PlanLinearlyCallbackFunc(builder, taskOp, r, startConfiguration)
}

// SceneGraphHelper is an injected scene-graph helper.
type SceneGraphHelper struct {
	tmpack.SceneGraphHelper
	TaskPlanCallbackFunc     func()
	PlanLinearlyCallbackFunc func(builder *motionplan.RequestBuilder, taskOp []float64)
}

// TaskPlanCallback calls the injected TaskPlanCallback or the real version.
func (sg *SceneGraphHelper) TaskPlanCallback() {
	if sg.TaskPlanCallbackFunc == nil {
		sg.SceneGraphHelper.TaskPlanCallback()
		return
	}
	sg.TaskPlanCallbackFunc()
}

// PlanLinearlyCallback calls the injected PlanLinearlyCallback or the real version.
func (sg *SceneGraphHelper) PlanLinearlyCallback(builder *motionplan.RequestBuilder, taskOp []float64) {
	if sg.PlanLinearlyCallbackFunc == nil {
		sg.SceneGraphHelper.PlanLinearlyCallback(builder, taskOp)
		return
	}
	sg.PlanLinearlyCallbackFunc(builder, taskOp)
}
