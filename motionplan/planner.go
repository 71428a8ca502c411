package motionplan

import (
	"context"

	"github.com/benbjohnson/clock"

	"github.com/kavrakilab/robowflex-go/logging"
	"github.com/kavrakilab/robowflex-go/robot"
	"github.com/kavrakilab/robowflex-go/scene"
)

// Planner is the contract exercised by the request builder and the task
// sequencing loop: plan against a scene, advertise planner configs, expose
// the robot being planned for.
type Planner interface {
	Plan(ctx context.Context, s *scene.Scene, req *Request) (*Response, error)
	PlannerConfigs() []string
	Robot() *robot.Robot
}

// Pipeline is the opaque planning engine contract. The embedding application
// supplies the real engine; the fake package supplies one for tests. A
// planning failure is reported on the Response, not as an error; errors are
// reserved for infrastructure problems such as cancellation.
type Pipeline interface {
	GeneratePlan(ctx context.Context, s *scene.Scene, req *Request) (*Response, error)
}

// PipelinePlanner runs requests through a Pipeline, stamping each response
// with the observed planning time. A planner with no pipeline fails every
// request cleanly rather than erroring.
type PipelinePlanner struct {
	robot    *robot.Robot
	pipeline Pipeline
	logger   logging.Logger
	clock    clock.Clock
}

// NewPipelinePlanner wraps the given pipeline for the given robot. The
// pipeline may be nil, in which case every Plan call yields a failed
// response.
func NewPipelinePlanner(r *robot.Robot, pipeline Pipeline, logger logging.Logger) *PipelinePlanner {
	return &PipelinePlanner{robot: r, pipeline: pipeline, logger: logger, clock: clock.New()}
}

// Plan runs one request through the pipeline.
func (p *PipelinePlanner) Plan(ctx context.Context, s *scene.Scene, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.pipeline == nil {
		p.logger.Warnw("no planning pipeline configured, failing request", "group", req.GroupName)
		return NewFailedResponse(ErrorCodeFailure), nil
	}
	start := p.clock.Now()
	resp, err := p.pipeline.GeneratePlan(ctx, s, req)
	if err != nil {
		return nil, err
	}
	resp.PlanningTime = p.clock.Since(start)
	return resp, nil
}

// PlannerConfigs returns the advertised planner configs; a bare pipeline
// planner advertises none.
func (p *PipelinePlanner) PlannerConfigs() []string {
	return nil
}

// Robot returns the robot this planner plans for.
func (p *PipelinePlanner) Robot() *robot.Robot {
	return p.robot
}
