package motionplan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/kavrakilab/robowflex-go/logging"
	"github.com/kavrakilab/robowflex-go/robot"
	"github.com/kavrakilab/robowflex-go/scene"
	"github.com/kavrakilab/robowflex-go/testutils"
)

const omplConfigYAML = `planner_configs:
  SBLkConfigDefault:
    type: geometric::SBL
  RRTConnectkConfigDefault:
    type: geometric::RRTConnect
    range: 0.5
legsandtorso:
  planner_configs:
    - SBLkConfigDefault
    - RRTConnectkConfigDefault
  projection_evaluator: joints(j0,j1)
  longest_valid_segment_fraction: 0.05
`

func writeOMPLConfig(t *testing.T) string {
	t.Helper()
	return testutils.TempFile(t, "ompl_planning.yaml", []byte(omplConfigYAML))
}

func TestOMPLSettingsSetParam(t *testing.T) {
	params := map[string]interface{}{}
	DefaultOMPLSettings().SetParam(params)

	test.That(t, params, test.ShouldResemble, map[string]interface{}{
		"ompl/max_goal_samples":               10,
		"ompl/max_goal_sampling_attempts":     1000,
		"ompl/max_planning_threads":           4,
		"ompl/max_solution_segment_length":    0.0,
		"ompl/max_state_sampling_attempts":    4,
		"ompl/minimum_waypoint_count":         10,
		"ompl/simplify_solutions":             true,
		"ompl/use_constraints_approximations": false,
		"ompl/display_random_valid_states":    false,
		"ompl/link_for_exploration_tree":      "",
		"ompl/maximum_waypoint_distance":      0.0,
	})
}

func TestOMPLSettingsFromParams(t *testing.T) {
	params := map[string]interface{}{}
	want := DefaultOMPLSettings()
	want.MaxPlanningThreads = 8
	want.SimplifySolutions = false
	want.SetParam(params)

	got, err := OMPLSettingsFromParams(params)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, want)

	// values loaded from config files arrive weakly typed
	got, err = OMPLSettingsFromParams(map[string]interface{}{
		"ompl/max_goal_samples":   "42",
		"ompl/simplify_solutions": "false",
		"unrelated/key":           "ignored",
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.MaxGoalSamples, test.ShouldEqual, 42)
	test.That(t, got.SimplifySolutions, test.ShouldBeFalse)
	// untouched knobs keep their defaults
	test.That(t, got.MaxGoalSamplingAttempts, test.ShouldEqual, 1000)
}

func TestLoadOMPLConfig(t *testing.T) {
	params := map[string]interface{}{}
	configs, err := loadOMPLConfig(writeOMPLConfig(t), params)
	test.That(t, err, test.ShouldBeNil)

	// advertised configs come back in file order
	test.That(t, configs, test.ShouldResemble, []string{"SBLkConfigDefault", "RRTConnectkConfigDefault"})

	test.That(t, params["planner_configs/SBLkConfigDefault/type"], test.ShouldEqual, "geometric::SBL")
	test.That(t, params["planner_configs/RRTConnectkConfigDefault/range"], test.ShouldEqual, 0.5)
	test.That(t, params["legsandtorso/projection_evaluator"], test.ShouldEqual, "joints(j0,j1)")
	test.That(t, params["legsandtorso/planner_configs"], test.ShouldResemble,
		[]interface{}{"SBLkConfigDefault", "RRTConnectkConfigDefault"})

	_, err = loadOMPLConfig("", params)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = loadOMPLConfig(filepath.Join(t.TempDir(), "missing.yaml"), params)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestOMPLPipelinePlannerInitialize(t *testing.T) {
	logger := logging.NewTestLogger(t)
	var captured map[string]interface{}
	constructor := func(_ *robot.Robot, params map[string]interface{}, _ logging.Logger) (Pipeline, error) {
		captured = params
		return &stubPipeline{resp: &Response{Success: true, ErrorCode: ErrorCodeSuccess}}, nil
	}

	p := NewOMPLPipelinePlanner(armRobot(t), constructor, logger)
	err := p.Initialize(writeOMPLConfig(t), DefaultOMPLSettings(), "", nil)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, p.PlannerConfigs(), test.ShouldResemble, []string{"SBLkConfigDefault", "RRTConnectkConfigDefault"})
	test.That(t, captured["planning_plugin"], test.ShouldEqual, DefaultOMPLPlugin)
	test.That(t, captured["request_adapters"], test.ShouldEqual, strings.Join(DefaultPlannerAdapters(), " "))
	test.That(t, captured["ompl/max_planning_threads"], test.ShouldEqual, 4)

	// the planner plans through the constructed pipeline
	resp, err := p.Plan(context.Background(), scene.New(), &Request{GroupName: "arm"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.Success, test.ShouldBeTrue)

	// and the builder discovers RRTConnect from the loaded configs
	b, err := NewRequestBuilder(p, "arm")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Request().PlannerID, test.ShouldEqual, "RRTConnectkConfigDefault")
}

func TestOMPLPipelinePlannerInitializeErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)

	p := NewOMPLPipelinePlanner(armRobot(t), nil, logger)
	test.That(t, p.Initialize(writeOMPLConfig(t), DefaultOMPLSettings(), "", nil), test.ShouldNotBeNil)

	constructor := func(_ *robot.Robot, _ map[string]interface{}, _ logging.Logger) (Pipeline, error) {
		return nil, os.ErrPermission
	}
	p = NewOMPLPipelinePlanner(armRobot(t), constructor, logger)
	test.That(t, p.Initialize("", DefaultOMPLSettings(), "", nil), test.ShouldNotBeNil)

	err := p.Initialize(writeOMPLConfig(t), DefaultOMPLSettings(), "", nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to construct planning pipeline")

	// uninitialized planners fail requests cleanly
	resp, err := p.Plan(context.Background(), scene.New(), &Request{GroupName: "arm"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.Success, test.ShouldBeFalse)
}

type stubContext struct {
	resp *Response
	err  error
}

func (s *stubContext) Solve(context.Context) (*Response, error) { return s.resp, s.err }

type stubContextInterface struct {
	pc  PlanningContext
	err error
}

func (s *stubContextInterface) PlanningContext(context.Context, *scene.Scene, *Request) (PlanningContext, error) {
	return s.pc, s.err
}

func TestOMPLInterfacePlanner(t *testing.T) {
	logger := logging.NewTestLogger(t)
	iface := &stubContextInterface{pc: &stubContext{resp: &Response{Success: true, ErrorCode: ErrorCodeSuccess}}}

	p := NewOMPLInterfacePlanner(armRobot(t), iface, logger)
	test.That(t, p.Initialize(writeOMPLConfig(t), DefaultOMPLSettings()), test.ShouldBeNil)
	test.That(t, p.PlannerConfigs(), test.ShouldResemble, []string{"SBLkConfigDefault", "RRTConnectkConfigDefault"})
	test.That(t, p.Params()["ompl/minimum_waypoint_count"], test.ShouldEqual, 10)

	resp, err := p.Plan(context.Background(), scene.New(), &Request{GroupName: "arm"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.Success, test.ShouldBeTrue)

	// a request the interface cannot produce a context for fails cleanly
	p = NewOMPLInterfacePlanner(armRobot(t), &stubContextInterface{}, logger)
	resp, err = p.Plan(context.Background(), scene.New(), &Request{GroupName: "arm"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.Success, test.ShouldBeFalse)
	test.That(t, resp.ErrorCode, test.ShouldEqual, ErrorCodeFailure)
}
