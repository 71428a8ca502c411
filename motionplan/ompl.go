package motionplan

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/kavrakilab/robowflex-go/logging"
	"github.com/kavrakilab/robowflex-go/robot"
	"github.com/kavrakilab/robowflex-go/scene"
)

// DefaultOMPLPlugin is the planning plugin requested when none is named.
const DefaultOMPLPlugin = "ompl_interface/OMPLPlanner"

// parameter namespace the engine reads its tuning knobs from
const omplParamPrefix = "ompl/"

// key under which a planner config file lists its configs
const plannerConfigsKey = "planner_configs"

// DefaultPlannerAdapters returns the request adapters applied when none are
// named, in application order.
func DefaultPlannerAdapters() []string {
	return []string{
		"default_planner_request_adapters/AddTimeParameterization",
		"default_planner_request_adapters/FixWorkspaceBounds",
		"default_planner_request_adapters/FixStartStateBounds",
		"default_planner_request_adapters/FixStartStateCollision",
		"default_planner_request_adapters/FixStartStatePathConstraints",
	}
}

// OMPLSettings are the OMPL tuning knobs forwarded to the engine under the
// "ompl/" parameter prefix.
type OMPLSettings struct {
	MaxGoalSamples               int     `mapstructure:"max_goal_samples"`
	MaxGoalSamplingAttempts      int     `mapstructure:"max_goal_sampling_attempts"`
	MaxPlanningThreads           int     `mapstructure:"max_planning_threads"`
	MaxSolutionSegmentLength     float64 `mapstructure:"max_solution_segment_length"`
	MaxStateSamplingAttempts     int     `mapstructure:"max_state_sampling_attempts"`
	MinimumWaypointCount         int     `mapstructure:"minimum_waypoint_count"`
	SimplifySolutions            bool    `mapstructure:"simplify_solutions"`
	UseConstraintsApproximations bool    `mapstructure:"use_constraints_approximations"`
	DisplayRandomValidStates     bool    `mapstructure:"display_random_valid_states"`
	LinkForExplorationTree       string  `mapstructure:"link_for_exploration_tree"`
	MaximumWaypointDistance      float64 `mapstructure:"maximum_waypoint_distance"`
}

// DefaultOMPLSettings returns the engine's stock tuning values.
func DefaultOMPLSettings() OMPLSettings {
	return OMPLSettings{
		MaxGoalSamples:           10,
		MaxGoalSamplingAttempts:  1000,
		MaxPlanningThreads:       4,
		MaxStateSamplingAttempts: 4,
		MinimumWaypointCount:     10,
		SimplifySolutions:        true,
	}
}

// SetParam writes every knob into the given parameter map under the "ompl/"
// prefix.
func (s OMPLSettings) SetParam(params map[string]interface{}) {
	params[omplParamPrefix+"max_goal_samples"] = s.MaxGoalSamples
	params[omplParamPrefix+"max_goal_sampling_attempts"] = s.MaxGoalSamplingAttempts
	params[omplParamPrefix+"max_planning_threads"] = s.MaxPlanningThreads
	params[omplParamPrefix+"max_solution_segment_length"] = s.MaxSolutionSegmentLength
	params[omplParamPrefix+"max_state_sampling_attempts"] = s.MaxStateSamplingAttempts
	params[omplParamPrefix+"minimum_waypoint_count"] = s.MinimumWaypointCount
	params[omplParamPrefix+"simplify_solutions"] = s.SimplifySolutions
	params[omplParamPrefix+"use_constraints_approximations"] = s.UseConstraintsApproximations
	params[omplParamPrefix+"display_random_valid_states"] = s.DisplayRandomValidStates
	params[omplParamPrefix+"link_for_exploration_tree"] = s.LinkForExplorationTree
	params[omplParamPrefix+"maximum_waypoint_distance"] = s.MaximumWaypointDistance
}

// OMPLSettingsFromParams rebuilds settings from a parameter map written by
// SetParam or loaded from a config file.
func OMPLSettingsFromParams(params map[string]interface{}) (OMPLSettings, error) {
	raw := map[string]interface{}{}
	for key, value := range params {
		if strings.HasPrefix(key, omplParamPrefix) {
			raw[strings.TrimPrefix(key, omplParamPrefix)] = value
		}
	}
	settings := DefaultOMPLSettings()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &settings,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return OMPLSettings{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return OMPLSettings{}, errors.Wrap(err, "failed to decode ompl settings")
	}
	return settings, nil
}

// loadOMPLConfig flattens the YAML planner config file into params and
// returns the configs advertised under planner_configs, in file order.
func loadOMPLConfig(configFile string, params map[string]interface{}) ([]string, error) {
	if configFile == "" {
		return nil, errors.New("no planner config file provided")
	}
	//nolint:gosec
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load planner configs")
	}

	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to load planner configs")
	}
	flattenYAML(doc, "", params)

	var configs []string
	for _, item := range doc {
		if fmt.Sprint(item.Key) != plannerConfigsKey {
			continue
		}
		entries, ok := item.Value.(yaml.MapSlice)
		if !ok {
			return nil, errors.Errorf("%s must be a mapping", plannerConfigsKey)
		}
		for _, entry := range entries {
			configs = append(configs, fmt.Sprint(entry.Key))
		}
	}
	return configs, nil
}

// flattenYAML records every scalar and sequence in the document under its
// slash-joined key path.
func flattenYAML(doc yaml.MapSlice, prefix string, params map[string]interface{}) {
	for _, item := range doc {
		key := fmt.Sprint(item.Key)
		if prefix != "" {
			key = prefix + "/" + key
		}
		if nested, ok := item.Value.(yaml.MapSlice); ok {
			flattenYAML(nested, key, params)
			continue
		}
		params[key] = item.Value
	}
}

// PipelineConstructor builds the planning engine from the fully assembled
// parameter map. It is injected by the embedding application.
type PipelineConstructor func(r *robot.Robot, params map[string]interface{}, logger logging.Logger) (Pipeline, error)

// OMPLPipelinePlanner is a PipelinePlanner configured from a YAML planner
// config file in the engine's own format. Until Initialize succeeds it has
// no pipeline and fails every request.
type OMPLPipelinePlanner struct {
	*PipelinePlanner
	constructor PipelineConstructor
	configs     []string
	params      map[string]interface{}
}

// NewOMPLPipelinePlanner returns an uninitialized planner that will build
// its pipeline through the given constructor.
func NewOMPLPipelinePlanner(r *robot.Robot, constructor PipelineConstructor, logger logging.Logger) *OMPLPipelinePlanner {
	return &OMPLPipelinePlanner{
		PipelinePlanner: NewPipelinePlanner(r, nil, logger),
		constructor:     constructor,
		params:          map[string]interface{}{},
	}
}

// Initialize loads the planner config file, records the advertised configs,
// assembles the full parameter map (flattened config file, planning plugin,
// space-joined request adapters, settings under "ompl/"), and constructs the
// pipeline. An empty plugin selects DefaultOMPLPlugin; nil adapters select
// DefaultPlannerAdapters.
func (p *OMPLPipelinePlanner) Initialize(configFile string, settings OMPLSettings, plugin string, adapters []string) error {
	if p.constructor == nil {
		return errors.New("no pipeline constructor provided")
	}

	configs, err := loadOMPLConfig(configFile, p.params)
	if err != nil {
		return err
	}
	p.configs = configs

	if plugin == "" {
		plugin = DefaultOMPLPlugin
	}
	p.params["planning_plugin"] = plugin

	if adapters == nil {
		adapters = DefaultPlannerAdapters()
	}
	p.params["request_adapters"] = strings.Join(adapters, " ")

	settings.SetParam(p.params)

	pipeline, err := p.constructor(p.Robot(), p.params, p.logger)
	if err != nil {
		return errors.Wrap(err, "failed to construct planning pipeline")
	}
	p.pipeline = pipeline
	return nil
}

// PlannerConfigs returns the configs advertised by the loaded config file.
func (p *OMPLPipelinePlanner) PlannerConfigs() []string {
	out := make([]string, len(p.configs))
	copy(out, p.configs)
	return out
}

// Params returns the assembled parameter map. The map is the planner's own;
// callers must not mutate it.
func (p *OMPLPipelinePlanner) Params() map[string]interface{} {
	return p.params
}

// PlanningContext is a single prepared planning attempt.
type PlanningContext interface {
	Solve(ctx context.Context) (*Response, error)
}

// ContextInterface hands out planning contexts for scene and request pairs.
// It stands in for driving the planning interface directly rather than
// through a pipeline.
type ContextInterface interface {
	PlanningContext(ctx context.Context, s *scene.Scene, req *Request) (PlanningContext, error)
}

// OMPLInterfacePlanner plans by asking a ContextInterface for a context per
// request and solving it, skipping the pipeline's request adapters.
type OMPLInterfacePlanner struct {
	robot   *robot.Robot
	iface   ContextInterface
	configs []string
	params  map[string]interface{}
	logger  logging.Logger
}

// NewOMPLInterfacePlanner returns an uninitialized interface planner.
func NewOMPLInterfacePlanner(r *robot.Robot, iface ContextInterface, logger logging.Logger) *OMPLInterfacePlanner {
	return &OMPLInterfacePlanner{
		robot:  r,
		iface:  iface,
		params: map[string]interface{}{},
		logger: logger,
	}
}

// Initialize loads the planner config file and pushes settings params.
func (p *OMPLInterfacePlanner) Initialize(configFile string, settings OMPLSettings) error {
	configs, err := loadOMPLConfig(configFile, p.params)
	if err != nil {
		return err
	}
	p.configs = configs
	settings.SetParam(p.params)
	return nil
}

// Plan solves one request through a fresh planning context. A request the
// interface cannot produce a context for fails cleanly.
func (p *OMPLInterfacePlanner) Plan(ctx context.Context, s *scene.Scene, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.iface == nil {
		p.logger.Warnw("no planning interface configured, failing request", "group", req.GroupName)
		return NewFailedResponse(ErrorCodeFailure), nil
	}
	pc, err := p.iface.PlanningContext(ctx, s, req)
	if err != nil {
		return nil, err
	}
	if pc == nil {
		return NewFailedResponse(ErrorCodeFailure), nil
	}
	return pc.Solve(ctx)
}

// PlannerConfigs returns the configs advertised by the loaded config file.
func (p *OMPLInterfacePlanner) PlannerConfigs() []string {
	out := make([]string, len(p.configs))
	copy(out, p.configs)
	return out
}

// Robot returns the robot this planner plans for.
func (p *OMPLInterfacePlanner) Robot() *robot.Robot {
	return p.robot
}

// Params returns the assembled parameter map. The map is the planner's own;
// callers must not mutate it.
func (p *OMPLInterfacePlanner) Params() map[string]interface{} {
	return p.params
}
