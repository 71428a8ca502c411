package motionplan

import (
	"time"

	"github.com/pkg/errors"
)

// Error codes carried on a Response when planning itself fails. These are
// not Go errors: a failed plan is still a well-formed response.
const (
	ErrorCodeSuccess        = "SUCCESS"
	ErrorCodeFailure        = "FAILURE"
	ErrorCodePlanningFailed = "PLANNING_FAILED"
	ErrorCodeTimedOut       = "TIMED_OUT"
)

// Trajectory is an ordered sequence of configurations for a set of joints.
// Every waypoint has one Input per joint name, in the same order.
type Trajectory struct {
	JointNames []string
	Waypoints  [][]Input
}

// Response is the outcome of a single planning call. Failed responses are
// first-class values with no trajectory; sequencing layers collect them
// alongside successes.
type Response struct {
	Success      bool
	ErrorCode    string
	PlanningTime time.Duration
	Trajectory   *Trajectory
}

// NewFailedResponse returns a response carrying the given error code.
func NewFailedResponse(code string) *Response {
	return &Response{ErrorCode: code}
}

// FinalJointPositions maps each trajectory joint name to its value at the
// last waypoint. It errors on failed responses and empty trajectories.
func (r *Response) FinalJointPositions() (map[string]float64, error) {
	if !r.Success {
		return nil, errors.Errorf("cannot take final joint positions of a failed response (%s)", r.ErrorCode)
	}
	if r.Trajectory == nil || len(r.Trajectory.Waypoints) == 0 {
		return nil, errors.New("response has no trajectory waypoints")
	}
	last := r.Trajectory.Waypoints[len(r.Trajectory.Waypoints)-1]
	if len(last) != len(r.Trajectory.JointNames) {
		return nil, robotStateMismatchError(len(last), len(r.Trajectory.JointNames))
	}
	positions := make(map[string]float64, len(last))
	for i, name := range r.Trajectory.JointNames {
		positions[name] = last[i].Value
	}
	return positions, nil
}

func robotStateMismatchError(values, names int) error {
	return errors.Errorf("trajectory waypoint has %d values for %d joint names", values, names)
}
