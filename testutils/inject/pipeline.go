// Package inject provides planning collaborators that can be set up with
// custom functions for testing.
package inject

import (
	"context"

	"github.com/kavrakilab/robowflex-go/motionplan"
	"github.com/kavrakilab/robowflex-go/scene"
)

// Pipeline is an injected planning pipeline.
type Pipeline struct {
	motionplan.Pipeline
	GeneratePlanFunc func(
		ctx context.Context,
		s *scene.Scene,
		req *motionplan.Request,
	) (*motionplan.Response, error)
}

// GeneratePlan calls the injected GeneratePlan or the real version.
func (p *Pipeline) GeneratePlan(
	ctx context.Context,
	s *scene.Scene,
	req *motionplan.Request,
) (*motionplan.Response, error) {
	if p.GeneratePlanFunc == nil {
		return p.Pipeline.GeneratePlan(ctx, s, req)
	}
	return p.GeneratePlanFunc(ctx, s, req)
}
