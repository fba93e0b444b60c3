package transform

import (
	"fmt"

	"foveal-renderer/internal/display"
	"foveal-renderer/internal/logging"
	"foveal-renderer/internal/mathutil"
)

// Matrices is the per-frame output of the pipeline.
type Matrices struct {
	Model      mathutil.Mat4
	View       mathutil.Mat4
	Projection mathutil.Mat4

	// Derived once per frame for the rasterizer and post-process stages.
	ModelView     mathutil.Mat4
	NormalMatrix  mathutil.Mat3
	InvProjection mathutil.Mat4
}

// MVP returns Projection · View · Model.
func (m Matrices) MVP() mathutil.Mat4 {
	return mathutil.Mat4Mul(m.Projection, m.ModelView)
}

// Pipeline computes matrices from display geometry and frame state. It holds
// no per-frame state, so one value can serve concurrent frames.
type Pipeline struct {
	Display      display.Parameters
	ViewDistance float64
}

// NewPipeline returns a pipeline with the default camera distance.
func NewPipeline(p display.Parameters) (*Pipeline, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{Display: p, ViewDistance: DefaultViewDistance}, nil
}

// Update computes the model, view and projection matrices for one frame.
func (p *Pipeline) Update(state display.FrameState) (Matrices, error) {
	var out Matrices
	out.Model = ComputeModelMatrix(state.Rotation, state.Translation)

	halfW, halfH := p.Display.HalfExtent()

	var err error
	switch {
	case state.TopView:
		out.View = TopViewMatrix
		s := state.ClipNear / p.Display.DistanceScreenViewer
		out.Projection, err = ComputePerspectiveMatrix(-halfW*s, halfW*s, halfH*s, -halfH*s, topViewNear, topViewFar)
	case state.PerspectiveMat:
		out.View = ComputeViewMatrix(p.ViewDistance)
		s := state.ClipNear / p.Display.DistanceScreenViewer
		out.Projection, err = ComputePerspectiveMatrix(-halfW*s, halfW*s, halfH*s, -halfH*s, state.ClipNear, state.ClipFar)
	default:
		out.View = ComputeViewMatrix(p.ViewDistance)
		out.Projection, err = ComputeOrthographicMatrix(-halfW, halfW, halfH, -halfH, state.ClipNear, state.ClipFar)
	}
	if err != nil {
		return Matrices{}, fmt.Errorf("transform: update: %w", err)
	}

	out.ModelView = mathutil.Mat4Mul(out.View, out.Model)
	out.NormalMatrix = out.ModelView.NormalMatrix()
	out.InvProjection = out.Projection.Inverse()

	logging.Logger().Debug("transform: update",
		"top_view", state.TopView,
		"perspective", state.PerspectiveMat,
		"p00", out.Projection.At(0, 0),
		"p22", out.Projection.At(2, 2))

	return out, nil
}
