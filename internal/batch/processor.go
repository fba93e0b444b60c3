// Package batch renders frame sequences through the full pipeline with a
// worker pool and writes one image per frame plus a manifest.
package batch

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"foveal-renderer/internal/config"
	"foveal-renderer/internal/display"
	"foveal-renderer/internal/imageio"
	"foveal-renderer/internal/logging"
	"foveal-renderer/internal/postprocess"
	"foveal-renderer/internal/raster"
	"foveal-renderer/internal/transform"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Settings config.Settings
	Scene    []raster.Object
}

// Frame is one unit of work: a frame state and the gaze it is viewed with.
type Frame struct {
	Index int
	State display.FrameState
	Gaze  display.GazePoint
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Index    int
	Image    string
	Gaze     display.GazePoint
	State    display.FrameState
	Matrices transform.Matrices
	Focus    float64
	Success  bool
	Error    string
}

// Plan returns the frame sequence for s. The gaze sweeps the horizontal
// center line from left to right, one pixel center per frame position, unless
// s pins it. The model's Y rotation advances by RotationStep per frame.
func Plan(s config.Settings) []Frame {
	frames := make([]Frame, s.Frames)
	w := float64(s.Display.CanvasWidth)
	for i := range frames {
		state := s.Frame
		state.Rotation.Y += float64(i) * s.RotationStep

		gaze := display.GazePoint{
			X: (float64(i) + 0.5) / float64(s.Frames) * w,
			Y: float64(s.Display.CanvasHeight) / 2,
		}
		if s.Gaze != nil {
			gaze = *s.Gaze
		}
		frames[i] = Frame{Index: i, State: state, Gaze: gaze}
	}
	return frames
}

// Renderer holds the validated stages for one display. It is safe for
// concurrent use.
type Renderer struct {
	settings config.Settings
	scene    []raster.Object
	pipeline *transform.Pipeline
	foveated *postprocess.FoveatedBlur
	dof      *postprocess.DepthOfField
}

// NewRenderer builds the pipeline stages for cfg.
func NewRenderer(cfg Config) (*Renderer, error) {
	s := cfg.Settings
	pipe, err := transform.NewPipeline(s.Display)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	r := &Renderer{settings: s, scene: cfg.Scene, pipeline: pipe}
	if s.Foveated {
		if r.foveated, err = postprocess.NewFoveatedBlur(s.Foveation); err != nil {
			return nil, fmt.Errorf("batch: %w", err)
		}
	}
	if s.DepthOfField {
		if r.dof, err = postprocess.NewDepthOfField(s.Display, s.Lens); err != nil {
			return nil, fmt.Errorf("batch: %w", err)
		}
	}
	return r, nil
}

// Output is a finished frame.
type Output struct {
	Image    *image.NRGBA
	Matrices transform.Matrices
	Focus    float64 // mm; zero when depth of field is off
}

// Render draws one frame: rasterize at the supersample factor, resolve to
// display size, then depth of field and foveated blur when enabled.
func (r *Renderer) Render(f Frame) (Output, error) {
	mats, err := r.pipeline.Update(f.State)
	if err != nil {
		return Output{}, err
	}

	s := r.settings
	ss := s.Supersample
	fb := raster.NewFrameBuffer(s.Display.CanvasWidth*ss, s.Display.CanvasHeight*ss)
	fb.Clear(Background)
	raster.Render(fb, r.scene, mats, s.Lighting, s.Mode)
	fb = postprocess.Resolve(fb, ss)

	out := Output{Matrices: mats}
	if r.dof != nil {
		fb, out.Focus = r.dof.Apply(fb, mats, f.Gaze)
	}
	if r.foveated != nil {
		fb = r.foveated.Apply(fb, f.Gaze)
	}
	out.Image = fb.NRGBA()
	return out, nil
}

// Run renders all frames using a worker pool. Frames not started before ctx
// is done are reported as failed.
func Run(ctx context.Context, cfg Config, frames []Frame) ([]Result, error) {
	r, err := NewRenderer(cfg)
	if err != nil {
		return nil, err
	}
	log := logging.Logger()

	total := len(frames)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()
	log.Info("batch: start", "frames", total, "workers", cfg.Settings.Workers,
		"output", cfg.Settings.OutputDir, "format", cfg.Settings.Format)

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("batch: progress", "done", p, "total", total, "fps", rate)
				}
			}
		}
	}()

	// Worker pool
	workers := max(cfg.Settings.Workers, 1)
	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				if err := ctx.Err(); err != nil {
					results[idx] = failed(frames[idx], err)
				} else {
					results[idx] = r.process(frames[idx])
				}
				processed.Add(1)
			}
		}()
	}

	for i := range frames {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	log.Info("batch: done", "frames", total, "elapsed", time.Since(start).Round(time.Millisecond))
	return results, nil
}

// FramePath returns the image path of frame idx relative to the output
// directory.
func FramePath(idx int, format string) string {
	return fmt.Sprintf("frame_%04d.%s", idx, format)
}

func (r *Renderer) process(f Frame) Result {
	out, err := r.Render(f)
	if err != nil {
		return failed(f, err)
	}

	rel := FramePath(f.Index, r.settings.Format)
	if err := imageio.Save(filepath.Join(r.settings.OutputDir, rel), out.Image); err != nil {
		return failed(f, err)
	}
	logging.Logger().Debug("batch: frame", "index", f.Index, "gaze_x", f.Gaze.X, "gaze_y", f.Gaze.Y, "focus_mm", out.Focus)

	return Result{
		Index:    f.Index,
		Image:    rel,
		Gaze:     f.Gaze,
		State:    f.State,
		Matrices: out.Matrices,
		Focus:    out.Focus,
		Success:  true,
	}
}

func failed(f Frame, err error) Result {
	logging.Logger().Warn("batch: frame failed", "index", f.Index, "err", err)
	return Result{Index: f.Index, Gaze: f.Gaze, State: f.State, Error: err.Error()}
}
