package game

import (
	"time"

	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/surface"
)

// HeadlessOptions controls an offscreen run.
type HeadlessOptions struct {
	Width, Height int
	DPR           float64
	Frames        int
	// FrameInterval is the simulated time between frames.
	FrameInterval time.Duration
}

// DefaultHeadlessOptions renders two seconds at 60 fps in the default
// window size.
func DefaultHeadlessOptions() HeadlessOptions {
	return HeadlessOptions{
		Width:         config.WindowWidth,
		Height:        config.WindowHeight,
		DPR:           1,
		Frames:        120,
		FrameInterval: time.Second / 60,
	}
}

// Headless runs an engine on a simulated clock and paints the final frame
// into a raster. The engine is left running so the caller can inspect it;
// the caller disposes the engine and closes the raster.
func Headless(cfg *config.Config, opts HeadlessOptions, engineOpts ...EngineOption) (*Engine, *surface.Raster, error) {
	sched := NewFrameScheduler()
	engineOpts = append([]EngineOption{WithViewport(opts.Width, opts.Height, opts.DPR)}, engineOpts...)
	e := NewEngine(cfg, sched, nil, engineOpts...)

	r, err := surface.NewRaster(e.Viewport())
	if err != nil {
		return nil, nil, err
	}

	e.Start()
	now := time.Unix(0, 0)
	for i := 0; i < opts.Frames; i++ {
		sched.Fire(now)
		now = now.Add(opts.FrameInterval)
	}
	if err := r.Paint(e.Frame(), e.Viewport()); err != nil {
		e.Dispose()
		r.Close()
		return nil, nil, err
	}
	return e, r, nil
}
