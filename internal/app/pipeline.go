package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/nayana/internal/capture"
	"github.com/ayusman/nayana/internal/detector"
	"github.com/ayusman/nayana/internal/metrics"
	"github.com/ayusman/nayana/internal/wink"
)

// Run opens the camera and processes frames until ctx is cancelled, the
// capture source ends, or capture fails. Only capture failures are returned
// as errors.
//
// Per tick:
// 1. Skip entirely while disabled (no frame is read)
// 2. Read a frame and offer it to stream viewers
// 3. Ask the session's frame gate whether to process it
// 4. Detect landmarks and reduce to the first face
// 5. Step the session with the frame's own width and height
// 6. Publish the output and fire transition callbacks
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		err = fmt.Errorf("open camera: %w", err)
		a.setCameraState(CameraError, err)
		return err
	}
	a.setCameraState(CameraRunning, nil)

	w, h := a.camera.Resolution()
	a.log.WithFields(logrus.Fields{
		"width":     w,
		"height":    h,
		"context":   a.session.Params().Context.String(),
		"threshold": a.session.Params().Threshold,
	}).Info("detection loop started")

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			a.setCameraState(CameraStopped, nil)
			a.log.Info("detection loop stopped")
			return nil
		case <-ticker.C:
		}

		if !a.IsEnabled() {
			continue
		}

		frame, err := a.camera.ReadFrame()
		switch {
		case err == nil:
			failures = 0
		case errors.Is(err, capture.ErrEndOfStream):
			a.setCameraState(CameraStopped, nil)
			a.log.Info("capture source ended")
			return nil
		case errors.Is(err, capture.ErrCameraNotOpen):
			err = fmt.Errorf("read frame: %w", err)
			a.setCameraState(CameraError, err)
			return err
		default:
			failures++
			a.log.WithError(err).WithField("failures", failures).Warn("frame read failed")
			if failures >= a.maxReadFailures {
				err = fmt.Errorf("read frame: %d consecutive failures: %w", failures, err)
				a.setCameraState(CameraError, err)
				return err
			}
			continue
		}

		a.handleFrame(ctx, frame)
		frame.Close()
	}
}

// handleFrame runs one captured frame through the gate and, if admitted,
// the detector and session. It reports whether the frame was processed.
func (a *App) handleFrame(ctx context.Context, frame *gocv.Mat) (wink.Output, bool) {
	if a.preview != nil {
		if err := a.preview.Offer(frame); err != nil {
			a.log.WithError(err).Debug("preview update failed")
		}
	}

	frameIndex, process := a.session.Admit()
	if !process {
		a.recordFrame(ctx, metrics.OutcomeSkipped)
		return wink.Output{}, false
	}

	d := a.Detector()
	start := time.Now()
	faces, err := d.Detect(frame)
	if a.metrics != nil {
		a.metrics.RecordDetectDuration(ctx, time.Since(start))
	}
	if err != nil {
		a.recordFrame(ctx, metrics.OutcomeFailed)
		a.log.WithError(err).WithField("frame", frameIndex).Warn("landmark detection failed")
		return wink.Output{}, false
	}

	out := a.session.Process(wink.FrameInput{
		FrameIndex: frameIndex,
		Width:      frame.Cols(),
		Height:     frame.Rows(),
		Faces:      detector.FirstFace(faces),
	})
	a.record(ctx, out)

	a.log.WithFields(logrus.Fields{
		"frame":     out.FrameIndex,
		"left_ear":  out.LeftEAR,
		"right_ear": out.RightEAR,
		"status":    out.Status,
	}).Debug("frame processed")

	if out.Inconclusive {
		a.log.WithField("frame", out.FrameIndex).Debug("degenerate eye geometry")
	}

	if out.Transition.Changed() {
		entry := a.log.WithFields(logrus.Fields{
			"frame": out.FrameIndex,
			"from":  out.Transition.From.String(),
			"to":    out.Transition.To.String(),
		})
		if out.Transition.Confirmed() {
			entry.WithField("eye", out.Classification.Eye).Info("wink confirmed")
		} else {
			entry.Info("wink cancelled")
		}
		for _, fn := range a.transitionCallbacks() {
			fn(out)
		}
	}

	a.hub.Publish(out)
	return out, true
}

func (a *App) recordFrame(ctx context.Context, outcome string) {
	if a.metrics != nil {
		a.metrics.RecordFrame(ctx, outcome)
	}
}

func (a *App) record(ctx context.Context, out wink.Output) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordFrame(ctx, metrics.OutcomeProcessed)
	a.metrics.RecordFace(ctx, out.Status != wink.StatusNoFace)
	if out.Inconclusive {
		a.metrics.RecordInconclusive(ctx)
	}
	if out.Transition.Confirmed() {
		a.metrics.RecordWinkConfirmed(ctx, string(out.Classification.Eye))
	}
}
