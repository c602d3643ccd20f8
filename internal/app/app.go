// Package app wires the camera, landmark detector and wink session into the
// frame loop.
package app

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/nayana/internal/capture"
	"github.com/ayusman/nayana/internal/detector"
	"github.com/ayusman/nayana/internal/logging"
	"github.com/ayusman/nayana/internal/metrics"
	"github.com/ayusman/nayana/internal/status"
	"github.com/ayusman/nayana/internal/wink"
)

// DefaultMaxReadFailures is how many consecutive capture errors end the loop.
const DefaultMaxReadFailures = 30

// Camera health values reported by Health.
const (
	CameraIdle    = "idle"
	CameraRunning = "running"
	CameraStopped = "stopped"
	CameraError   = "error"
)

// Config holds the collaborators of the application.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Session  *wink.Session
	Hub      *status.Hub
	// Preview is optional; when set, frames are offered to stream viewers.
	Preview *capture.Preview
	// Metrics is optional.
	Metrics *metrics.WinkMetrics
	Logger  *logrus.Logger

	MaxReadFailures int
}

// TransitionFunc is called when the debounce tracker changes state.
type TransitionFunc func(out wink.Output)

// App runs wink detection over the camera feed.
type App struct {
	camera   capture.Camera
	detector detector.Detector
	session  *wink.Session
	hub      *status.Hub
	preview  *capture.Preview
	metrics  *metrics.WinkMetrics
	log      *logrus.Entry

	maxReadFailures int

	mu          sync.RWMutex
	enabled     bool
	cameraState string
	lastErr     error
	callbacks   []TransitionFunc
}

// Health is a snapshot of the loop's condition.
type Health struct {
	Camera  string `json:"camera"`
	Enabled bool   `json:"enabled"`
	Error   string `json:"error,omitempty"`
}

// New creates an App. Camera and Session are required. Without a detector
// the Face Mesh service is tried and the mock detector is the fallback.
func New(cfg Config) (*App, error) {
	if cfg.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if cfg.Session == nil {
		return nil, errors.New("app: session is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	hub := cfg.Hub
	if hub == nil {
		hub = status.NewHub()
	}
	maxFailures := cfg.MaxReadFailures
	if maxFailures <= 0 {
		maxFailures = DefaultMaxReadFailures
	}

	a := &App{
		camera:          cfg.Camera,
		detector:        cfg.Detector,
		session:         cfg.Session,
		hub:             hub,
		preview:         cfg.Preview,
		metrics:         cfg.Metrics,
		log:             logging.Component(logger, "app").WithField(logging.SessionIDKey, cfg.Session.ID()),
		maxReadFailures: maxFailures,
		enabled:         true,
		cameraState:     CameraIdle,
	}

	if a.detector == nil {
		if fm, err := detector.NewFaceMeshDetector(detector.DefaultConfig()); err == nil {
			a.detector = fm
			a.log.Info("using MediaPipe face mesh detection")
		} else {
			a.log.WithError(err).Warn("face mesh not available, using mock detector")
			a.detector = detector.NewMockDetector()
		}
	}

	return a, nil
}

// SetEnabled pauses or resumes processing. While disabled no frames are read.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled != enabled {
		a.log.WithField("enabled", enabled).Info("detection toggled")
	}
	a.enabled = enabled
}

// IsEnabled returns whether detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the landmark detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the landmark detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// RegisterTransitionCallback adds fn to the callbacks run on every
// debounce state change. Callbacks run on the frame loop and must not block.
func (a *App) RegisterTransitionCallback(fn TransitionFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callbacks = append(a.callbacks, fn)
}

// Session returns the wink session.
func (a *App) Session() *wink.Session {
	return a.session
}

// Hub returns the output broadcast hub.
func (a *App) Hub() *status.Hub {
	return a.hub
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Health reports the camera state and the error that ended the loop, if any.
func (a *App) Health() Health {
	a.mu.RLock()
	defer a.mu.RUnlock()

	h := Health{Camera: a.cameraState, Enabled: a.enabled}
	if a.lastErr != nil {
		h.Error = a.lastErr.Error()
	}
	return h
}

// Close releases the camera and the detector.
func (a *App) Close() error {
	var errs []error
	if err := a.camera.Close(); err != nil {
		errs = append(errs, err)
	}
	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) setCameraState(state string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cameraState = state
	a.lastErr = err
}

func (a *App) transitionCallbacks() []TransitionFunc {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]TransitionFunc(nil), a.callbacks...)
}
