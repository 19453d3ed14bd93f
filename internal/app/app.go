// Package app wires the MasterHand pipeline together: camera capture,
// hand detection, the gesture core, and the event sink.
package app

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/masterhand/internal/capture"
	"github.com/ayusman/masterhand/internal/detector"
	"github.com/ayusman/masterhand/internal/gesture"
	"github.com/ayusman/masterhand/internal/sink"
	"github.com/ayusman/masterhand/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while nothing moves in front of the camera.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeout is how long without motion before dropping back to idle.
	IdleTimeout = 2 * time.Second
)

// Config holds the application wiring.
type Config struct {
	Store        *store.Store
	Sink         sink.Sink
	Logger       *zap.Logger
	Engine       gesture.Config
	CameraID     int
	MotionThresh float64
}

// App owns the detection pipeline. Processing is strictly frame-at-a-time:
// one goroutine ticks, reads, detects, runs the core, and emits; there is
// no overlap between frames.
type App struct {
	config   Config
	logger   *zap.Logger
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	engine   *gesture.Engine
	sink     sink.Sink
	metrics  *Metrics
	session  *store.Session

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}

	frameListeners []func(*gesture.FrameResult)
	snapListeners  []func(gesture.SnapEvent)
}

// New creates an App from the given configuration. Detection starts
// disabled; the tray (or a test) enables it.
func New(config Config) *App {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0
	}

	a := &App{
		config:  config,
		logger:  logger,
		camera:  capture.NewCamera(config.CameraID),
		motion:  capture.NewMotionDetector(motionThreshold),
		engine:  gesture.NewEngine(config.Engine),
		sink:    config.Sink,
		metrics: NewMetrics(),
	}
	a.engine.OnSnap = a.handleSnap

	// Prefer the MediaPipe service; tests and machines without Python
	// get the mock detector.
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		logger.Info("using MediaPipe hand detection")
	} else {
		logger.Warn("MediaPipe not available, using mock detector", zap.Error(err))
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// SetCamera replaces the camera, for tests driving canned frames.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Engine returns the gesture engine.
func (a *App) Engine() *gesture.Engine {
	return a.engine
}

// Metrics returns the pipeline metrics.
func (a *App) Metrics() *Metrics {
	return a.metrics
}

// Session returns the event-log session for this run, if any.
func (a *App) Session() *store.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// OnFrame registers a listener invoked with every frame result that has
// at least one hand (the debug WebSocket broadcast subscribes here).
// Must be called before Start.
func (a *App) OnFrame(fn func(*gesture.FrameResult)) {
	a.frameListeners = append(a.frameListeners, fn)
}

// OnSnap registers a listener for fired snap events (the tray subscribes
// here). Must be called before Start.
func (a *App) OnSnap(fn func(gesture.SnapEvent)) {
	a.snapListeners = append(a.snapListeners, fn)
}

// Start opens the camera, records a session, and begins the pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	if a.config.Store != nil {
		session, err := a.config.Store.Events().StartSession(string(a.config.Engine.Policy))
		if err != nil {
			a.logger.Error("failed to start event-log session", zap.Error(err))
		} else {
			a.session = session
		}
	}

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	a.logger.Info("detection pipeline started",
		zap.String("policy", string(a.config.Engine.Policy)),
		zap.Bool("classify", a.config.Engine.Classify))
	return nil
}

// Stop halts the pipeline and releases camera and detector resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		a.logger.Error("error closing camera", zap.Error(err))
	}
	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.logger.Error("error closing detector", zap.Error(err))
		}
	}

	a.logger.Info("detection pipeline stopped")
}

// handleSnap is the engine's snap hook: structured log, metrics, event
// log, and registered listeners.
func (a *App) handleSnap(ev gesture.SnapEvent) {
	a.logger.Info("snap detected",
		zap.String("hand", ev.Hand),
		zap.String("policy", string(ev.Policy)),
		zap.Float64("velocity", ev.Velocity))

	a.metrics.snapsFired.WithLabelValues(ev.Hand).Inc()

	a.mu.RLock()
	session := a.session
	a.mu.RUnlock()

	if a.config.Store != nil && session != nil {
		if _, err := a.config.Store.Events().RecordSnap(session.ID, ev.Hand, string(ev.Policy), ev.Velocity); err != nil {
			a.logger.Error("failed to record snap event", zap.Error(err))
		}
	}

	for _, fn := range a.snapListeners {
		fn(ev)
	}
}
