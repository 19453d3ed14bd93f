package app

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts pipeline activity for the /metrics endpoint. Each App
// owns its registry so tests can build apps side by side.
type Metrics struct {
	registry *prometheus.Registry

	framesProcessed prometheus.Counter
	framesSkipped   prometheus.Counter
	handsObserved   prometheus.Counter
	snapsFired      *prometheus.CounterVec
	detectorErrors  prometheus.Counter
	cameraErrors    prometheus.Counter
}

// NewMetrics creates and registers the pipeline metric set.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		framesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "masterhand_frames_processed_total",
			Help: "Frames that went through detection and the gesture core.",
		}),
		framesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "masterhand_frames_skipped_total",
			Help: "Frames dropped before detection (idle mode or read failure).",
		}),
		handsObserved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "masterhand_hands_observed_total",
			Help: "Hand observations processed by the gesture core.",
		}),
		snapsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "masterhand_snaps_fired_total",
			Help: "Snap events fired, by hand side.",
		}, []string{"hand"}),
		detectorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "masterhand_detector_errors_total",
			Help: "Hand detection failures.",
		}),
		cameraErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "masterhand_camera_errors_total",
			Help: "Camera frame read failures.",
		}),
	}

	m.registry.MustRegister(
		m.framesProcessed,
		m.framesSkipped,
		m.handsObserved,
		m.snapsFired,
		m.detectorErrors,
		m.cameraErrors,
	)
	return m
}

// Registry exposes the registry for the HTTP metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
