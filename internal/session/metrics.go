package session

import (
	"github.com/prometheus/client_golang/prometheus"

	"oxrsession/internal/xr"
)

var (
	framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oxr",
			Name:      "frames_total",
			Help:      "Ticks by outcome (rendered, empty, skipped, failed)",
		},
		[]string{"outcome"},
	)

	frameWaitSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "oxr",
			Name:      "frame_wait_seconds",
			Help:      "Time blocked in wait-frame",
			Buckets:   []float64{0.001, 0.002, 0.005, 0.008, 0.011, 0.014, 0.02, 0.05, 0.1},
		},
	)

	imageWaitSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "oxr",
			Name:      "image_wait_seconds",
			Help:      "Time blocked waiting for a swapchain image",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.05},
		},
	)

	callFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oxr",
			Name:      "call_failures_total",
			Help:      "Failed XR runtime calls",
		},
		[]string{"call"},
	)

	sessionStateGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "oxr",
			Name:      "session_state",
			Help:      "Current XrSessionState value",
		},
	)

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oxr",
			Name:      "events_total",
			Help:      "Runtime events drained by type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(framesTotal, frameWaitSeconds, imageWaitSeconds, callFailuresTotal, sessionStateGauge, eventsTotal)
}

func observeState(s xr.SessionState) {
	sessionStateGauge.Set(float64(s))
}
