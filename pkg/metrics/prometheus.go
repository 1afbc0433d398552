package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the collectors for play sessions.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Sessions
	sessionsStarted  prometheus.Counter
	sessionsFinished prometheus.Counter

	// Judgment
	notesResolved *prometheus.CounterVec
	score         prometheus.Gauge
	liveNotes     prometheus.Gauge
	judgmentPass  prometheus.Histogram

	// Gestures
	samplesAccepted   prometheus.Counter
	samplesDropped    prometheus.Counter
	gesturesCompleted prometheus.Counter

	// Outcome feed
	feedPublished prometheus.Counter
	feedDropped   prometheus.Counter
	feedDepth     prometheus.Gauge

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry served by the binary

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "cutbeat",
		subsystem:        "session",
		histogramBuckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 1e-2},
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sessionsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "started_total",
		Help: "Play sessions created",
	})
	m.sessionsFinished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "finished_total",
		Help: "Play sessions whose notes are all resolved",
	})

	m.notesResolved = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "notes_resolved_total",
		Help: "Resolved notes by outcome",
	}, []string{"outcome"})
	m.score = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "score",
		Help: "Score of the most recently ticked session",
	})
	m.liveNotes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "live_notes",
		Help: "Unresolved notes inside their live window at the last tick",
	})
	m.judgmentPass = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "judgment_pass_duration_seconds",
		Help:    "Wall time spent in one judgment pass",
		Buckets: m.histogramBuckets,
	})

	m.samplesAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "gesture_samples_accepted_total",
		Help: "Gesture samples appended to an active path",
	})
	m.samplesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "gesture_samples_dropped_total",
		Help: "Gesture samples rejected (no active gesture or out of order)",
	})
	m.gesturesCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "gestures_completed_total",
		Help: "Gestures ended and handed to the judge",
	})

	m.feedPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "feed", ConstLabels: m.constLabels,
		Name: "published_total",
		Help: "Resolutions published to the outcome feed",
	})
	m.feedDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "feed", ConstLabels: m.constLabels,
		Name: "dropped_total",
		Help: "Resolutions rejected by the outcome feed (full, closed or cancelled)",
	})
	m.feedDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "feed", ConstLabels: m.constLabels,
		Name: "depth",
		Help: "Resolutions waiting in the outcome feed",
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: m.constLabels,
		Name: "memory_usage_bytes",
		Help: "Heap bytes allocated",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: m.constLabels,
		Name: "goroutine_count",
		Help: "Number of goroutines",
	})
}

// RecordSessionStarted counts a new session.
func (m *Manager) RecordSessionStarted() {
	if m.enabled {
		m.sessionsStarted.Inc()
	}
}

// RecordSessionFinished counts a session that resolved its last note.
func (m *Manager) RecordSessionFinished() {
	if m.enabled {
		m.sessionsFinished.Inc()
	}
}

// RecordResolution counts one resolved note under its outcome label.
func (m *Manager) RecordResolution(outcome string) {
	if m.enabled {
		m.notesResolved.WithLabelValues(outcome).Inc()
	}
}

// UpdateScore sets the score gauge.
func (m *Manager) UpdateScore(score int) {
	if m.enabled {
		m.score.Set(float64(score))
	}
}

// UpdateLiveNotes sets the live notes gauge.
func (m *Manager) UpdateLiveNotes(n int) {
	if m.enabled {
		m.liveNotes.Set(float64(n))
	}
}

// RecordJudgmentPass observes the duration of one judgment pass.
func (m *Manager) RecordJudgmentPass(d time.Duration) {
	if m.enabled {
		m.judgmentPass.Observe(d.Seconds())
	}
}

// RecordSample counts an accepted or dropped gesture sample.
func (m *Manager) RecordSample(accepted bool) {
	if !m.enabled {
		return
	}
	if accepted {
		m.samplesAccepted.Inc()
		return
	}
	m.samplesDropped.Inc()
}

// RecordGestureCompleted counts a gesture handed to the judge.
func (m *Manager) RecordGestureCompleted() {
	if m.enabled {
		m.gesturesCompleted.Inc()
	}
}

// RecordFeedPublish counts a feed publish; dropped marks an overwrite or rejection.
func (m *Manager) RecordFeedPublish(dropped bool) {
	if !m.enabled {
		return
	}
	m.feedPublished.Inc()
	if dropped {
		m.feedDropped.Inc()
	}
}

// UpdateFeedDepth sets the feed depth gauge.
func (m *Manager) UpdateFeedDepth(n int) {
	if m.enabled {
		m.feedDepth.Set(float64(n))
	}
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// Default returns the process-wide manager bound to GetRegistry.
func Default() *Manager {
	return globalManager
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
