// Package metrics exposes the countdown's Prometheus instrumentation.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all countdown metrics.
type Registry struct {
	// Countdown metrics
	DaysRemaining    prometheus.Gauge
	ProgressPercent  prometheus.Gauge
	TicksTotal       prometheus.Counter
	TargetSet        prometheus.Gauge
	MilestoneCrossed *prometheus.CounterVec

	// Target lifecycle
	ValidationRejections *prometheus.CounterVec
	StoreErrors          *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests    *prometheus.CounterVec
	HTTPRateLimited prometheus.Counter
	HTTPLatency     *prometheus.HistogramVec

	// System metrics
	Uptime prometheus.Gauge
}

// Get returns the global metrics registry, creating it if necessary.
// Metrics are registered with the Prometheus default registerer.
func Get() *Registry {
	once.Do(func() {
		registry = NewRegistry(prometheus.DefaultRegisterer)
	})
	return registry
}

// NewRegistry creates the metric set and registers it with reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	f := promauto.With(reg)
	r := &Registry{}

	r.DaysRemaining = f.NewGauge(prometheus.GaugeOpts{
		Name: "countdown_days_remaining",
		Help: "Whole days remaining until the target date",
	})

	r.ProgressPercent = f.NewGauge(prometheus.GaugeOpts{
		Name: "countdown_progress_percent",
		Help: "Elapsed share of the countdown span, 0 to 100",
	})

	r.TicksTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "countdown_ticks_total",
		Help: "Total countdown recomputations",
	})

	r.TargetSet = f.NewGauge(prometheus.GaugeOpts{
		Name: "countdown_target_set",
		Help: "1 if a user-chosen target date is persisted, 0 if the default is in use",
	})

	r.MilestoneCrossed = f.NewCounterVec(prometheus.CounterOpts{
		Name: "countdown_milestone_transitions_total",
		Help: "Celebration triggers crossed, by trigger day count",
	}, []string{"trigger"})

	r.ValidationRejections = f.NewCounterVec(prometheus.CounterOpts{
		Name: "countdown_validation_rejections_total",
		Help: "Target date candidates rejected by validation",
	}, []string{"reason"})

	r.StoreErrors = f.NewCounterVec(prometheus.CounterOpts{
		Name: "countdown_store_errors_total",
		Help: "Target date store failures",
	}, []string{"op"})

	r.HTTPRequests = f.NewCounterVec(prometheus.CounterOpts{
		Name: "countdown_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "code"})

	r.HTTPRateLimited = f.NewCounter(prometheus.CounterOpts{
		Name: "countdown_http_rate_limited_total",
		Help: "HTTP requests rejected by the per-client rate limiter",
	})

	r.HTTPLatency = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "countdown_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	r.Uptime = f.NewGauge(prometheus.GaugeOpts{
		Name: "countdown_uptime_seconds",
		Help: "Process uptime in seconds",
	})

	return r
}

// RecordTick records one countdown recomputation.
func (r *Registry) RecordTick(daysRemaining int, progress float64) {
	r.TicksTotal.Inc()
	r.DaysRemaining.Set(float64(daysRemaining))
	r.ProgressPercent.Set(progress)
}

// RecordMilestone records a crossed celebration trigger.
func (r *Registry) RecordMilestone(trigger int) {
	r.MilestoneCrossed.WithLabelValues(strconv.Itoa(trigger)).Inc()
}

// RecordTargetPersisted reports whether a user target is stored.
func (r *Registry) RecordTargetPersisted(set bool) {
	if set {
		r.TargetSet.Set(1)
	} else {
		r.TargetSet.Set(0)
	}
}

// RecordRejection records a rejected target candidate.
func (r *Registry) RecordRejection(reason string) {
	r.ValidationRejections.WithLabelValues(reason).Inc()
}

// RecordStoreError records a failed store operation ("read", "write" or "clear").
func (r *Registry) RecordStoreError(op string) {
	r.StoreErrors.WithLabelValues(op).Inc()
}

// RecordHTTPRequest records an HTTP request.
func (r *Registry) RecordHTTPRequest(method string, status int, duration time.Duration) {
	r.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	r.HTTPLatency.WithLabelValues(method).Observe(duration.Seconds())
	if status == 429 {
		r.HTTPRateLimited.Inc()
	}
}
