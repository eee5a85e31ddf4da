package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the briefing audio service.
type Metrics struct {
	// Mix pipeline metrics
	MixRequests    *prometheus.CounterVec
	MixFailures    prometheus.Counter
	MixDuration    prometheus.Histogram
	RenderDuration prometheus.Histogram
	OutputSize     prometheus.Histogram
	OutputDuration prometheus.Histogram

	// Resource store metrics
	ActiveResources   prometheus.Gauge
	ResourcesReleased prometheus.Counter

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// Mix pipeline metrics
		MixRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "briefing_mix_requests_total",
			Help: "Total number of mix requests by music style",
		}, []string{"style"}),
		MixFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "briefing_mix_failures_total",
			Help: "Total number of failed mix requests",
		}),
		MixDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "briefing_mix_duration_seconds",
			Help:    "Wall-clock duration of complete mix pipeline runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		}),
		RenderDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "briefing_render_duration_seconds",
			Help:    "Duration of offline render steps",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		OutputSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "briefing_output_size_bytes",
			Help:    "Size of encoded WAV outputs in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KB to ~256MB
		}),
		OutputDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "briefing_output_duration_seconds",
			Help:    "Audio duration of encoded outputs in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~17 minutes
		}),

		// Resource store metrics
		ActiveResources: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "briefing_active_resources",
			Help: "Current number of encoded audio resources held in memory",
		}),
		ResourcesReleased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "briefing_resources_released_total",
			Help: "Total number of audio resources released",
		}),

		// HTTP API metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "briefing_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "briefing_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "briefing_http_errors_total",
			Help: "Total number of HTTP errors",
		}, []string{"method", "endpoint", "error_type"}),
	}
}

// RecordMixRequest increments the mix request counter for a style.
func (m *Metrics) RecordMixRequest(style string) {
	m.MixRequests.WithLabelValues(style).Inc()
}

// RecordMixFailure increments the mix failure counter.
func (m *Metrics) RecordMixFailure() {
	m.MixFailures.Inc()
}

// RecordMixComplete records a successful mix run.
func (m *Metrics) RecordMixComplete(pipelineSeconds, audioSeconds float64, sizeBytes int) {
	m.MixDuration.Observe(pipelineSeconds)
	m.OutputDuration.Observe(audioSeconds)
	m.OutputSize.Observe(float64(sizeBytes))
}

// RecordRenderDuration records an offline render step.
func (m *Metrics) RecordRenderDuration(seconds float64) {
	m.RenderDuration.Observe(seconds)
}

// SetActiveResources sets the current resource count.
func (m *Metrics) SetActiveResources(count int) {
	m.ActiveResources.Set(float64(count))
}

// RecordResourceReleased increments the released counter.
func (m *Metrics) RecordResourceReleased() {
	m.ResourcesReleased.Inc()
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordHTTPError records an HTTP error.
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}
