/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package stream

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/acronis/go-fakesocket/internal/libinfo"
)

// Values of the "direction" label.
const (
	DirectionRead  = "read"
	DirectionWrite = "write"
)

const directionLabel = "direction"

// MetricsCollector represents a collector of metrics to analyze how the throttling policy affects stream operations.
type MetricsCollector interface {
	// IncReadAttempts increments the total number of read attempts.
	IncReadAttempts()
	// IncReadRejections increments the total number of read attempts rejected by the policy.
	IncReadRejections()
	// AddReadBytes increments the total number of read bytes.
	AddReadBytes(int)

	IncWriteAttempts()
	IncWriteRejections()
	AddWrittenBytes(int)
}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is a namespace for metrics. It will be prepended to all metric names.
	Namespace string

	// ConstLabels is a set of labels that will be applied to all metrics.
	ConstLabels prometheus.Labels

	// CurriedLabelNames is a list of label names that will be curried with the provided labels.
	// See PrometheusMetrics.MustCurryWith method for more details.
	// Keep in mind that if this list is not empty,
	// PrometheusMetrics.MustCurryWith method must be called further with the same labels.
	// Otherwise, the collector will panic.
	CurriedLabelNames []string
}

// PrometheusMetrics represents Prometheus metrics for fake streams.
type PrometheusMetrics struct {
	AttemptsTotal   *prometheus.CounterVec
	RejectionsTotal *prometheus.CounterVec
	BytesTotal      *prometheus.CounterVec
}

// NewPrometheusMetrics creates a new instance of PrometheusMetrics with default options.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{})
}

// NewPrometheusMetricsWithOpts creates a new instance of PrometheusMetrics with the provided options.
func NewPrometheusMetricsWithOpts(opts PrometheusMetricsOpts) *PrometheusMetrics {
	labelNames := make([]string, 0, len(opts.CurriedLabelNames)+1)
	labelNames = append(labelNames, opts.CurriedLabelNames...)
	labelNames = append(labelNames, directionLabel)
	constLabels := libinfo.AddPrometheusLibVersionLabel(opts.ConstLabels)

	attemptsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "fake_stream_attempts_total",
			Help:        "Number of read and write attempts on fake streams.",
			ConstLabels: constLabels,
		},
		labelNames,
	)

	rejectionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "fake_stream_rejections_total",
			Help:        "Number of read and write attempts rejected by the throttling policy.",
			ConstLabels: constLabels,
		},
		labelNames,
	)

	bytesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "fake_stream_bytes_total",
			Help:        "Number of bytes read from and written to fake streams.",
			ConstLabels: constLabels,
		},
		labelNames,
	)

	return &PrometheusMetrics{
		AttemptsTotal:   attemptsTotal,
		RejectionsTotal: rejectionsTotal,
		BytesTotal:      bytesTotal,
	}
}

// MustCurryWith curries the metrics collector with the provided labels.
func (pm *PrometheusMetrics) MustCurryWith(labels prometheus.Labels) *PrometheusMetrics {
	return &PrometheusMetrics{
		AttemptsTotal:   pm.AttemptsTotal.MustCurryWith(labels),
		RejectionsTotal: pm.RejectionsTotal.MustCurryWith(labels),
		BytesTotal:      pm.BytesTotal.MustCurryWith(labels),
	}
}

// MustRegister does registration of metrics collector in Prometheus and panics if any error occurs.
func (pm *PrometheusMetrics) MustRegister() {
	prometheus.MustRegister(
		pm.AttemptsTotal,
		pm.RejectionsTotal,
		pm.BytesTotal,
	)
}

// Unregister cancels registration of metrics collector in Prometheus.
func (pm *PrometheusMetrics) Unregister() {
	prometheus.Unregister(pm.AttemptsTotal)
	prometheus.Unregister(pm.RejectionsTotal)
	prometheus.Unregister(pm.BytesTotal)
}

// IncReadAttempts increments the total number of read attempts.
func (pm *PrometheusMetrics) IncReadAttempts() {
	pm.AttemptsTotal.WithLabelValues(DirectionRead).Inc()
}

// IncReadRejections increments the total number of rejected read attempts.
func (pm *PrometheusMetrics) IncReadRejections() {
	pm.RejectionsTotal.WithLabelValues(DirectionRead).Inc()
}

// AddReadBytes increments the total number of read bytes.
func (pm *PrometheusMetrics) AddReadBytes(n int) {
	pm.BytesTotal.WithLabelValues(DirectionRead).Add(float64(n))
}

// IncWriteAttempts increments the total number of write attempts.
func (pm *PrometheusMetrics) IncWriteAttempts() {
	pm.AttemptsTotal.WithLabelValues(DirectionWrite).Inc()
}

// IncWriteRejections increments the total number of rejected write attempts.
func (pm *PrometheusMetrics) IncWriteRejections() {
	pm.RejectionsTotal.WithLabelValues(DirectionWrite).Inc()
}

// AddWrittenBytes increments the total number of written bytes.
func (pm *PrometheusMetrics) AddWrittenBytes(n int) {
	pm.BytesTotal.WithLabelValues(DirectionWrite).Add(float64(n))
}

type disabledMetrics struct{}

func (disabledMetrics) IncReadAttempts()    {}
func (disabledMetrics) IncReadRejections()  {}
func (disabledMetrics) AddReadBytes(int)    {}
func (disabledMetrics) IncWriteAttempts()   {}
func (disabledMetrics) IncWriteRejections() {}
func (disabledMetrics) AddWrittenBytes(int) {}

var disabledMetricsCollector = disabledMetrics{}
