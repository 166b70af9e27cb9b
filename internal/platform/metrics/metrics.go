// Package metrics registers the Prometheus metrics for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RecordsUploaded   prometheus.Counter
	AnnotationUpdates prometheus.Counter
	RecordsDeleted    prometheus.Counter
	LoginAttempts     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers all metrics on the given registerer. Tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration across cases.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecordsUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "signalviz_records_uploaded_total",
			Help: "Total number of assessment records accepted by upload",
		}),
		AnnotationUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "signalviz_annotation_updates_total",
			Help: "Total number of annotation patch operations applied",
		}),
		RecordsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "signalviz_records_deleted_total",
			Help: "Total number of assessment records deleted",
		}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signalviz_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signalviz_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
