// Package metrics exposes Prometheus instrumentation for ingestion and rendering.
//
// Metrics are registered with the default registry and can be served with
// Handler, typically at /metrics:
//
//   - livechart_records_ingested_total{source}: parsed lines appended to a series
//   - livechart_field_fallbacks_total{source}: fields that parsed as neither number nor timestamp
//   - livechart_tail_errors_total{source}: tailer failures that caused a restart
//   - livechart_tail_reopens_total{source,reason}: truncations and rotations handled
//   - livechart_series_records{source}: current series length
//   - livechart_frames_total{result}: render loop decisions (drawn or skipped)
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "livechart"

var (
	RecordsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_ingested_total",
			Help:      "Lines parsed and appended to a series.",
		},
		[]string{"source"},
	)

	FieldFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_fallbacks_total",
			Help:      "Fields that were neither a number nor a timestamp and became zero.",
		},
		[]string{"source"},
	)

	TailErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tail_errors_total",
			Help:      "Tailer failures handed to the supervisor for restart.",
		},
		[]string{"source"},
	)

	TailReopens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tail_reopens_total",
			Help:      "Times a source file was reopened after truncation or rotation.",
		},
		[]string{"source", "reason"},
	)

	SeriesRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "series_records",
			Help:      "Records currently held by a series.",
		},
		[]string{"source"},
	)

	Frames = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Render decisions, labelled drawn or skipped.",
		},
		[]string{"result"},
	)
)

// RecordIngest counts n parsed records and the fields among them that fell back to zero.
func RecordIngest(source string, n, fallbacks int) {
	RecordsIngested.WithLabelValues(source).Add(float64(n))
	if fallbacks > 0 {
		FieldFallbacks.WithLabelValues(source).Add(float64(fallbacks))
	}
}

func SetSeriesLength(source string, n int) {
	SeriesRecords.WithLabelValues(source).Set(float64(n))
}

func RecordTailError(source string) {
	TailErrors.WithLabelValues(source).Inc()
}

func RecordReopen(source, reason string) {
	TailReopens.WithLabelValues(source, reason).Inc()
}

// RecordFrame counts one render loop decision.
func RecordFrame(drawn bool) {
	result := "skipped"
	if drawn {
		result = "drawn"
	}
	Frames.WithLabelValues(result).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
