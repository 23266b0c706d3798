package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the serving instrumentation.
type Metrics struct {
	// Traffic and latency per prediction domain.
	PredictionsTotal   *prometheus.CounterVec
	PredictionDuration *prometheus.HistogramVec

	// Registry activity.
	ModelLoadsTotal *prometheus.CounterVec
	ModelsCached    prometheus.Gauge

	// Monitoring hook backpressure.
	LogRecordsDropped prometheus.Counter
}

// New registers the metric set on reg. A nil registerer gets a private
// registry, so callers that do not export metrics can still pass the bundle
// around without nil checks.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		PredictionsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "inference_predictions_total",
			Help: "Total prediction requests by domain and outcome.",
		}, []string{"domain", "status"}),

		PredictionDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inference_prediction_duration_seconds",
			Help:    "Histogram of prediction pipeline latencies.",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"domain"}),

		ModelLoadsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "inference_model_loads_total",
			Help: "Model loads from storage by model and result.",
		}, []string{"model", "result"}),

		ModelsCached: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "inference_models_cached",
			Help: "Number of model artifacts currently cached.",
		}),

		LogRecordsDropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "inference_log_records_dropped_total",
			Help: "Prediction log records dropped because the buffer was full.",
		}),
	}
}
