package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels completed predictions.
	OutcomeSuccess = "success"
	// OutcomeError labels failed predictions (validation rejects happen earlier).
	OutcomeError = "error"
)

var (
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sentiment_engine",
			Name:      "predictions_total",
			Help:      "Total number of predictions handled, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	predictionDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sentiment_engine",
			Name:      "prediction_seconds",
			Help:      "Prediction latency in seconds, inference plus optional enhancement.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	enhancementFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sentiment_engine",
			Name:      "enhancement_fallbacks_total",
			Help:      "Enhancement calls answered by the local deterministic path.",
		},
	)
)

// Register attaches the service collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		predictionsTotal,
		predictionDurationSeconds,
		enhancementFallbacksTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObservePrediction records a prediction duration and outcome label.
func ObservePrediction(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	predictionsTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	predictionDurationSeconds.Observe(duration.Seconds())
}

// ObserveEnhancementFallback counts a degrade to the local path.
func ObserveEnhancementFallback() {
	enhancementFallbacksTotal.Inc()
}
