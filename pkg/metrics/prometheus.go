package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions   *prometheus.CounterVec
	trainings     *prometheus.CounterVec
	providerCalls *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	lastPredicted *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_predictions_total",
				Help: "Total number of predictions served",
			},
			[]string{"kind", "ticker"},
		),
		trainings: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_trainings_total",
				Help: "Total number of training runs",
			},
			[]string{"ticker", "outcome"},
		),
		providerCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_provider_calls_total",
				Help: "Total number of market-data provider calls",
			},
			[]string{"op"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPredicted: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_last_predicted_price",
				Help: "Last predicted price for a ticker",
			},
			[]string{"ticker"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPrediction records a served prediction. Kind is "calendar", "legacy"
// or "simple".
func (r *Recorder) RecordPrediction(kind, ticker string) {
	r.predictions.WithLabelValues(kind, ticker).Inc()
}

// RecordTraining records a training run outcome ("ok" or "failed").
func (r *Recorder) RecordTraining(ticker, outcome string) {
	r.trainings.WithLabelValues(ticker, outcome).Inc()
}

// RecordProviderCall records a market-data provider call.
func (r *Recorder) RecordProviderCall(op string) {
	r.providerCalls.WithLabelValues(op).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPredicted records the last predicted price for a ticker.
func (r *Recorder) RecordLastPredicted(ticker string, price float64) {
	r.lastPredicted.WithLabelValues(ticker).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
