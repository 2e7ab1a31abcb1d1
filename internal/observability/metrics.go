package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce              sync.Once
	requestsTotal             *prometheus.CounterVec
	latencySeconds            *prometheus.HistogramVec
	jurySelectionsTotal       prometheus.Counter
	evaluationsSubmittedTotal prometheus.Counter
	evaluationsRejectedTotal  *prometheus.CounterVec
	gradeComputationsTotal    prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peerjury_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "peerjury_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		jurySelectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peerjury_jury_selections_total",
			Help: "Total number of completed jury selection rounds.",
		})

		evaluationsSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peerjury_evaluations_submitted_total",
			Help: "Total number of accepted evaluation submissions.",
		})

		evaluationsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peerjury_evaluations_rejected_total",
			Help: "Total number of rejected evaluation submissions by reason.",
		}, []string{"reason"})

		gradeComputationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peerjury_grade_computations_total",
			Help: "Total number of final grade computations.",
		})

		prometheus.MustRegister(
			requestsTotal,
			latencySeconds,
			jurySelectionsTotal,
			evaluationsSubmittedTotal,
			evaluationsRejectedTotal,
			gradeComputationsTotal,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// JurySelectionsTotal exposes the counter for jury selection rounds.
func JurySelectionsTotal() prometheus.Counter {
	RegisterMetrics()
	return jurySelectionsTotal
}

// EvaluationsSubmittedTotal exposes the counter for accepted evaluations.
func EvaluationsSubmittedTotal() prometheus.Counter {
	RegisterMetrics()
	return evaluationsSubmittedTotal
}

// EvaluationsRejectedTotal exposes the counter for rejected evaluations.
func EvaluationsRejectedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsRejectedTotal
}

// GradeComputationsTotal exposes the counter for grade computations.
func GradeComputationsTotal() prometheus.Counter {
	RegisterMetrics()
	return gradeComputationsTotal
}
