package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Labels: route (mux pattern), code (HTTP status)
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quiz",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests handled, by route and status code",
	}, []string{"route", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "quiz",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route"})

	// Labels: result (correct, incorrect, rejected)
	answersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "answers_submitted_total",
		Help:      "Answer submissions by outcome",
	}, []string{"result"})
)
