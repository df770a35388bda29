package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	// HTTPRequestsTotal tracks requests by route, method and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"route", "method"},
	)
)

// Auth Metrics
var (
	// LoginAttemptsTotal tracks login attempts by result (success, invalid, error)
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Total login attempts by result",
		},
		[]string{"result"},
	)

	// RegistrationsTotal tracks registrations by result (created, conflict, invalid, error)
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total registration attempts by result",
		},
		[]string{"result"},
	)

	// TokenRejectionsTotal tracks bearer tokens refused by the auth middleware
	TokenRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_token_rejections_total",
			Help: "Total bearer tokens rejected as missing or invalid",
		},
	)
)
