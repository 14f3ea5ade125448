package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for StudentLookupsTotal
const (
	OutcomeFound     = "found"
	OutcomeNotFound  = "not_found"
	OutcomeInvalidID = "invalid_id"
	OutcomeInvalid   = "invalid_record"
	OutcomeError     = "error"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sumo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sumo_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sumo_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Lookup Metrics
var (
	StudentLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sumo_student_lookups_total",
			Help: "Student lookups by outcome",
		},
		[]string{"outcome"},
	)

	SourceRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sumo_source_request_duration_seconds",
			Help:    "Latency of the student record source",
			Buckets: prometheus.DefBuckets,
		},
	)

	TierResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sumo_tier_resolutions_total",
			Help: "Resolved current tiers of looked-up students",
		},
		[]string{"tier"},
	)

	FeaturedRotations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sumo_featured_rotations_total",
			Help: "Number of featured student rotations",
		},
	)
)
