package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK        = "ok"
	OutcomeNetwork   = "network_failure"
	OutcomeRejected  = "rejected"
	OutcomeEmpty     = "empty"
	OutcomeMalformed = "malformed"
)

var (
	RemoteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notesync_remote_requests_total",
		Help: "Requests sent to the sync API by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	RemoteRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notesync_remote_request_duration_seconds",
		Help:    "Latency of sync API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notesync_http_requests_total",
		Help: "HTTP requests served by route, method and status",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notesync_http_request_duration_seconds",
		Help:    "Latency of served HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	HistorySessionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notesync_history_sessions_open",
		Help: "History sessions currently open",
	})

	HistoryStaleResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notesync_history_stale_responses_total",
		Help: "History responses discarded because a newer request superseded them",
	}, []string{"kind"})

	HistoryRestores = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notesync_history_restores_total",
		Help: "History restore attempts by outcome",
	}, []string{"outcome"})

	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notesync_websocket_connections",
		Help: "Browser notification connections currently registered",
	})
)
