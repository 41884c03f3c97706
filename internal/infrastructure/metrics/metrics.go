// Package metrics provides Prometheus instrumentation for the PaySphere demo.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "paysphere"

// Submission results.
const (
	SubmissionAccepted = "accepted"
	SubmissionInvalid  = "invalid"
	SubmissionInFlight = "in_flight"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// SubmissionsTotal counts demo form submissions by result.
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "demo_submissions_total",
			Help:      "Total demo form submissions by result.",
		},
		[]string{"result"},
	)

	// DecisionsTotal counts rendered decisions by outcome.
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "demo_decisions_total",
			Help:      "Total demo decisions by outcome.",
		},
		[]string{"outcome"},
	)

	// RiskScore observes the score of every decided cycle.
	RiskScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "demo_risk_score",
		Help:      "Risk score of decided demo cycles.",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	})

	// CycleResetsTotal counts resets by the stage they interrupted.
	CycleResetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "demo_cycle_resets_total",
			Help:      "Total demo cycle resets by interrupted stage.",
		},
		[]string{"from_stage"},
	)

	// EventsPublishedTotal counts domain events handed to the publisher.
	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total domain events published by type and result.",
		},
		[]string{"event_type", "result"},
	)

	// ChatMessagesTotal counts chat questions by matched topic.
	ChatMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_messages_total",
			Help:      "Total chat questions by matched topic.",
		},
		[]string{"topic"},
	)

	// FeedbackTotal counts feedback submissions by result.
	FeedbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_submissions_total",
			Help:      "Total feedback submissions by result.",
		},
		[]string{"result"},
	)

	// ActiveSessions tracks live demo sessions.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live demo sessions.",
		},
	)

	// ActiveWebSocketClients tracks connected WebSocket clients.
	ActiveWebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_websocket_clients",
			Help:      "Number of currently connected WebSocket clients.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		SubmissionsTotal,
		DecisionsTotal,
		RiskScore,
		CycleResetsTotal,
		EventsPublishedTotal,
		ChatMessagesTotal,
		FeedbackTotal,
		ActiveSessions,
		ActiveWebSocketClients,
	)
}
