// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_stage_transitions_total",
			Help: "Total number of stage machine decisions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_notifications_total",
			Help: "Total number of outbound notifications by type and status",
		},
		[]string{"type", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "onboarding_request_duration_seconds",
			Help: "Duration of request handling in seconds",
		},
		[]string{"action"},
	)

	IntakeDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "onboarding_intake_dropped_total",
			Help: "Total number of intake submissions dropped by validation",
		},
	)
)
