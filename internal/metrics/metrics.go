package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourdesk_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	StatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourdesk_booking_status_transitions_total",
		Help: "Booking status transition outcomes",
	}, []string{"from", "to", "outcome"})

	DashboardRecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tourdesk_dashboard_recompute_duration_seconds",
		Help:    "Monthly stats recompute duration",
		Buckets: prometheus.DefBuckets,
	})

	DashboardCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourdesk_dashboard_cache_total",
		Help: "Dashboard cache lookups",
	}, []string{"result"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourdesk_notifications_total",
		Help: "Booking notification outcomes",
	}, []string{"outcome"})

	LegacyImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourdesk_legacy_imports_total",
		Help: "Legacy booking import record outcomes",
	}, []string{"outcome"})
)
