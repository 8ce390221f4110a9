package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatcherRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barganito_matcher_runs_total",
		Help: "Completed alert matcher runs by outcome.",
	}, []string{"outcome"})

	MatcherRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "barganito_matcher_run_duration_seconds",
		Help:    "Wall-clock duration of one alert matcher run.",
		Buckets: prometheus.DefBuckets,
	})

	AlertsChecked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barganito_matcher_alerts_checked_total",
		Help: "Alert configs evaluated across matcher runs.",
	})

	NotificationsTriggered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barganito_matcher_notifications_triggered_total",
		Help: "Notifications dispatched by the alert matcher.",
	})

	DispatchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barganito_matcher_dispatch_errors_total",
		Help: "Notification dispatch failures inside matcher runs.",
	})

	PromotionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barganito_promotions_swept_total",
		Help: "Promotions deactivated by the expiry sweeper.",
	})
)
