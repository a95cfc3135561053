package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry

	matchesStarted   prometheus.Counter
	matchesFinished  prometheus.Counter
	roundsResolved   prometheus.Counter
	rejectedCommands *prometheus.CounterVec
	liveMatches      prometheus.Gauge
	droppedEvents    prometheus.Counter

	droppedNotifications prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		matchesStarted: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "cardbattles_matches_started_total", Help: "Matches started"},
		),
		matchesFinished: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "cardbattles_matches_finished_total", Help: "Matches played to the last round"},
		),
		roundsResolved: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "cardbattles_rounds_resolved_total", Help: "Rounds resolved"},
		),
		rejectedCommands: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "cardbattles_rejected_commands_total", Help: "Commands rejected by status"},
			[]string{"status"},
		),
		liveMatches: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "cardbattles_live_matches", Help: "Matches held in memory"},
		),
		droppedEvents: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "cardbattles_dropped_events_total", Help: "Events dropped because the recorder queue was full"},
		),
		droppedNotifications: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "cardbattles_dropped_notifications_total", Help: "Phase changes not pushed because the notifier queue was full"},
		),
	}
	m.registry.MustRegister(
		m.matchesStarted,
		m.matchesFinished,
		m.roundsResolved,
		m.rejectedCommands,
		m.liveMatches,
		m.droppedEvents,
		m.droppedNotifications,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
