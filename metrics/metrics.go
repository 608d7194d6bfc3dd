// Package metrics exposes the Trip Manager's Prometheus instrumentation,
// grounded on rideshare-platform's shared/metrics package: package-level
// promauto collectors registered once at import time, scraped by
// server.Server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TripsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmanager_trips_created_total",
			Help: "Total number of trips created via new_trip.",
		},
		[]string{"mode"},
	)

	TripsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmanager_trips_finished_total",
			Help: "Total number of trips that finished successfully.",
		},
		[]string{"mode"},
	)

	TripsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmanager_trips_cancelled_total",
			Help: "Total number of trips cancelled, labeled by reason.",
		},
		[]string{"reason"},
	)

	ActiveAgents = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tripmanager_active_agents",
			Help: "Number of agents currently bound in the active-agent registry, by type.",
		},
		[]string{"agent_type"},
	)

	UnfinishedTrips = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tripmanager_unfinished_trips",
			Help: "Number of trips with neither finished_at nor a cancellation reason.",
		},
	)

	DelayedTripsQueued = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tripmanager_delayed_trips_queued",
			Help: "Total trips currently waiting in a person's delayed-trip FIFO across all people.",
		},
	)

	Alerts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tripmanager_alerts_total",
			Help: "Total number of Alert events emitted (one per abandoned-vehicle warp, successful or not).",
		},
	)
)
