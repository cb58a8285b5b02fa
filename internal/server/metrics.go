package server

import "github.com/prometheus/client_golang/prometheus"

var (
	sessionsSaved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "corevia",
		Subsystem: "sessions",
		Name:      "saved_total",
		Help:      "Workout sessions successfully persisted.",
	})
	saveFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corevia",
		Subsystem: "sessions",
		Name:      "save_failures_total",
		Help:      "Failed save attempts by reason.",
	}, []string{"reason"})
	recordingsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "corevia",
		Subsystem: "sessions",
		Name:      "recordings_started_total",
		Help:      "Recording sessions started.",
	})
)

func init() {
	prometheus.MustRegister(sessionsSaved, saveFailures, recordingsStarted)
}
