package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const subsystem = "station_dispatch"

var (
	// TasksDispatched counts side-effect tasks processed by the worker,
	// labelled by task kind.
	TasksDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "tasks_dispatched_total",
			Help:      "Count of side-effect tasks processed by the dispatcher.",
		},
		[]string{"kind"},
	)

	// TasksFailed counts side-effect tasks whose handler returned an error.
	// Failures are logged and swallowed; this is the only way they surface.
	TasksFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "tasks_failed_total",
			Help:      "Count of side-effect tasks that failed after commit.",
		},
		[]string{"kind"},
	)

	// TasksDropped counts tasks rejected because the queue was full.
	TasksDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "tasks_dropped_total",
			Help:      "Count of side-effect tasks dropped on a full queue.",
		},
		[]string{"kind"},
	)
)
