package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncGamesStarted()
	IncGamesEnded()
	ObserveGameDuration(minutes float64)
	SetQueueLength(players int)
	SetActiveCourts(courts int)
	IncRejected(kind string)
	IncEventsPublished()
	IncEventsFailed()
	SetStartupTime(duration float64)
}

// MetricsStore keeps lifetime counters that survive restarts.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
