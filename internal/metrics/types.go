package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	GamesStarted       prometheus.Counter
	GamesEnded         prometheus.Counter
	GameDuration       prometheus.Histogram
	QueueLength        prometheus.Gauge
	ActiveCourts       prometheus.Gauge
	RejectedCommands   *prometheus.CounterVec
	EventsPublished    prometheus.Counter
	EventsFailed       prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// Counter keys persisted by MetricsStore.
const (
	KeyGamesStarted = "games_started"
	KeyGamesEnded   = "games_ended"
	KeyPlayersSeen  = "players_registered"
)
