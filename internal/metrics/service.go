package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_games_started_total",
			Help: "The total number of games started on any court.",
		}),
		GamesEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_games_ended_total",
			Help: "The total number of games finished and recorded.",
		}),
		GameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtside_game_duration_minutes",
			Help:    "Recorded duration of finished games.",
			Buckets: []float64{5, 10, 15, 20, 25, 30, 45, 60, 90},
		}),
		QueueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtside_queue_players",
			Help: "Players currently waiting, counting group members.",
		}),
		ActiveCourts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtside_active_courts",
			Help: "Courts with a game in progress.",
		}),
		RejectedCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_rejected_commands_total",
			Help: "Commands rejected by the rotation engine, by failure kind.",
		}, []string{"kind"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_events_published_total",
			Help: "The total number of events published to the event bus.",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_events_failed_total",
			Help: "The total number of events that failed to publish.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtside_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.GamesStarted,
		s.GamesEnded,
		s.GameDuration,
		s.QueueLength,
		s.ActiveCourts,
		s.RejectedCommands,
		s.EventsPublished,
		s.EventsFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncGamesStarted() {
	s.GamesStarted.Inc()
}

func (s *Service) IncGamesEnded() {
	s.GamesEnded.Inc()
}

func (s *Service) ObserveGameDuration(minutes float64) {
	s.GameDuration.Observe(minutes)
}

func (s *Service) SetQueueLength(players int) {
	s.QueueLength.Set(float64(players))
}

func (s *Service) SetActiveCourts(courts int) {
	s.ActiveCourts.Set(float64(courts))
}

func (s *Service) IncRejected(kind string) {
	if kind == "" {
		kind = "Unknown"
	}
	s.RejectedCommands.WithLabelValues(kind).Inc()
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.Inc()
}

func (s *Service) IncEventsFailed() {
	s.EventsFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
