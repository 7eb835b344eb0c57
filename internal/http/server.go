package http

import (
	"net/http"

	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/processor"
	"github.com/mauv0809/courtside/internal/pubsub"
)

func NewServer(svc club.ClubService, proc *processor.Processor, bus pubsub.PubSubClient, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Club:           svc,
		Processor:      proc,
		Bus:            bus,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /state", Chain(s.StateHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats", Chain(s.StatsHandler(), paramsMiddleware))
	s.Router.Handle("GET /history", Chain(s.HistoryHandler(), paramsMiddleware))

	s.Router.Handle("POST /queue", Chain(s.JoinQueueHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /queue/{index}", Chain(s.LeaveQueueHandler(), paramsMiddleware))
	s.Router.Handle("POST /queue/reorder", Chain(s.ReorderQueueHandler(), paramsMiddleware))
	s.Router.Handle("POST /queue/optimize", Chain(s.OptimizeQueueHandler(), paramsMiddleware))
	s.Router.Handle("GET /queue/wait/{index}", Chain(s.WaitHandler(), paramsMiddleware))

	s.Router.Handle("GET /next", Chain(s.NextGameHandler(), paramsMiddleware))
	s.Router.Handle("POST /next/start", Chain(s.StartNextGameHandler(), paramsMiddleware))

	s.Router.Handle("POST /groups", Chain(s.CreateGroupHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /groups/{id}", Chain(s.DeleteGroupHandler(), paramsMiddleware))
	s.Router.Handle("POST /groups/{id}/enqueue", Chain(s.EnqueueGroupHandler(), paramsMiddleware))

	s.Router.Handle("POST /courts/{id}/start", Chain(s.StartGameHandler(), paramsMiddleware))
	s.Router.Handle("POST /courts/{id}/end", Chain(s.EndGameHandler(), paramsMiddleware))
	s.Router.Handle("POST /courts/{id}/score", Chain(s.ScoreHandler(), paramsMiddleware))
	s.Router.Handle("POST /courts/{id}/skill", Chain(s.CourtSkillHandler(), paramsMiddleware))
	s.Router.Handle("POST /courts/{id}/timer", Chain(s.TimerHandler(), paramsMiddleware))
	s.Router.Handle("GET /courts/{id}/available", Chain(s.AvailableHandler(), paramsMiddleware))
	s.Router.Handle("POST /courts/{id}/schedule", Chain(s.ScheduleHandler(), paramsMiddleware))
	s.Router.Handle("POST /courts/{id}/schedule/extend", Chain(s.ExtendScheduleHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /courts/{id}/schedule", Chain(s.ClearScheduleHandler(), paramsMiddleware))

	s.Router.Handle("POST /players/skill", Chain(s.PlayerSkillHandler(), paramsMiddleware))
	s.Router.Handle("POST /players/bulk", Chain(s.BulkRegisterHandler(), paramsMiddleware))
	s.Router.Handle("PATCH /settings", Chain(s.SettingsHandler(), paramsMiddleware))
	s.Router.Handle("POST /reset", Chain(s.ResetHandler(), paramsMiddleware))
	s.Router.Handle("POST /housekeeping", Chain(s.HousekeepingHandler(), paramsMiddleware))

	s.Router.Handle("POST /pubsub/check-in", Chain(s.CheckInPushHandler(), paramsMiddleware))
	s.Router.Handle("POST /pubsub/court-finished", Chain(s.CourtFinishedPushHandler(), paramsMiddleware))

	s.Router.Handle("POST /slack/command/queue", Chain(s.QueueCommandHandler(), paramsMiddleware, s.slackVerifyMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
