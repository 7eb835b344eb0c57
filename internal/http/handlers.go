package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/rotation"
)

const defaultHistoryLimit = 50

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// respondState answers a mutation with the facility as it now stands.
func (s *Server) respondState(w http.ResponseWriter, status int) {
	writeJSON(w, status, s.Club.Snapshot())
}

func (s *Server) StateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondState(w, http.StatusOK)
	}
}

func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Club.Stats()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) HistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				log.Warn("Invalid 'limit' parameter provided. Using default.", "limit_param", raw)
			} else {
				limit = parsed
			}
		}
		records, err := s.Club.History(limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if records == nil {
			records = []rotation.GameRecord{}
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func (s *Server) JoinQueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := s.Club.JoinQueue(req.Name); err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusCreated)
	}
}

func (s *Server) LeaveQueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := pathInt(r, "index")
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"removed": s.Club.LeaveQueue(index)})
	}
}

func (s *Server) ReorderQueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := s.Club.ReorderQueue(req.From, req.To); err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusOK)
	}
}

func (s *Server) OptimizeQueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Club.OptimizeQueue(); err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusOK)
	}
}

func (s *Server) WaitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := pathInt(r, "index")
		if err != nil {
			writeError(w, err)
			return
		}
		minutes, err := s.Club.EstimatedWait(index)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, waitResponse{Index: index, Minutes: minutes, Display: rotation.FormatWait(minutes)})
	}
}

func (s *Server) NextGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		preview, err := s.Club.NextGamePreview()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, preview)
	}
}

func (s *Server) StartNextGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courtID, sel, err := s.Club.StartNextGame()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, startResponse{CourtID: courtID, Selection: sel})
	}
}

func (s *Server) CreateGroupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		group, err := s.Club.CreateGroup(req.Name, req.Players)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, group)
	}
}

func (s *Server) DeleteGroupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Club.DeleteGroup(r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusOK)
	}
}

func (s *Server) EnqueueGroupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Club.EnqueueGroup(r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusOK)
	}
}

func (s *Server) StartGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courtID, err := pathInt(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		sel, err := s.Club.StartGame(courtID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, startResponse{CourtID: courtID, Selection: sel})
	}
}

func (s *Server) EndGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courtID, err := pathInt(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		record, err := s.Club.EndGame(courtID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func (s *Server) ScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courtID, err := pathInt(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		var req scoreRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := s.Club.UpdateScore(courtID, rotation.Team(req.Team), req.Value); err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusOK)
	}
}

func (s *Server) CourtSkillHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courtID, err := pathInt(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		var req courtSkillRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		var level *rotation.SkillLevel
		if req.Level != nil && *req.Level != "" {
			parsed, err := rotation.ParseSkillLevel(*req.Level)
			if err != nil {
				writeError(w, err)
				return
			}
			level = &parsed
		}
		if err := s.Club.AssignCourtSkill(courtID, level); err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusOK)
	}
}

func (s *Server) TimerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courtID, err := pathInt(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		var req timerRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		switch req.Action {
		case "start":
			err = s.Club.StartTimer(courtID)
		case "pause":
			err = s.Club.PauseTimer(courtID)
		case "set":
			err = s.Club.UpdateTimerElapsed(courtID, time.Duration(req.ElapsedMs)*time.Millisecond)
		default:
			err = fmt.Errorf("%w: %w", rotation.ErrInvalidArgument, errUnknownTimerAction)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusOK)
	}
}

func (s *Server) AvailableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courtID, err := pathInt(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"available": s.Club.IsCourtAvailable(courtID)})
	}
}

func (s *Server) ScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courtID, err := pathInt(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		var req scheduleRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := s.Club.ScheduleCourt(courtID, req.Hours, req.RentedBy); err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusCreated)
	}
}

func (s *Server) ExtendScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courtID, err := pathInt(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		var req scheduleRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := s.Club.ExtendSchedule(courtID, req.Hours); err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusOK)
	}
}

func (s *Server) ClearScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courtID, err := pathInt(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Club.ClearSchedule(courtID); err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusOK)
	}
}

func (s *Server) PlayerSkillHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerSkillRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		level, err := rotation.ParseSkillLevel(req.Level)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Club.SetSkillLevel(req.Name, level); err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusOK)
	}
}

func (s *Server) BulkRegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		added, skipped, err := s.Club.BulkRegister(req.Names)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"added": added, "skipped": skipped})
	}
}

func (s *Server) SettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch rotation.SettingsPatch
		if err := decode(r, &patch); err != nil {
			writeError(w, err)
			return
		}
		if err := s.Club.UpdateSettings(patch); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.Club.Snapshot().Settings)
	}
}

func (s *Server) ResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to reset the facility")
		if err := s.Club.ResetAll(); err != nil {
			writeError(w, err)
			return
		}
		s.respondState(w, http.StatusOK)
	}
}

// HousekeepingHandler runs one housekeeping pass on demand, e.g. from an
// external scheduler.
func (s *Server) HousekeepingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := s.Processor.RunHousekeeping(isDryRunFromContext(r))
		writeJSON(w, http.StatusOK, result)
	}
}
