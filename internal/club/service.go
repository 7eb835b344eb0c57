package club

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/rotation"
	"github.com/mauv0809/courtside/internal/storage"
)

var _ ClubService = (*service)(nil)

// New restores the facility from store, or starts a fresh one with defaults
// when nothing has been saved yet.
func New(store storage.Store, m metrics.Metrics, counters metrics.MetricsStore, bus pubsub.PubSubClient, defaults rotation.Settings, opts ...Option) (ClubService, error) {
	s := &service{
		defaults: defaults,
		store:    store,
		metrics:  m,
		counters: counters,
		bus:      bus,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := store.Load()
	switch {
	case errors.Is(err, storage.ErrNoSnapshot):
		log.Info("No saved facility state, starting fresh", "courts", defaults.NumCourts, "mode", defaults.GameMode)
		state, err = rotation.New(defaults)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to restore facility state: %w", err)
	default:
		if err := state.Validate(); err != nil {
			log.Warn("Restored facility state is inconsistent", "error", err)
		}
		log.Info("Restored facility state", "queue", len(state.Queue), "active_courts", state.ActiveCourts())
	}
	s.state = state
	s.observe()
	return s, nil
}

// errUnchanged lets a mutation report that nothing needs saving.
var errUnchanged = errors.New("unchanged")

// mutate applies fn to a copy of the state and swaps it in only on success,
// then saves the snapshot and publishes whatever events fn returned.
func (s *service) mutate(op string, fn func(st *rotation.State, now time.Time) ([]event, error)) error {
	s.mu.Lock()
	next := s.state.Clone()
	events, err := fn(next, s.now())
	if errors.Is(err, errUnchanged) {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.mu.Unlock()
		kind := rotation.Kind(err)
		s.metrics.IncRejected(kind)
		log.Warn("Command rejected", "op", op, "kind", kind, "error", err)
		return err
	}
	s.state = next
	if err := s.store.Save(next); err != nil {
		log.Error("Failed to persist facility state", "op", op, "error", err)
	}
	s.observe()
	s.mu.Unlock()

	log.Debug("Command applied", "op", op)
	s.publish(events)
	return nil
}

// observe refreshes the gauges. Callers hold the lock.
func (s *service) observe() {
	s.metrics.SetQueueLength(s.state.QueuedPlayers())
	s.metrics.SetActiveCourts(s.state.ActiveCourts())
}

func (s *service) publish(events []event) {
	for _, e := range events {
		if err := s.bus.SendMessage(e.topic, e.data); err != nil {
			s.metrics.IncEventsFailed()
			log.Error("Failed to publish event", "topic", e.topic, "error", err)
			continue
		}
		s.metrics.IncEventsPublished()
	}
}

func queueChanged(st *rotation.State) []event {
	return []event{{pubsub.EventQueueChanged, pubsub.QueueChangedEvent{
		ID:      uuid.NewString(),
		Players: st.QueuedPlayers(),
		Entries: len(st.Queue),
	}}}
}

func (s *service) Snapshot() *rotation.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *service) Now() time.Time {
	return s.now()
}

func (s *service) JoinQueue(name string) error {
	return s.mutate("join_queue", func(st *rotation.State, now time.Time) ([]event, error) {
		if err := st.JoinQueue(name, now); err != nil {
			return nil, err
		}
		log.Info("Player joined queue", "player", name, "position", len(st.Queue))
		return queueChanged(st), nil
	})
}

// LeaveQueue removes the entry at index. Out of range is a silent no-op.
func (s *service) LeaveQueue(index int) bool {
	var removed bool
	err := s.mutate("leave_queue", func(st *rotation.State, now time.Time) ([]event, error) {
		entry, ok := st.RemoveAt(index)
		if !ok {
			return nil, errUnchanged
		}
		removed = true
		log.Info("Queue entry removed", "index", index, "name", entry.Name)
		return queueChanged(st), nil
	})
	return err == nil && removed
}

func (s *service) LeaveQueueByName(name string) error {
	return s.mutate("leave_queue", func(st *rotation.State, now time.Time) ([]event, error) {
		entry, err := st.LeaveQueue(name)
		if err != nil {
			return nil, err
		}
		log.Info("Queue entry removed", "player", name, "entry", entry.Name)
		return queueChanged(st), nil
	})
}

func (s *service) ReorderQueue(from, to int) error {
	return s.mutate("reorder_queue", func(st *rotation.State, now time.Time) ([]event, error) {
		if err := st.Reorder(from, to); err != nil {
			return nil, err
		}
		return queueChanged(st), nil
	})
}

func (s *service) OptimizeQueue() error {
	return s.mutate("optimize_queue", func(st *rotation.State, now time.Time) ([]event, error) {
		st.OptimizeQueue()
		return queueChanged(st), nil
	})
}

func (s *service) CreateGroup(name string, players []string) (rotation.Group, error) {
	var g rotation.Group
	err := s.mutate("create_group", func(st *rotation.State, now time.Time) ([]event, error) {
		var err error
		g, err = st.CreateGroup(name, players)
		if err != nil {
			return nil, err
		}
		log.Info("Group created", "group", g.Name, "id", g.ID, "players", g.Players)
		return nil, nil
	})
	return g, err
}

func (s *service) DeleteGroup(id string) error {
	return s.mutate("delete_group", func(st *rotation.State, now time.Time) ([]event, error) {
		if err := st.DeleteGroup(id); err != nil {
			return nil, err
		}
		log.Info("Group deleted", "id", id)
		return queueChanged(st), nil
	})
}

func (s *service) EnqueueGroup(id string) error {
	return s.mutate("enqueue_group", func(st *rotation.State, now time.Time) ([]event, error) {
		if err := st.EnqueueGroup(id, now); err != nil {
			return nil, err
		}
		log.Info("Group joined queue", "id", id, "position", len(st.Queue))
		return queueChanged(st), nil
	})
}

func (s *service) StartGame(courtID int) (rotation.Selection, error) {
	var sel rotation.Selection
	err := s.mutate("start_game", func(st *rotation.State, now time.Time) ([]event, error) {
		var err error
		sel, err = st.StartGame(courtID, now)
		if err != nil {
			return nil, err
		}
		return s.gameStarted(st, courtID, sel, now), nil
	})
	return sel, err
}

func (s *service) StartNextGame() (int, rotation.Selection, error) {
	var (
		courtID int
		sel     rotation.Selection
	)
	err := s.mutate("start_next_game", func(st *rotation.State, now time.Time) ([]event, error) {
		var err error
		courtID, sel, err = st.StartNextGame(now)
		if err != nil {
			return nil, err
		}
		return s.gameStarted(st, courtID, sel, now), nil
	})
	return courtID, sel, err
}

func (s *service) gameStarted(st *rotation.State, courtID int, sel rotation.Selection, now time.Time) []event {
	c, _ := st.Court(courtID)
	log.Info("Game started", "court", courtID, "kind", sel.Kind, "players", c.Players)
	s.metrics.IncGamesStarted()
	s.counters.Increment(metrics.KeyGamesStarted)

	e := pubsub.GameStartedEvent{
		ID:        uuid.NewString(),
		CourtID:   courtID,
		Players:   c.Players,
		StartedAt: now,
	}
	if sel.Group != nil {
		e.GroupName = sel.Group.Name
	}
	return append([]event{{pubsub.EventGameStarted, e}}, queueChanged(st)...)
}

func (s *service) EndGame(courtID int) (rotation.GameRecord, error) {
	var rec rotation.GameRecord
	err := s.mutate("end_game", func(st *rotation.State, now time.Time) ([]event, error) {
		var err error
		rec, err = st.EndGame(courtID, now)
		if err != nil {
			return nil, err
		}
		log.Info("Game ended", "court", courtID, "duration", rec.Duration, "players", rec.Players)
		s.metrics.IncGamesEnded()
		s.metrics.ObserveGameDuration(float64(rec.Duration))
		s.counters.Increment(metrics.KeyGamesEnded)
		if err := s.store.ArchiveGame(rec); err != nil {
			log.Error("Failed to archive game", "court", courtID, "error", err)
		}
		e := pubsub.GameEndedEvent{
			ID:         uuid.NewString(),
			CourtID:    courtID,
			Players:    rec.Players,
			Duration:   rec.Duration,
			Team1Score: rec.Team1Score,
			Team2Score: rec.Team2Score,
			EndedAt:    now,
		}
		return append([]event{{pubsub.EventGameEnded, e}}, queueChanged(st)...), nil
	})
	return rec, err
}

func (s *service) UpdateScore(courtID int, team rotation.Team, value int) error {
	return s.mutate("update_score", func(st *rotation.State, now time.Time) ([]event, error) {
		return nil, st.UpdateScore(courtID, team, value)
	})
}

func (s *service) AssignCourtSkill(courtID int, level *rotation.SkillLevel) error {
	return s.mutate("assign_court_skill", func(st *rotation.State, now time.Time) ([]event, error) {
		if err := st.AssignCourtSkill(courtID, level); err != nil {
			return nil, err
		}
		log.Info("Court skill restriction changed", "court", courtID, "level", level)
		return nil, nil
	})
}

func (s *service) StartTimer(courtID int) error {
	return s.mutate("start_timer", func(st *rotation.State, now time.Time) ([]event, error) {
		return nil, st.StartTimer(courtID)
	})
}

func (s *service) PauseTimer(courtID int) error {
	return s.mutate("pause_timer", func(st *rotation.State, now time.Time) ([]event, error) {
		return nil, st.PauseTimer(courtID)
	})
}

func (s *service) UpdateTimerElapsed(courtID int, elapsed time.Duration) error {
	return s.mutate("update_timer", func(st *rotation.State, now time.Time) ([]event, error) {
		return nil, st.UpdateTimerElapsed(courtID, elapsed)
	})
}

func (s *service) ScheduleCourt(courtID int, hours float64, rentedBy string) error {
	return s.mutate("schedule_court", func(st *rotation.State, now time.Time) ([]event, error) {
		if err := st.ScheduleCourt(courtID, hours, rentedBy, now); err != nil {
			return nil, err
		}
		log.Info("Court rented", "court", courtID, "hours", hours, "until", st.CourtSchedules[courtID].UnavailableUntil)
		return nil, nil
	})
}

func (s *service) ExtendSchedule(courtID int, hours float64) error {
	return s.mutate("extend_schedule", func(st *rotation.State, now time.Time) ([]event, error) {
		if err := st.ExtendSchedule(courtID, hours); err != nil {
			return nil, err
		}
		log.Info("Court rental extended", "court", courtID, "until", st.CourtSchedules[courtID].UnavailableUntil)
		return nil, nil
	})
}

// ClearSchedule drops any rental. Only an unknown court is an error.
func (s *service) ClearSchedule(courtID int) error {
	return s.mutate("clear_schedule", func(st *rotation.State, now time.Time) ([]event, error) {
		if _, err := st.Court(courtID); err != nil {
			return nil, err
		}
		st.ClearSchedule(courtID)
		return nil, nil
	})
}

// IsCourtAvailable also clears an expired rental; the state is only saved
// when that happens.
func (s *service) IsCourtAvailable(courtID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, scheduled := s.state.CourtSchedules[courtID]
	available := s.state.IsCourtAvailable(courtID, s.now())
	if scheduled && available {
		log.Info("Court rental expired", "court", courtID)
		if err := s.store.Save(s.state); err != nil {
			log.Error("Failed to persist facility state", "op", "court_available", "error", err)
		}
	}
	return available
}

func (s *service) RentalWarnings() []rotation.RentalWarning {
	var warnings []rotation.RentalWarning
	_ = s.mutate("rental_warnings", func(st *rotation.State, now time.Time) ([]event, error) {
		warnings = st.RentalWarnings(now)
		if len(warnings) == 0 {
			return nil, errUnchanged
		}
		events := make([]event, 0, len(warnings))
		for _, w := range warnings {
			log.Info("Court rental ending soon", "court", w.CourtID, "rented_by", w.RentedBy, "remaining", w.Remaining)
			events = append(events, event{pubsub.EventRentalEnding, pubsub.RentalEndingEvent{
				ID:        uuid.NewString(),
				CourtID:   w.CourtID,
				RentedBy:  w.RentedBy,
				Remaining: w.Remaining,
			}})
		}
		return events, nil
	})
	return warnings
}

func (s *service) SetSkillLevel(name string, level rotation.SkillLevel) error {
	return s.mutate("set_skill_level", func(st *rotation.State, now time.Time) ([]event, error) {
		if err := st.SetSkillLevel(name, level); err != nil {
			return nil, err
		}
		log.Info("Skill level changed", "player", name, "level", level)
		return nil, nil
	})
}

func (s *service) BulkRegister(names []string) (added, skipped int, err error) {
	err = s.mutate("bulk_register", func(st *rotation.State, now time.Time) ([]event, error) {
		added, skipped = st.BulkRegister(names)
		for i := 0; i < added; i++ {
			s.counters.Increment(metrics.KeyPlayersSeen)
		}
		log.Info("Players registered", "added", added, "skipped", skipped)
		return nil, nil
	})
	return added, skipped, err
}

func (s *service) UpdateSettings(patch rotation.SettingsPatch) error {
	return s.mutate("update_settings", func(st *rotation.State, now time.Time) ([]event, error) {
		if err := st.UpdateSettings(patch); err != nil {
			return nil, err
		}
		log.Info("Settings updated", "courts", st.Settings.NumCourts, "mode", st.Settings.GameMode, "rule", st.Settings.RotationRule)
		return []event{{pubsub.EventSettingsChanged, st.Settings}}, nil
	})
}

// ResetAll wipes the facility back to the configured defaults, including the archive.
func (s *service) ResetAll() error {
	err := s.mutate("reset", func(st *rotation.State, now time.Time) ([]event, error) {
		if err := st.ResetAll(s.defaults); err != nil {
			return nil, err
		}
		return queueChanged(st), nil
	})
	if err != nil {
		return err
	}
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear game archive: %w", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.store.Save(s.state); err != nil {
		return fmt.Errorf("failed to persist facility state: %w", err)
	}
	log.Warn("Facility reset to defaults")
	return nil
}

func (s *service) NextGamePreview() (rotation.Preview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.NextGamePreview(s.now())
}

func (s *service) EstimatedWait(index int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.state.Queue) {
		return 0, fmt.Errorf("%w: queue position %d", rotation.ErrInvalidArgument, index)
	}
	return s.state.EstimatedWait(index, s.now()), nil
}

func (s *service) Stats() (Stats, error) {
	s.mu.RLock()
	stats := Stats{
		Statistics:          s.state.Statistics(),
		AverageGameDuration: s.state.AverageGameDuration(),
		QueuedPlayers:       s.state.QueuedPlayers(),
		ActiveCourts:        s.state.ActiveCourts(),
	}
	s.mu.RUnlock()

	archived, err := s.store.CountGames()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count archived games: %w", err)
	}
	stats.ArchivedGames = archived
	counters, err := s.counters.GetAll()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read counters: %w", err)
	}
	stats.Counters = counters
	return stats, nil
}

// History returns archived games newest first, falling back to the in-memory
// history when the archive is empty.
func (s *service) History(limit int) ([]rotation.GameRecord, error) {
	records, err := s.store.RecentGames(limit)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return records, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.state.GameHistory
	if limit > 0 && limit < len(history) {
		history = history[:limit]
	}
	return append([]rotation.GameRecord(nil), history...), nil
}
