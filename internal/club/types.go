package club

import (
	"sync"
	"time"

	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/rotation"
	"github.com/mauv0809/courtside/internal/storage"
)

// service owns the one live rotation.State.
type service struct {
	mu       sync.RWMutex
	state    *rotation.State
	defaults rotation.Settings

	store    storage.Store
	metrics  metrics.Metrics
	counters metrics.MetricsStore
	bus      pubsub.PubSubClient
	now      func() time.Time
}

// Option customizes a service.
type Option func(*service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// Stats combines the engine statistics with the permanent archive.
type Stats struct {
	rotation.Statistics
	ArchivedGames       int            `json:"archived_games"`
	AverageGameDuration int            `json:"average_game_duration"`
	QueuedPlayers       int            `json:"queued_players"`
	ActiveCourts        int            `json:"active_courts"`
	Counters            map[string]int `json:"counters"`
}

// event is published once the lock is released.
type event struct {
	topic pubsub.EventType
	data  any
}
