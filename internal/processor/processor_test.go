package processor

import (
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/rotation"
	"github.com/mauv0809/courtside/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	facility club.ClubService
	clubBus  *pubsub.MockPubSubClient
	bus      *pubsub.MockPubSubClient
	metrics  *metrics.Mock
	counters *metrics.MockStore
	now      time.Time
	p        *Processor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clubBus:  pubsub.NewMock(),
		bus:      pubsub.NewMock(),
		metrics:  metrics.NewMock(),
		counters: metrics.NewMockStore(),
		now:      time.Date(2025, 6, 7, 18, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return h.now }
	var err error
	h.facility, err = club.New(storage.NewMock(), metrics.NewMock(), h.counters, h.clubBus, rotation.DefaultSettings(), club.WithClock(clock))
	require.NoError(t, err)
	h.p = New(h.facility, h.metrics, h.bus, WithClock(clock))
	return h
}

func (h *harness) join(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, h.facility.JoinQueue(name))
	}
}

func TestRunHousekeeping(t *testing.T) {
	t.Run("announces the next game once", func(t *testing.T) {
		// Setup
		h := newHarness(t)
		h.join(t, "Alice", "Bob", "Carol", "Dana")

		// Execute
		first := h.p.RunHousekeeping(false)
		second := h.p.RunHousekeeping(false)

		// Assert
		assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dana"}, first.UpNext)
		assert.Empty(t, second.UpNext)
		calls := h.bus.Calls(pubsub.EventPlayersUpNext)
		require.Len(t, calls, 1, "Players should be announced only once")
		event := calls[0].Data.(pubsub.PlayersUpNextEvent)
		assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dana"}, event.Players)
		require.NotNil(t, event.CourtID)
		assert.Equal(t, 1, *event.CourtID)
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, 1, h.metrics.EventsPublished())
	})

	t.Run("player who leaves and rejoins is announced again", func(t *testing.T) {
		// Setup
		h := newHarness(t)
		h.join(t, "Alice", "Bob", "Carol", "Dana")
		h.p.RunHousekeeping(false)

		// Execute
		require.NoError(t, h.facility.LeaveQueueByName("Alice"))
		assert.Empty(t, h.p.RunHousekeeping(false).UpNext, "Three players cannot fill a court")
		h.join(t, "Alice")
		result := h.p.RunHousekeeping(false)

		// Assert
		assert.Equal(t, []string{"Alice"}, result.UpNext)
		assert.Len(t, h.bus.Calls(pubsub.EventPlayersUpNext), 2)
	})

	t.Run("players who played are announced again after returning", func(t *testing.T) {
		// Setup
		h := newHarness(t)
		h.join(t, "Alice", "Bob", "Carol", "Dana")
		h.p.RunHousekeeping(false)
		_, _, err := h.facility.StartNextGame()
		require.NoError(t, err)
		assert.Empty(t, h.p.RunHousekeeping(false).UpNext, "Queue is empty while they play")

		// Execute
		h.now = h.now.Add(20 * time.Minute)
		_, err = h.facility.EndGame(1)
		require.NoError(t, err)
		result := h.p.RunHousekeeping(false)

		// Assert
		assert.ElementsMatch(t, []string{"Alice", "Bob", "Carol", "Dana"}, result.UpNext)
		assert.Len(t, h.bus.Calls(pubsub.EventPlayersUpNext), 2)
		assert.Equal(t, 1, h.counters.Count(metrics.KeyGamesStarted))
		assert.Equal(t, 1, h.counters.Count(metrics.KeyGamesEnded))
	})

	t.Run("notifications disabled publishes nothing", func(t *testing.T) {
		// Setup
		h := newHarness(t)
		off := false
		require.NoError(t, h.facility.UpdateSettings(rotation.SettingsPatch{EnableNotifications: &off}))
		h.join(t, "Alice", "Bob", "Carol", "Dana")

		// Execute
		dry := h.p.RunHousekeeping(true)
		live := h.p.RunHousekeeping(false)

		// Assert
		assert.Empty(t, dry.UpNext)
		assert.Empty(t, live.UpNext)
		assert.Empty(t, h.bus.Calls(pubsub.EventPlayersUpNext))
		assert.Equal(t, 0, h.metrics.EventsPublished())

		on := true
		require.NoError(t, h.facility.UpdateSettings(rotation.SettingsPatch{EnableNotifications: &on}))
		assert.Len(t, h.p.RunHousekeeping(false).UpNext, 4, "Announcement resumes once notifications are back on")
	})

	t.Run("no announcement without a free court", func(t *testing.T) {
		// Setup
		h := newHarness(t)
		require.NoError(t, h.facility.ScheduleCourt(1, 2, "League"))
		require.NoError(t, h.facility.ScheduleCourt(2, 2, "League"))
		h.join(t, "Alice", "Bob", "Carol", "Dana")

		// Execute
		result := h.p.RunHousekeeping(false)

		// Assert
		assert.Empty(t, result.UpNext)
		assert.Empty(t, h.bus.Calls(pubsub.EventPlayersUpNext))
	})

	t.Run("rental warnings are delegated to the facility", func(t *testing.T) {
		// Setup
		h := newHarness(t)
		require.NoError(t, h.facility.ScheduleCourt(2, 1, "Lessons"))
		h.now = h.now.Add(57 * time.Minute)

		// Execute
		dry := h.p.RunHousekeeping(true)
		live := h.p.RunHousekeeping(false)
		again := h.p.RunHousekeeping(false)

		// Assert
		assert.Equal(t, 1, dry.RentalWarnings)
		assert.Equal(t, 1, live.RentalWarnings, "Dry run must not mark the rental warned")
		assert.Equal(t, 0, again.RentalWarnings)
		assert.Len(t, h.clubBus.Calls(pubsub.EventRentalEnding), 1)
	})

	t.Run("dry run publishes nothing and remembers nothing", func(t *testing.T) {
		// Setup
		h := newHarness(t)
		h.join(t, "Alice", "Bob", "Carol", "Dana")

		// Execute
		dry := h.p.RunHousekeeping(true)
		live := h.p.RunHousekeeping(false)

		// Assert
		assert.Len(t, dry.UpNext, 4)
		assert.Len(t, live.UpNext, 4)
		assert.Len(t, h.bus.Calls(pubsub.EventPlayersUpNext), 1)
	})

	t.Run("failed publish is retried on the next pass", func(t *testing.T) {
		// Setup
		h := newHarness(t)
		h.join(t, "Alice", "Bob", "Carol", "Dana")
		h.bus.SendMessageFunc = func(pubsub.EventType, any) error { return errors.New("broker down") }

		// Execute
		failed := h.p.RunHousekeeping(false)
		h.bus.SendMessageFunc = nil
		retried := h.p.RunHousekeeping(false)

		// Assert
		assert.Empty(t, failed.UpNext)
		assert.Len(t, retried.UpNext, 4)
		assert.Equal(t, 1, h.metrics.EventsFailed())
		assert.Equal(t, 1, h.metrics.EventsPublished())
	})
}
