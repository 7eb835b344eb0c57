package storage_test

import (
	"testing"
	"time"

	"github.com/mauv0809/courtside/internal/database"
	"github.com/mauv0809/courtside/internal/rotation"
	"github.com/mauv0809/courtside/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a migrated in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (storage.Store, func()) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	return storage.New(db), teardown
}

func TestLoadEmpty(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.Load()
	assert.ErrorIs(t, err, storage.ErrNoSnapshot)
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	now := time.Date(2025, 6, 7, 18, 0, 0, 0, time.UTC)
	state, err := rotation.New(rotation.DefaultSettings())
	require.NoError(t, err)
	for _, name := range []string{"Alice", "Bob", "Carol", "Dana", "Eve"} {
		require.NoError(t, state.JoinQueue(name, now))
	}
	require.NoError(t, state.SetSkillLevel("Eve", rotation.SkillAdvanced))
	_, err = state.StartGame(2, now)
	require.NoError(t, err)
	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Queue, 1)
	assert.Equal(t, "Eve", loaded.Queue[0].Name)
	assert.Equal(t, rotation.SkillAdvanced, loaded.RegisteredPlayers["Eve"].SkillLevel)
	assert.True(t, loaded.Courts[1].Active)
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dana"}, loaded.Courts[1].Players)
	require.NotNil(t, loaded.Courts[1].StartTime)
	assert.True(t, now.Equal(*loaded.Courts[1].StartTime))

	// second save overwrites the single row
	state.Queue = nil
	state.Normalize()
	require.NoError(t, store.Save(state))
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.Queue)
}

func TestArchiveAndRecentGames(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	base := time.Date(2025, 6, 7, 18, 0, 0, 0, time.UTC)
	six := 6
	for i := 0; i < 3; i++ {
		rec := rotation.GameRecord{
			CourtID:   i + 1,
			Players:   []string{"A", "B"},
			Duration:  10 + i,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			GameMode:  rotation.GameModeSingles,
		}
		if i == 2 {
			rec.Team1Score = &six
		}
		require.NoError(t, store.ArchiveGame(rec))
	}

	n, err := store.CountGames()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	recent, err := store.RecentGames(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].CourtID)
	assert.Equal(t, 12, recent[0].Duration)
	require.NotNil(t, recent[0].Team1Score)
	assert.Equal(t, 6, *recent[0].Team1Score)
	assert.Nil(t, recent[0].Team2Score)
	assert.Nil(t, recent[1].Team1Score)
	assert.Equal(t, []string{"A", "B"}, recent[1].Players)
	assert.Equal(t, base.Add(time.Hour), recent[1].Timestamp)

	require.NoError(t, store.Clear())
	n, err = store.CountGames()
	require.NoError(t, err)
	assert.Zero(t, n)
}
