package slack

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mauv0809/courtside/internal/rotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestFormatStatus(t *testing.T) {
	now := time.Date(2025, 6, 7, 18, 0, 0, 0, time.UTC)
	st, err := rotation.New(rotation.DefaultSettings())
	require.NoError(t, err)
	for _, name := range []string{"Alice", "Bob", "Carol", "Dana", "Eve"} {
		require.NoError(t, st.JoinQueue(name, now))
	}
	_, err = st.StartGame(1, now)
	require.NoError(t, err)
	require.NoError(t, st.ScheduleCourt(2, 1, "League", now))

	out := render(t, FormatStatus(st, now.Add(10*time.Minute)))
	assert.Contains(t, out, "Court 1: Alice, Bob, Carol, Dana (10m)")
	assert.Contains(t, out, "Court 2: rented by League until 19:00")
	assert.Contains(t, out, "1. Eve")
}

func TestFormatStatusEmptyQueue(t *testing.T) {
	st, err := rotation.New(rotation.DefaultSettings())
	require.NoError(t, err)
	out := render(t, FormatStatus(st, time.Now()))
	assert.Contains(t, out, "Court 1: free")
	assert.Contains(t, out, "The queue is empty.")
}

func TestFormatNextGame(t *testing.T) {
	court := 2
	p := rotation.Preview{
		Selection: rotation.Selection{Players: []string{"A", "B"}},
		Skills:    []rotation.SkillLevel{rotation.SkillBeginner, rotation.SkillBeginner},
		Quality:   100,
		CourtID:   &court,
	}
	out := render(t, FormatNextGame(p))
	assert.Contains(t, out, "A (beginner)")
	assert.Contains(t, out, "Court 2")
	assert.Contains(t, out, "Excellent Match (100)")
}
