package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRecordsAndExposes(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncGamesStarted()
	s.IncGamesStarted()
	s.IncRejected("DuplicatePlayer")
	s.IncRejected("")
	s.SetQueueLength(7)
	s.ObserveGameDuration(18)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.GamesStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.RejectedCommands.WithLabelValues("DuplicatePlayer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.RejectedCommands.WithLabelValues("Unknown")))
	assert.Equal(t, 7.0, testutil.ToFloat64(s.QueueLength))

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "courtside_games_started_total 2")
	assert.Contains(t, string(body), `courtside_rejected_commands_total{kind="DuplicatePlayer"} 1`)
}
