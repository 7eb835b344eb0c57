package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/database"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/processor"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/rotation"
	"github.com/mauv0809/courtside/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testSlackSigningSecret = "test-signing-secret"

// setupTestServer wires a real club service over an in-memory database.
func setupTestServer(t *testing.T, slackSigningSecret string, opts ...club.Option) *Server {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	bus := pubsub.NewMock()
	bus.ProcessMessageFunc = func(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
	svc, err := club.New(storage.New(db), metricsSvc, metrics.New(db), bus, rotation.DefaultSettings(), opts...)
	require.NoError(t, err)

	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: slackSigningSecret}}
	proc := processor.New(svc, metricsSvc, bus)
	return NewServer(svc, proc, bus, metrics.NewMetricsHandler(reg), cfg)
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func joinAll(t *testing.T, s *Server, names ...string) {
	t.Helper()
	for _, name := range names {
		rr := do(t, s, "POST", "/queue", nameRequest{Name: name})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}
}

// createSlackCommandRequest signs the form the way Slack does.
func createSlackCommandRequest(t *testing.T, form url.Values, signingSecret string) *http.Request {
	t.Helper()
	body := form.Encode()
	req := httptest.NewRequest("POST", "/slack/command/queue", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(fmt.Sprintf("v0:%d:%s", timestamp, body)))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))
	return req
}

func TestHealthCheckHandler(t *testing.T) {
	server := setupTestServer(t, "")
	rr := do(t, server, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestGameFlow(t *testing.T) {
	server := setupTestServer(t, "")
	joinAll(t, server, "Alice", "Bob", "Carol", "Dana", "Eve")

	rr := do(t, server, "GET", "/next", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	preview := decodeBody[rotation.Preview](t, rr)
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dana"}, preview.Players)
	require.NotNil(t, preview.CourtID)
	assert.Equal(t, 1, *preview.CourtID)

	rr = do(t, server, "POST", "/courts/1/start", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	started := decodeBody[startResponse](t, rr)
	assert.Equal(t, 1, started.CourtID)

	rr = do(t, server, "POST", "/courts/1/score", scoreRequest{Team: 1, Value: 6})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, server, "POST", "/courts/1/end", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	record := decodeBody[rotation.GameRecord](t, rr)
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dana"}, record.Players)

	rr = do(t, server, "GET", "/history?limit=5", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[[]rotation.GameRecord](t, rr), 1)

	rr = do(t, server, "GET", "/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decodeBody[club.Stats](t, rr)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1, stats.ArchivedGames)

	rr = do(t, server, "GET", "/state", nil)
	state := decodeBody[rotation.State](t, rr)
	require.Len(t, state.Queue, 5)
	assert.Equal(t, "Eve", state.Queue[0].Name)
}

func TestErrorMapping(t *testing.T) {
	server := setupTestServer(t, "")
	joinAll(t, server, "Alice")

	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
		kind   string
	}{
		{"duplicate join", "POST", "/queue", nameRequest{Name: "Alice"}, http.StatusConflict, "DuplicatePlayer"},
		{"blank name", "POST", "/queue", nameRequest{Name: "  "}, http.StatusBadRequest, "InvalidName"},
		{"unknown court", "POST", "/courts/9/start", nil, http.StatusNotFound, "CourtNotFound"},
		{"court id not a number", "POST", "/courts/one/end", nil, http.StatusBadRequest, "InvalidArgument"},
		{"not enough players", "POST", "/next/start", nil, http.StatusConflict, "InsufficientQueueForGame"},
		{"end idle court", "POST", "/courts/1/end", nil, http.StatusConflict, "CourtNotActive"},
		{"extend missing schedule", "POST", "/courts/1/schedule/extend", scheduleRequest{Hours: 1}, http.StatusNotFound, "ScheduleNotFound"},
		{"bad skill level", "POST", "/players/skill", playerSkillRequest{Name: "Alice", Level: "godlike"}, http.StatusBadRequest, "InvalidSkillLevel"},
		{"unknown timer action", "POST", "/courts/1/timer", timerRequest{Action: "rewind"}, http.StatusBadRequest, "InvalidArgument"},
		{"wait out of range", "GET", "/queue/wait/3", nil, http.StatusBadRequest, "InvalidArgument"},
		{"unknown group", "DELETE", "/groups/nope", nil, http.StatusNotFound, "GroupNotFound"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, server, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.status, rr.Code, rr.Body.String())
			resp := decodeBody[errorResponse](t, rr)
			assert.Equal(t, tc.kind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/queue", strings.NewReader("{"))
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestQueueEndpoints(t *testing.T) {
	server := setupTestServer(t, "")
	joinAll(t, server, "A", "B", "C")

	rr := do(t, server, "POST", "/queue/reorder", reorderRequest{From: 2, To: 0})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	state := decodeBody[rotation.State](t, rr)
	assert.Equal(t, "C", state.Queue[0].Name)

	rr = do(t, server, "GET", "/queue/wait/0", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, waitResponse{Index: 0, Minutes: 0, Display: "Up next!"}, decodeBody[waitResponse](t, rr))

	rr = do(t, server, "DELETE", "/queue/7", nil)
	assert.Equal(t, map[string]bool{"removed": false}, decodeBody[map[string]bool](t, rr))
	rr = do(t, server, "DELETE", "/queue/0", nil)
	assert.Equal(t, map[string]bool{"removed": true}, decodeBody[map[string]bool](t, rr))

	rr = do(t, server, "POST", "/players/bulk", bulkRequest{Names: []string{"A", "Zed", " ", "Yan"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]int{"added": 2, "skipped": 1}, decodeBody[map[string]int](t, rr))
}

func TestGroupEndpoints(t *testing.T) {
	server := setupTestServer(t, "")
	rr := do(t, server, "POST", "/groups", groupRequest{Name: "Smiths", Players: []string{"Sam", "Sue", "Sid"}})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	group := decodeBody[rotation.Group](t, rr)
	require.NotEmpty(t, group.ID)

	rr = do(t, server, "POST", "/groups/"+group.ID+"/enqueue", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = do(t, server, "POST", "/groups/"+group.ID+"/enqueue", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, server, "DELETE", "/groups/"+group.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestScheduleAndSettings(t *testing.T) {
	server := setupTestServer(t, "")
	rr := do(t, server, "POST", "/courts/2/schedule", scheduleRequest{Hours: 1, RentedBy: "League"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, server, "GET", "/courts/2/available", nil)
	assert.Equal(t, map[string]bool{"available": false}, decodeBody[map[string]bool](t, rr))

	rr = do(t, server, "DELETE", "/courts/2/schedule", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, server, "GET", "/courts/2/available", nil)
	assert.Equal(t, map[string]bool{"available": true}, decodeBody[map[string]bool](t, rr))

	rr = do(t, server, "PATCH", "/settings", map[string]any{"num_courts": 3, "game_mode": "singles"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	settings := decodeBody[rotation.Settings](t, rr)
	assert.Equal(t, 3, settings.NumCourts)
	assert.Equal(t, rotation.GameModeSingles, settings.GameMode)

	rr = do(t, server, "PATCH", "/settings", map[string]any{"game_duration": 0})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, server, "POST", "/courts/3/skill", map[string]any{"level": "advanced"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	state := decodeBody[rotation.State](t, rr)
	require.NotNil(t, state.Courts[2].AssignedSkillLevel)
	assert.Equal(t, rotation.SkillAdvanced, *state.Courts[2].AssignedSkillLevel)

	rr = do(t, server, "POST", "/reset", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	state = decodeBody[rotation.State](t, rr)
	assert.Len(t, state.Courts, 2)
}

func TestHousekeepingHandler(t *testing.T) {
	server := setupTestServer(t, "")
	joinAll(t, server, "A", "B", "C", "D")

	rr := do(t, server, "POST", "/housekeeping?dry_run=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	result := decodeBody[processor.Result](t, rr)
	assert.Equal(t, []string{"A", "B", "C", "D"}, result.UpNext)
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t, "")
	joinAll(t, server, "A")
	rr := do(t, server, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "courtside_queue_players 1")
}

func TestQueueCommandHandler(t *testing.T) {
	server := setupTestServer(t, testSlackSigningSecret)

	send := func(text string) string {
		req := createSlackCommandRequest(t, url.Values{"text": {text}, "user_name": {"tester"}}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		return rr.Body.String()
	}

	assert.Contains(t, send("join Jane Doe"), "Jane Doe joined the queue at position 1.")
	assert.Contains(t, send("join Jane Doe"), "Could not add Jane Doe")
	assert.Contains(t, send("status"), "1. Jane Doe")
	assert.Contains(t, send("next"), "No game ready")
	assert.Contains(t, send("leave Jane Doe"), "Jane Doe left the queue.")
	assert.Contains(t, send("dance"), "Usage")

	t.Run("bad signature is rejected", func(t *testing.T) {
		req := createSlackCommandRequest(t, url.Values{"text": {"status"}}, "wrong-secret")
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestQueueCommandStatusUsesServiceClock(t *testing.T) {
	now := time.Date(2025, 6, 7, 18, 0, 0, 0, time.UTC)
	server := setupTestServer(t, testSlackSigningSecret, club.WithClock(func() time.Time { return now }))
	joinAll(t, server, "Alice", "Bob", "Carol", "Dana")
	rr := do(t, server, "POST", "/courts/1/start", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	now = now.Add(12 * time.Minute)
	req := createSlackCommandRequest(t, url.Values{"text": {"status"}}, testSlackSigningSecret)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Court 1: Alice, Bob, Carol, Dana (12m)")
}

// pushRequest wraps an event the way a Pub/Sub push subscription delivers it.
func pushRequest(t *testing.T, target string, event any) *http.Request {
	t.Helper()
	data, err := msgpack.Marshal(event)
	require.NoError(t, err)
	var envelope pushEnvelope
	envelope.Subscription = "projects/club/subscriptions/courtside"
	envelope.Message.Data = base64.StdEncoding.EncodeToString(data)
	envelope.Message.MessageID = "42"
	body, err := json.Marshal(envelope)
	require.NoError(t, err)
	return httptest.NewRequest("POST", target, bytes.NewReader(body))
}

func push(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func TestPushHandlers(t *testing.T) {
	t.Run("check-in queues the player", func(t *testing.T) {
		server := setupTestServer(t, "")

		rr := push(t, server, pushRequest(t, "/pubsub/check-in", pubsub.PlayerCheckInEvent{ID: "e1", Player: "Alice"}))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "OK", rr.Body.String())
		queue := server.Club.Snapshot().Queue
		require.Len(t, queue, 1)
		assert.Equal(t, "Alice", queue[0].Name)
	})

	t.Run("duplicate check-in is acknowledged without a second entry", func(t *testing.T) {
		server := setupTestServer(t, "")
		joinAll(t, server, "Alice")

		rr := push(t, server, pushRequest(t, "/pubsub/check-in", pubsub.PlayerCheckInEvent{ID: "e2", Player: "Alice"}))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "REJECTED", rr.Body.String())
		assert.Len(t, server.Club.Snapshot().Queue, 1)
	})

	t.Run("dry run check-in changes nothing", func(t *testing.T) {
		server := setupTestServer(t, "")

		rr := push(t, server, pushRequest(t, "/pubsub/check-in?dry_run=true", pubsub.PlayerCheckInEvent{ID: "e3", Player: "Alice"}))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, server.Club.Snapshot().Queue)
	})

	t.Run("court finished records scores and ends the game", func(t *testing.T) {
		server := setupTestServer(t, "")
		joinAll(t, server, "Alice", "Bob", "Carol", "Dana")
		require.Equal(t, http.StatusOK, do(t, server, "POST", "/courts/1/start", nil).Code)
		t1, t2 := 6, 4

		rr := push(t, server, pushRequest(t, "/pubsub/court-finished", pubsub.CourtFinishedEvent{ID: "e4", CourtID: 1, Team1Score: &t1, Team2Score: &t2}))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "OK", rr.Body.String())
		history, err := server.Club.History(5)
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.NotNil(t, history[0].Team1Score)
		assert.Equal(t, 6, *history[0].Team1Score)
		assert.Equal(t, 4, *history[0].Team2Score)
		assert.False(t, server.Club.Snapshot().Courts[0].Active)
	})

	t.Run("finishing an idle court is acknowledged", func(t *testing.T) {
		server := setupTestServer(t, "")

		rr := push(t, server, pushRequest(t, "/pubsub/court-finished", pubsub.CourtFinishedEvent{ID: "e5", CourtID: 2}))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "REJECTED", rr.Body.String())
	})

	t.Run("malformed messages are refused", func(t *testing.T) {
		server := setupTestServer(t, "")

		notJSON := httptest.NewRequest("POST", "/pubsub/check-in", strings.NewReader("{"))
		assert.Equal(t, http.StatusBadRequest, push(t, server, notJSON).Code)

		notBase64 := httptest.NewRequest("POST", "/pubsub/check-in", strings.NewReader(`{"message":{"data":"%%%"}}`))
		assert.Equal(t, http.StatusBadRequest, push(t, server, notBase64).Code)

		empty := httptest.NewRequest("POST", "/pubsub/check-in", strings.NewReader(`{"message":{"data":""}}`))
		assert.Equal(t, http.StatusBadRequest, push(t, server, empty).Code)

		garbage := base64.StdEncoding.EncodeToString([]byte{0xc1})
		notMsgpack := httptest.NewRequest("POST", "/pubsub/check-in", strings.NewReader(`{"message":{"data":"`+garbage+`"}}`))
		assert.Equal(t, http.StatusBadRequest, push(t, server, notMsgpack).Code)
		assert.Empty(t, server.Club.Snapshot().Queue)
	})
}
