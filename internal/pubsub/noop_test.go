package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestNoopDecodesPublishedPayload(t *testing.T) {
	c := NewNoop()
	defer c.Close()

	event := GameStartedEvent{CourtID: 2, Players: []string{"A", "B"}, StartedAt: time.Unix(1700000000, 0)}
	require.NoError(t, c.SendMessage(EventGameStarted, event))

	data, err := msgpack.Marshal(event)
	require.NoError(t, err)
	var got GameStartedEvent
	require.NoError(t, c.ProcessMessage(data, &got))
	assert.Equal(t, 2, got.CourtID)
	assert.Equal(t, []string{"A", "B"}, got.Players)
	assert.True(t, event.StartedAt.Equal(got.StartedAt))

	assert.Error(t, c.ProcessMessage([]byte{0xc1}, &got))
}
