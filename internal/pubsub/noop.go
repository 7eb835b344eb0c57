package pubsub

import (
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

type noopClient struct{}

// NewNoop returns a client that only logs events. Used when no bus is configured.
func NewNoop() PubSubClient {
	return noopClient{}
}

func (noopClient) SendMessage(topic EventType, data any) error {
	// encode anyway so payload problems surface in development
	if _, err := msgpack.Marshal(data); err != nil {
		return err
	}
	log.Debug("Event bus disabled, dropping event", "topic", topic)
	return nil
}

func (noopClient) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (noopClient) Close() error { return nil }
