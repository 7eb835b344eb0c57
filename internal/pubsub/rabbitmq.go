package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vmihailenco/msgpack/v5"
)

const publishTimeout = 5 * time.Second

// NewRabbitMQ publishes events to a durable topic exchange, routed by EventType.
func NewRabbitMQ(url, exchange string) (PubSubClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	log.Info("Connected to RabbitMQ", "exchange", exchange)
	return &rabbitClient{conn: conn, ch: ch, exchange: exchange}, nil
}

func (r *rabbitClient) SendMessage(topic EventType, data any) error {
	body, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	err = r.ch.PublishWithContext(ctx, r.exchange, string(topic), false, false, amqp.Publishing{
		ContentType:  "application/msgpack",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         string(topic),
		Body:         body,
	})
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	return nil
}

func (r *rabbitClient) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (r *rabbitClient) Close() error {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
