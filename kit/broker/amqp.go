package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

// AMQPBridge forwards bus events to a fanout exchange so external consumers
// can observe invoice lifecycle changes. Its Forward method satisfies Handler
// and is meant to be subscribed per event name.
type AMQPBridge struct {
	conn     *amqp091.Connection
	exchange string
}

func NewAMQPBridge(url, exchange string) (*AMQPBridge, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		exchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPBridge{conn: conn, exchange: exchange}, nil
}

func (b *AMQPBridge) Forward(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", evt.Name(), err)
	}

	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	return ch.PublishWithContext(ctx, b.exchange, evt.Name(), false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        payload,
	})
}

func (b *AMQPBridge) Close() error {
	return b.conn.Close()
}
