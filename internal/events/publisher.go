// Package events publishes order lifecycle events for downstream consumers
// (fulfilment, notifications). Publishing is optional: a nil Publisher is a
// valid no-op, so the storefront runs without a broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

type OrderPlaced struct {
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	Total     int64     `json:"total"`
	PaymentID string    `json:"payment_id"`
	PlacedAt  time.Time `json:"placed_at"`
}

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: failed to connect to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events: failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("events: failed to declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// OrderPlaced emits the event after a payment confirmation. Failures are
// logged, not returned: the order is already paid and must not fail because
// the broker hiccupped.
func (p *Publisher) OrderPlaced(ctx context.Context, event OrderPlaced) {
	if p == nil {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", event.OrderID).Msg("events: failed to marshal order placed event")
		return
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		"order.placed",
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", event.OrderID).Msg("events: failed to publish order placed event")
		return
	}

	log.Info().Stringer("order_id", event.OrderID).Msg("events: order placed event published")
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
