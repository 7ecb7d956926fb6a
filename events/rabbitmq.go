package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Exchange is the topic exchange order events are published to.
const Exchange = "orders_topic"

const publishTimeout = 5 * time.Second

// RabbitMQ publishes events as persistent JSON messages, reconnecting once
// when the connection has dropped.
type RabbitMQ struct {
	url     string
	logger  *zap.SugaredLogger
	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQ(url string, logger *zap.SugaredLogger) (*RabbitMQ, error) {
	r := &RabbitMQ{url: url, logger: logger}
	if err := r.connect(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", Exchange, err)
	}

	r.conn = conn
	r.channel = ch
	return nil
}

func (r *RabbitMQ) Publish(ctx context.Context, e OrderEvent) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := r.ensureConnected(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.channel == nil {
		return fmt.Errorf("failed to publish %s: not connected", e.Type)
	}

	err = r.channel.PublishWithContext(
		ctx,
		Exchange, // exchange
		e.Type,   // routing key
		false,    // mandatory
		false,    // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    e.OccurredAt,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}

	r.logger.Debugw("event published", "type", e.Type, "order_number", e.OrderNumber)
	return nil
}

// connected must be called with r.mu held.
func (r *RabbitMQ) connected() bool {
	return r.conn != nil && !r.conn.IsClosed() && r.channel != nil && !r.channel.IsClosed()
}

func (r *RabbitMQ) ensureConnected() error {
	r.mu.RLock()
	ok := r.connected()
	r.mu.RUnlock()
	if ok {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.connected() {
		return nil
	}
	r.logger.Warnw("RabbitMQ connection lost, reconnecting")
	if r.conn != nil {
		r.conn.Close()
	}
	return r.connect()
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
