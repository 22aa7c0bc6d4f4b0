// Package queue carries notification messages over RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"functionhall/internal/logger"
	"functionhall/internal/notification"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "functionhall.notifications"
	ExchangeKind = "topic"
)

func declare(ch *amqp.Channel, queueName string) error {
	if err := ch.ExchangeDeclare(ExchangeName, ExchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	if err := ch.QueueBind(queueName, "#", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue bind: %w", err)
	}
	return nil
}

// Publisher implements notification.Deliverer by publishing to the exchange.
type Publisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewPublisher(url, queueName string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := declare(ch, queueName); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch}, nil
}

func (p *Publisher) Deliver(ctx context.Context, msg notification.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, ExchangeName, msg.Type, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		CorrelationId: msg.RequestID,
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

type Consumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
}

func NewConsumer(url, queueName string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := declare(ch, queueName); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	if err := ch.Qos(16, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq qos: %w", err)
	}
	return &Consumer{conn: conn, channel: ch, queueName: queueName}, nil
}

// Run consumes until ctx is done or the channel closes.
func (c *Consumer) Run(ctx context.Context, handle func(context.Context, notification.Message) error) error {
	msgs, err := c.channel.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq consume: %w", err)
	}
	logger.Get().Info("consuming notifications", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitmq delivery channel closed")
			}
			HandleDelivery(ctx, d, handle)
		}
	}
}

// HandleDelivery decodes one delivery and acks it after handle succeeds.
// Undecodable bodies are dropped; handler failures are requeued once.
func HandleDelivery(ctx context.Context, d amqp.Delivery, handle func(context.Context, notification.Message) error) {
	var msg notification.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		logger.Get().Error("drop undecodable notification", "error", err)
		_ = d.Nack(false, false)
		return
	}

	ctx = logger.ContextWithRequestID(ctx, msg.RequestID)
	if err := handle(ctx, msg); err != nil {
		logger.WithContext(ctx).Error("notification handler failed", "type", msg.Type, "redelivered", d.Redelivered, "error", err)
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

func (c *Consumer) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
