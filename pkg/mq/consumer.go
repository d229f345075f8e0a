package mq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type ConsumerConfig struct {
	URL      string
	Exchange string
	Prefetch int
	// Retries is how many times a failing handler is re-run before the
	// message is skipped. Zero skips on the first failure.
	Retries int
	Backoff time.Duration
	// DeadLetterExchange, when set, receives skipped messages.
	DeadLetterExchange string
	Log                *logrus.Entry
}

// RabbitConsumer binds one durable queue per (group, topic) to the exchange.
type RabbitConsumer struct {
	cfg  ConsumerConfig
	conn *amqp.Connection
}

func NewConsumer(cfg ConsumerConfig) (*RabbitConsumer, error) {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 8
	}
	if cfg.Log == nil {
		cfg.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if cfg.DeadLetterExchange != "" {
		if err := ch.ExchangeDeclare(cfg.DeadLetterExchange, "topic", true, false, false, false, nil); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("declare dlx: %w", err)
		}
	}
	return &RabbitConsumer{cfg: cfg, conn: conn}, nil
}

// QueueName is the durable queue backing a consumer group's subscription.
func QueueName(group, topic string) string { return group + "." + topic }

func (c *RabbitConsumer) Subscribe(ctx context.Context, group, topic string, h Handler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	args := amqp.Table{}
	if c.cfg.DeadLetterExchange != "" {
		args["x-dead-letter-exchange"] = c.cfg.DeadLetterExchange
	}
	q, err := ch.QueueDeclare(QueueName(group, topic), true, false, false, false, args)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, topic, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind %s: %w", topic, err)
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, q.Name, group, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	log := c.cfg.Log.WithFields(logrus.Fields{"group": group, "topic": topic})
	log.Info("consumer started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrClosed
			}
			m := fromDelivery(d)
			if err := handleWithRetry(ctx, h, m, c.cfg.Retries, c.cfg.Backoff); err != nil {
				log.WithError(err).WithField("key", m.Key).Warn("skipping message")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func fromDelivery(d amqp.Delivery) Message {
	key, _ := d.Headers[PartitionKeyHeader].(string)
	return Message{
		ID:        d.MessageId,
		Topic:     d.RoutingKey,
		Key:       key,
		Body:      d.Body,
		Timestamp: d.Timestamp,
	}
}

func (c *RabbitConsumer) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
