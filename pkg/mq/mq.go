// Package mq is the event bus capability: publish keyed messages to a topic
// and register consumer callbacks per consumer group.
package mq

import (
	"context"
	"errors"
	"time"
)

// PartitionKeyHeader carries Message.Key on transports without native keys.
const PartitionKeyHeader = "x-partition-key"

type Message struct {
	ID        string
	Topic     string
	Key       string
	Body      []byte
	Timestamp time.Time
}

type Publisher interface {
	Publish(ctx context.Context, m Message) error
}

// Handler processes one message. A returned error is retried up to the
// subscriber's retry budget and then the message is skipped.
type Handler func(ctx context.Context, m Message) error

// Subscriber delivers messages of topic to h, one at a time and in publish
// order, until ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, group, topic string, h Handler) error
}

var ErrClosed = errors.New("mq: closed")

// handleWithRetry runs h at most retries+1 times.
func handleWithRetry(ctx context.Context, h Handler, m Message, retries int, backoff time.Duration) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 && backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		if err = h(ctx, m); err == nil {
			return nil
		}
	}
	return err
}
