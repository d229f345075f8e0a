package mq

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Memory is an in-process bus. Each topic is an append-only log and each
// consumer group keeps its own offset from the start of that log, so a group
// subscribing late still sees every message.
type Memory struct {
	mu        sync.Mutex
	logs      map[string][]Message
	offsets   map[string]int
	processed map[string]int
	signal    chan struct{}
	pubErr    error

	Retries int
	Log     *logrus.Entry
}

func NewMemory() *Memory {
	return &Memory{
		logs:      map[string][]Message{},
		offsets:   map[string]int{},
		processed: map[string]int{},
		signal:    make(chan struct{}),
		Log:       logrus.NewEntry(logrus.StandardLogger()),
	}
}

// FailPublish makes every later Publish return err; nil restores success.
func (b *Memory) FailPublish(err error) {
	b.mu.Lock()
	b.pubErr = err
	b.mu.Unlock()
}

func (b *Memory) Publish(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pubErr != nil {
		return b.pubErr
	}
	b.logs[m.Topic] = append(b.logs[m.Topic], m)
	close(b.signal)
	b.signal = make(chan struct{})
	return nil
}

// Published returns a copy of every message on topic, in publish order.
func (b *Memory) Published(topic string) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.logs[topic]...)
}

// Processed reports how many messages of topic the group has finished with.
func (b *Memory) Processed(group, topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.processed[group+"|"+topic]
}

func (b *Memory) Subscribe(ctx context.Context, group, topic string, h Handler) error {
	k := group + "|" + topic
	log := b.Log.WithFields(logrus.Fields{"group": group, "topic": topic})
	for {
		b.mu.Lock()
		off := b.offsets[k]
		if off < len(b.logs[topic]) {
			m := b.logs[topic][off]
			b.offsets[k] = off + 1
			b.mu.Unlock()

			if err := handleWithRetry(ctx, h, m, b.Retries, 0); err != nil {
				log.WithError(err).WithField("key", m.Key).Warn("skipping message")
			}
			b.mu.Lock()
			b.processed[k]++
			b.mu.Unlock()
			continue
		}
		wait := b.signal
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil
		case <-wait:
		}
	}
}
