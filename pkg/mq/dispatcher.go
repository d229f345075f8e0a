package mq

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatcher publishes in the background. Messages sharing a key go through
// the same worker, so their relative order is kept.
type Dispatcher struct {
	pub     Publisher
	log     *logrus.Entry
	timeout time.Duration
	onDone  func(Message, error)

	mu     sync.RWMutex
	closed bool
	shards []chan Message
	wg     sync.WaitGroup
}

type DispatcherOption func(*Dispatcher)

// OnResult registers a callback invoked after every publish attempt.
func OnResult(fn func(Message, error)) DispatcherOption {
	return func(d *Dispatcher) { d.onDone = fn }
}

func NewDispatcher(pub Publisher, log *logrus.Entry, workers int, timeout time.Duration, opts ...DispatcherOption) *Dispatcher {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	d := &Dispatcher{pub: pub, log: log, timeout: timeout}
	for _, o := range opts {
		o(d)
	}
	d.shards = make([]chan Message, workers)
	for i := range d.shards {
		d.shards[i] = make(chan Message, 256)
		d.wg.Add(1)
		go d.run(d.shards[i])
	}
	return d
}

func (d *Dispatcher) run(in <-chan Message) {
	defer d.wg.Done()
	for m := range in {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.pub.Publish(ctx, m)
		cancel()
		fields := logrus.Fields{"topic": m.Topic, "key": m.Key, "message_id": m.ID}
		if err != nil {
			d.log.WithFields(fields).WithError(err).Error("event publish failed")
		} else {
			d.log.WithFields(fields).Debug("event published")
		}
		if d.onDone != nil {
			d.onDone(m, err)
		}
	}
}

// Dispatch serializes payload and queues it for publication. It never fails
// the caller; problems are logged.
func (d *Dispatcher) Dispatch(topic, key string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		d.log.WithError(err).WithField("topic", topic).Error("event encode failed")
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.WithFields(logrus.Fields{"topic": topic, "key": key}).Warn("dispatcher closed, event dropped")
		return
	}
	d.shards[shardFor(key, len(d.shards))] <- Message{Topic: topic, Key: key, Body: body, Timestamp: time.Now().UTC()}
}

// Close stops accepting events and waits for queued ones to be published.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, s := range d.shards {
		close(s)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func shardFor(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
