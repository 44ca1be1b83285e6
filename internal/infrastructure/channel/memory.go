package channel

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type inflight struct {
	msg       Message
	redeliver time.Time
}

// Memory is an in-process channel. Durable only for the lifetime of
// the process; the SQLite channel is the durable counterpart with the
// same delivery semantics.
type Memory struct {
	mu         sync.Mutex
	queues     map[string][]Message
	inflight   map[string]map[string]inflight
	Visibility time.Duration
}

func NewMemory(visibility time.Duration) *Memory {
	return &Memory{
		queues:     make(map[string][]Message),
		inflight:   make(map[string]map[string]inflight),
		Visibility: visibility,
	}
}

func (m *Memory) Publish(ctx context.Context, topic, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queues[topic] = append(m.queues[topic], Message{
		ID:    uuid.NewString(),
		Key:   key,
		Value: value,
	})
	return nil
}

func (m *Memory) Poll(ctx context.Context, topic string, max int, wait time.Duration) ([]Message, error) {
	deadline := time.Now().Add(wait)

	for {
		msgs := m.take(topic, max)
		if len(msgs) > 0 {
			return msgs, nil
		}

		if !time.Now().Before(deadline) {
			return nil, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func (m *Memory) take(topic string, max int) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requeueExpired(topic)

	queue := m.queues[topic]
	n := min(max, len(queue))
	if n == 0 {
		return nil
	}

	msgs := make([]Message, n)
	copy(msgs, queue[:n])
	m.queues[topic] = queue[n:]

	if m.inflight[topic] == nil {
		m.inflight[topic] = make(map[string]inflight)
	}
	for _, msg := range msgs {
		m.inflight[topic][msg.ID] = inflight{
			msg:       msg,
			redeliver: time.Now().Add(m.Visibility),
		}
	}

	return msgs
}

// requeueExpired moves unacked messages whose visibility expired back
// to the head of the queue. Caller holds the lock.
func (m *Memory) requeueExpired(topic string) {
	now := time.Now()
	for id, f := range m.inflight[topic] {
		if now.After(f.redeliver) {
			m.queues[topic] = append([]Message{f.msg}, m.queues[topic]...)
			delete(m.inflight[topic], id)
		}
	}
}

func (m *Memory) Ack(ctx context.Context, topic, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.inflight[topic], id)
	return nil
}
