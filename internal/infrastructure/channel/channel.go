package channel

import (
	"context"
	"time"
)

// Message is one charge request on a topic. Key carries the currency
// code the message was partitioned by; Value is the pipe-delimited
// wire payload.
type Message struct {
	ID    string
	Key   string
	Value string
}

type Publisher interface {
	Publish(ctx context.Context, topic, key, value string) error
}

// Consumer drains a topic with at-least-once semantics: a polled
// message that is never acked becomes visible again after the
// channel's visibility timeout and is redelivered.
type Consumer interface {
	Poll(ctx context.Context, topic string, max int, wait time.Duration) ([]Message, error)
	Ack(ctx context.Context, topic, id string) error
}
