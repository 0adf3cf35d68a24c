package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrTopicRequired is returned when Publish gets an empty topic.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrClosed is returned by Publish after Close.
	ErrClosed = errors.New("messaging: publisher closed")
)

// Publisher publishes messages to a topic (subject for NATS).
type Publisher interface {
	io.Closer
	Publish(ctx context.Context, topic string, msg Message) (Receipt, error)
}

// Message is a broker-agnostic outgoing message.
type Message struct {
	Body []byte
	// Key partitions on Kafka and orders on Pub/Sub.
	Key string
	// Headers become NATS/Kafka headers and Pub/Sub attributes. NSQ drops them.
	Headers map[string]string
}

// Receipt carries whatever the broker reports back.
type Receipt struct {
	ID         string
	Topic      string
	Partition  int
	Offset     int64
	AcceptedAt time.Time
}
