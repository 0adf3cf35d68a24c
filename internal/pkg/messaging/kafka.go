package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

// KafkaConfig configures the Kafka driver.
type KafkaConfig struct {
	Brokers      []string
	BatchTimeout time.Duration
	// RequireAll waits for every in-sync replica to acknowledge.
	RequireAll bool
}

// Kafka publishes through one multi-topic kafka-go writer.
type Kafka struct {
	writer *kafka.Writer

	mu     sync.RWMutex
	closed bool
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	acks := kafka.RequireOne
	if cfg.RequireAll {
		acks = kafka.RequireAll
	}

	batch := cfg.BatchTimeout
	if batch <= 0 {
		batch = 10 * time.Millisecond
	}

	return &Kafka{writer: &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           acks,
		BatchTimeout:           batch,
		AllowAutoTopicCreation: true,
	}}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if topic == "" {
		return Receipt{}, ErrTopicRequired
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return Receipt{}, ErrClosed
	}

	kmsg := kafka.Message{Topic: topic, Value: msg.Body, Time: time.Now()}
	if msg.Key != "" {
		kmsg.Key = []byte(msg.Key)
	}
	for key, v := range msg.Headers {
		kmsg.Headers = append(kmsg.Headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	if err := k.writer.WriteMessages(ctx, kmsg); err != nil {
		return Receipt{}, fmt.Errorf("messaging: kafka publish: %w", err)
	}

	return Receipt{Topic: topic, AcceptedAt: kmsg.Time}, nil
}

func (k *Kafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil
	}
	k.closed = true

	return k.writer.Close()
}
