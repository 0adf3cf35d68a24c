package messaging

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Memory keeps published messages in process. It backs kiosks running
// without a broker and doubles as a test recorder.
type Memory struct {
	mu     sync.Mutex
	topics map[string][]Message
	seq    int64
	closed bool
}

func NewMemory() *Memory {
	return &Memory{topics: make(map[string][]Message)}
}

func (m *Memory) Publish(ctx context.Context, topic string, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if topic == "" {
		return Receipt{}, ErrTopicRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Receipt{}, ErrClosed
	}
	m.seq++
	m.topics[topic] = append(m.topics[topic], msg)

	return Receipt{ID: strconv.FormatInt(m.seq, 10), Topic: topic, Offset: m.seq - 1, AcceptedAt: time.Now()}, nil
}

// Messages returns a copy of what was published to topic.
func (m *Memory) Messages(topic string) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Message(nil), m.topics[topic]...)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	return nil
}
