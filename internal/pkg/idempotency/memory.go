package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
)

type entry struct {
	state     State
	expiresAt time.Time
}

// Memory is an in-process tracker for kiosks running without Redis.
type Memory struct {
	mu      sync.Mutex
	clock   clock.Clocker
	entries map[string]entry
}

func NewMemory(c clock.Clocker) *Memory {
	return &Memory{clock: c, entries: make(map[string]entry)}
}

func (m *Memory) Acquire(_ context.Context, key string, lockDuration time.Duration) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.sweep(now)

	if e, ok := m.entries[key]; ok {
		return e.state, nil
	}
	m.entries[key] = entry{state: StateInProgress, expiresAt: now.Add(lockDuration)}

	return StateNone, nil
}

func (m *Memory) MarkCompleted(_ context.Context, key string, ttl time.Duration) error {
	m.set(key, StateCompleted, ttl)
	return nil
}

func (m *Memory) MarkFailed(_ context.Context, key string, ttl time.Duration) error {
	m.set(key, StateFailed, ttl)
	return nil
}

func (m *Memory) Release(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()

	return nil
}

func (m *Memory) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	return exec(ctx, m, key, fn, opts)
}

func (m *Memory) set(key string, st State, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = entry{state: st, expiresAt: m.clock.Now().Add(ttl)}
	m.mu.Unlock()
}

func (m *Memory) sweep(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}
