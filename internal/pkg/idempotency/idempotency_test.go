package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type trackerSuite struct {
	suite.Suite

	tracker Idempotency
	advance func(time.Duration)
}

func TestRedisTracker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	suite.Run(t, &trackerSuite{
		tracker: New(client),
		advance: mr.FastForward,
	})
}

func TestMemoryTracker(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	suite.Run(t, &trackerSuite{
		tracker: NewMemory(fake),
		advance: fake.Advance,
	})
}

func (s *trackerSuite) TestExec_RunsOnce() {
	ctx := context.Background()
	calls := 0
	fn := func(context.Context) error {
		calls++
		return nil
	}

	s.Require().NoError(s.tracker.Exec(ctx, "order:once", fn))
	s.Require().ErrorIs(s.tracker.Exec(ctx, "order:once", fn), ErrAlreadyCompleted)
	s.Equal(1, calls)
}

func (s *trackerSuite) TestExec_FailureIsRecorded() {
	ctx := context.Background()
	boom := errors.New("stock exhausted")

	err := s.tracker.Exec(ctx, "order:failed", func(context.Context) error { return boom })
	s.Require().ErrorIs(err, boom)

	err = s.tracker.Exec(ctx, "order:failed", func(context.Context) error { return nil })
	s.Require().ErrorIs(err, ErrAlreadyFailed)
}

func (s *trackerSuite) TestExec_RetryableReleasesKey() {
	ctx := context.Background()
	timeout := errors.New("connection reset")

	err := s.tracker.Exec(ctx, "order:flaky", func(context.Context) error { return Retryable(timeout) })
	s.Require().ErrorIs(err, timeout)
	s.True(IsRetryable(err))

	s.Require().NoError(s.tracker.Exec(ctx, "order:flaky", func(context.Context) error { return nil }))
}

func (s *trackerSuite) TestExec_InProgress() {
	ctx := context.Background()

	err := s.tracker.Exec(ctx, "order:nested", func(ctx context.Context) error {
		return s.tracker.Exec(ctx, "order:nested", func(context.Context) error { return nil })
	})
	s.Require().ErrorIs(err, ErrAlreadyInProgress)
}

func (s *trackerSuite) TestAcquire_Expires() {
	ctx := context.Background()

	state, err := s.tracker.Acquire(ctx, "order:lock", time.Second)
	s.Require().NoError(err)
	s.Equal(StateNone, state)

	state, err = s.tracker.Acquire(ctx, "order:lock", time.Second)
	s.Require().NoError(err)
	s.Equal(StateInProgress, state)

	s.advance(2 * time.Second)

	state, err = s.tracker.Acquire(ctx, "order:lock", time.Second)
	s.Require().NoError(err)
	s.Equal(StateNone, state)
}

func (s *trackerSuite) TestExec_StateTTL() {
	ctx := context.Background()
	fn := func(context.Context) error { return nil }

	s.Require().NoError(s.tracker.Exec(ctx, "order:ttl", fn, WithStateTTL(time.Minute), WithLockDuration(time.Second)))
	s.advance(2 * time.Minute)
	s.Require().NoError(s.tracker.Exec(ctx, "order:ttl", fn))
}

func TestRedisTracker_InvalidState(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("idempotency:order:corrupt", "garbage"))

	state, err := New(client).Acquire(context.Background(), "order:corrupt", time.Second)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, StateError, state)
}

func TestRetryable_Nil(t *testing.T) {
	assert.NoError(t, Retryable(nil))
	assert.False(t, IsRetryable(errors.New("x")))
}
