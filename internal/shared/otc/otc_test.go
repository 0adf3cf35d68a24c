package otc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
)

type verifyResult struct {
	payload string
	err     error
}

type fakeBackend struct {
	mu         sync.Mutex
	requestErr error
	onRequest  func()
	verify     map[string]verifyResult
	requests   []Target
	verifies   []string
	// block, when set, is waited on inside Verify.
	block   chan struct{}
	entered chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{verify: map[string]verifyResult{}}
}

func (f *fakeBackend) Request(_ context.Context, _ Purpose, target Target) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, target)
	hook, err := f.onRequest, f.requestErr
	f.mu.Unlock()

	if hook != nil {
		hook()
	}

	f.mu.Lock()
	return err
}

func (f *fakeBackend) Verify(_ context.Context, _ Purpose, _ Target, code string) (string, error) {
	f.mu.Lock()
	f.verifies = append(f.verifies, code)
	block, entered := f.block, f.entered
	res, ok := f.verify[code]
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if !ok {
		n := 2
		return "", &RejectedError{AttemptsRemaining: &n}
	}

	return res.payload, res.err
}

var login = Target{HouseholdCode: "123456789012", ContactHandle: "jane.doe@gmail.com"}

func newChallenge(t *testing.T) (*Challenge[string], *fakeBackend, *clock.Fake) {
	t.Helper()

	clk := clock.NewFake(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	be := newFakeBackend()
	be.verify["552013"] = verifyResult{payload: "session-token"}

	return New[string](Config{Purpose: PurposeLogin, Clock: clk}, be), be, clk
}

func TestChallenge_WrongCodeThenCorrect(t *testing.T) {
	ctx := context.Background()
	c, be, _ := newChallenge(t)

	st, err := c.Request(ctx, login)
	require.NoError(t, err)
	assert.Equal(t, StateActive, st.State)
	assert.Equal(t, 90, st.RemainingSeconds)

	_, err = c.Verify(ctx, "000000")
	require.ErrorIs(t, err, failure.ErrOTCInvalid)
	assert.Equal(t, StateActive, c.Status().State)
	require.NotNil(t, c.Status().AttemptsRemaining)
	assert.Equal(t, 2, *c.Status().AttemptsRemaining)

	got, err := c.Verify(ctx, "552013")
	require.NoError(t, err)
	assert.Equal(t, "session-token", got)
	assert.Equal(t, StateConsumed, c.Status().State)
	assert.Equal(t, []string{"000000", "552013"}, be.verifies)

	_, err = c.Verify(ctx, "552013")
	require.ErrorIs(t, err, failure.ErrOTCExpiredOrInvalidated)
}

func TestChallenge_RequestWhileActive(t *testing.T) {
	ctx := context.Background()
	c, be, _ := newChallenge(t)

	_, err := c.Request(ctx, login)
	require.NoError(t, err)

	_, err = c.Request(ctx, login)
	require.ErrorIs(t, err, failure.ErrAlreadyActive)
	assert.Len(t, be.requests, 1)
}

func TestChallenge_CountdownExpires(t *testing.T) {
	ctx := context.Background()
	c, be, clk := newChallenge(t)

	_, err := c.Request(ctx, login)
	require.NoError(t, err)

	clk.Advance(89 * time.Second)
	assert.Equal(t, 1, c.Status().RemainingSeconds)

	clk.Advance(time.Second)
	st := c.Status()
	assert.Equal(t, StateExpired, st.State)
	assert.Zero(t, st.RemainingSeconds)

	_, err = c.Verify(ctx, "552013")
	require.ErrorIs(t, err, failure.ErrOTCExpiredOrInvalidated)
	assert.Empty(t, be.verifies)

	_, err = c.Request(ctx, login)
	require.NoError(t, err)
	assert.Equal(t, StateActive, c.Status().State)
}

func TestChallenge_RequestFailureRestoresState(t *testing.T) {
	ctx := context.Background()
	c, be, clk := newChallenge(t)

	be.requestErr = ErrNotAccepted
	st, err := c.Request(ctx, login)
	require.ErrorIs(t, err, failure.ErrOTCRequestFailed)
	assert.Equal(t, StateIdle, st.State)

	be.requestErr = nil
	_, err = c.Request(ctx, login)
	require.NoError(t, err)
	clk.Advance(DefaultCountdown)

	be.requestErr = errors.New("connection reset")
	st, err = c.Request(ctx, login)
	require.ErrorIs(t, err, failure.ErrOTCRequestFailed)
	assert.Equal(t, StateExpired, st.State)
}

func TestChallenge_RequestPassesTypedErrors(t *testing.T) {
	c, be, _ := newChallenge(t)
	be.requestErr = failure.ErrUnauthorized

	_, err := c.Request(context.Background(), login)
	require.ErrorIs(t, err, failure.ErrUnauthorized)
	assert.Equal(t, StateIdle, c.Status().State)
}

func TestChallenge_RequestErrorAfterAbandon(t *testing.T) {
	t.Run("ErrorTypedWins", func(t *testing.T) {
		// Arrange
		c, be, _ := newChallenge(t)
		be.requestErr = failure.ErrUnauthorized
		be.onRequest = c.Abandon

		// Act
		st, err := c.Request(context.Background(), login)

		// Assert
		require.ErrorIs(t, err, failure.ErrUnauthorized)
		assert.NotErrorIs(t, err, context.Canceled)
		assert.Equal(t, StateIdle, st.State)
	})

	t.Run("ErrorSuccessAfterAbandonIsDropped", func(t *testing.T) {
		// Arrange
		c, be, clk := newChallenge(t)
		be.onRequest = c.Abandon

		// Act
		st, err := c.Request(context.Background(), login)

		// Assert
		require.ErrorIs(t, err, failure.ErrOTCRequestFailed)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, StateIdle, st.State)
		assert.Zero(t, clk.Pending())
	})
}

func TestChallenge_BackendVerdicts(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		want  error
		state State
	}{
		{name: "exhausted", err: ErrAttemptsExhausted, want: failure.ErrOTCExpiredOrInvalidated, state: StateInvalidated},
		{name: "gone", err: ErrChallengeGone, want: failure.ErrOTCExpiredOrInvalidated, state: StateExpired},
		{name: "transport", err: errors.New("i/o timeout"), want: failure.ErrBackendUnavailable, state: StateActive},
		{name: "unauthorized", err: failure.ErrUnauthorized, want: failure.ErrUnauthorized, state: StateActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			c, be, _ := newChallenge(t)
			be.verify["111111"] = verifyResult{err: tt.err}

			_, err := c.Request(ctx, login)
			require.NoError(t, err)

			_, err = c.Verify(ctx, "111111")
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.state, c.Status().State)
			assert.Equal(t, tt.want.(*goerror.Error).Reason(), goerror.ReasonOf(err))
		})
	}
}

func TestChallenge_InFlightVerifyHonoredAfterExpiry(t *testing.T) {
	ctx := context.Background()
	c, be, clk := newChallenge(t)
	be.block = make(chan struct{})
	be.entered = make(chan struct{}, 1)

	_, err := c.Request(ctx, login)
	require.NoError(t, err)

	type out struct {
		payload string
		err     error
	}
	done := make(chan out, 1)
	go func() {
		p, err := c.Verify(ctx, "552013")
		done <- out{p, err}
	}()
	<-be.entered

	_, err = c.Verify(ctx, "552013")
	require.ErrorIs(t, err, failure.ErrOTCVerifyInFlight)

	clk.Advance(DefaultCountdown)
	assert.Equal(t, StateExpired, c.Status().State)

	close(be.block)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "session-token", res.payload)
	assert.Equal(t, StateExpired, c.Status().State)
}

func TestChallenge_Abandon(t *testing.T) {
	ctx := context.Background()
	c, be, clk := newChallenge(t)

	_, err := c.Request(ctx, login)
	require.NoError(t, err)
	assert.Equal(t, 1, clk.Pending())

	c.Abandon()
	assert.Equal(t, StateIdle, c.Status().State)
	assert.Zero(t, clk.Pending())
	_, ok := c.Target()
	assert.False(t, ok)

	_, err = c.Verify(ctx, "552013")
	require.ErrorIs(t, err, failure.ErrOTCExpiredOrInvalidated)

	_, err = c.Request(ctx, login)
	require.NoError(t, err)
	assert.Len(t, be.requests, 2)
}

func TestChallenge_PurposesAreIndependent(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(time.Now())
	be := newFakeBackend()

	loginC := New[string](Config{Purpose: PurposeLogin, Clock: clk}, be)
	orderC := New[string](Config{Purpose: PurposeOrder, Clock: clk, Countdown: time.Minute}, be)

	_, err := loginC.Request(ctx, login)
	require.NoError(t, err)
	_, err = orderC.Request(ctx, Target{OrderRef: "o-1", ContactHandle: login.ContactHandle})
	require.NoError(t, err)

	orderC.Abandon()
	assert.Equal(t, StateActive, loginC.Status().State)
	assert.Equal(t, PurposeOrder, orderC.Status().Purpose)

	clk.Advance(time.Minute)
	assert.Equal(t, StateActive, loginC.Status().State)
}

func TestRejectedError(t *testing.T) {
	n := 1
	err := error(&RejectedError{AttemptsRemaining: &n})
	assert.ErrorIs(t, err, ErrCodeRejected)
	assert.Contains(t, err.Error(), "1 attempts remaining")
	assert.Equal(t, ErrCodeRejected.Error(), (&RejectedError{}).Error())
}
