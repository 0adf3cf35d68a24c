// Package otc runs the one-time-code challenge state machine shared by the
// login and order-confirmation flows.
//
// A Challenge is bound to one purpose. It is idle until Request succeeds,
// then active for a local countdown. Verify consumes it; the backend may
// invalidate or expire it; Abandon drops it. Every Request or Abandon starts a
// new generation, and late results of an older generation are returned to
// their caller without touching the current state.
package otc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
)

// DefaultCountdown is the local validity window shown to the user.
const DefaultCountdown = 90 * time.Second

type Purpose string

const (
	PurposeLogin Purpose = "login"
	PurposeOrder Purpose = "order"
)

type State string

const (
	StateIdle        State = "idle"
	StateRequested   State = "requested"
	StateActive      State = "active"
	StateConsumed    State = "consumed"
	StateExpired     State = "expired"
	StateInvalidated State = "invalidated"
)

// Target is what the code is bound to: a household for login, an order
// reference for order confirmation.
type Target struct {
	HouseholdCode string
	OrderRef      string
	ContactHandle string
}

// Errors a Backend reports for a verify the backend answered.
var (
	ErrCodeRejected      = errors.New("otc: code rejected")
	ErrAttemptsExhausted = errors.New("otc: attempts exhausted")
	ErrChallengeGone     = errors.New("otc: challenge expired or already used")
	ErrNotAccepted       = errors.New("otc: request not accepted")
)

// RejectedError is a wrong code. AttemptsRemaining is nil when the backend
// does not say.
type RejectedError struct {
	AttemptsRemaining *int
}

func (e *RejectedError) Error() string {
	if e.AttemptsRemaining == nil {
		return ErrCodeRejected.Error()
	}

	return fmt.Sprintf("%s (%d attempts remaining)", ErrCodeRejected, *e.AttemptsRemaining)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrCodeRejected
}

// Backend issues and checks codes. Verify returns RejectedError,
// ErrAttemptsExhausted or ErrChallengeGone for answers; any other error is
// treated as a transport failure. Errors that are already *goerror.Error pass
// through unchanged.
type Backend[T any] interface {
	Request(ctx context.Context, purpose Purpose, target Target) error
	Verify(ctx context.Context, purpose Purpose, target Target, code string) (T, error)
}

// Status is the UI view of a challenge.
type Status struct {
	Purpose           Purpose
	State             State
	ExpiresAt         time.Time
	RemainingSeconds  int
	AttemptsRemaining *int
}

// Config configures a Challenge.
type Config struct {
	Purpose   Purpose
	Countdown time.Duration
	Clock     clock.Clocker
}

// Challenge is one purpose's one-time-code lifecycle. T is the payload a
// successful verify yields.
type Challenge[T any] struct {
	purpose   Purpose
	countdown time.Duration
	clock     clock.Clocker
	backend   Backend[T]

	mu        sync.Mutex
	state     State
	gen       uint64
	target    Target
	expiresAt time.Time
	attempts  *int
	timer     clock.Timer
	verifying bool
}

func New[T any](cfg Config, backend Backend[T]) *Challenge[T] {
	countdown := cfg.Countdown
	if countdown <= 0 {
		countdown = DefaultCountdown
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &Challenge[T]{
		purpose:   cfg.Purpose,
		countdown: countdown,
		clock:     clk,
		backend:   backend,
		state:     StateIdle,
	}
}

// Request asks the backend to issue a code for target. It fails with
// already_active while a request is in flight or a code is still live.
func (c *Challenge[T]) Request(ctx context.Context, target Target) (Status, error) {
	c.mu.Lock()
	c.expireIfDue()
	if c.state == StateRequested || c.state == StateActive {
		st := c.statusLocked()
		c.mu.Unlock()
		return st, failure.ErrAlreadyActive
	}

	prev := c.state
	c.state = StateRequested
	c.gen++
	gen := c.gen
	c.verifying = false
	c.mu.Unlock()

	err := c.backend.Request(ctx, c.purpose, target)

	c.mu.Lock()
	defer c.mu.Unlock()

	// a backend error wins over a newer generation, so unauthorized from a
	// request that cleared the session still reaches the caller
	if err != nil {
		if gen == c.gen {
			c.state = prev
		}
		var gerr *goerror.Error
		if errors.As(err, &gerr) {
			return c.statusLocked(), err
		}
		return c.statusLocked(), failure.Wrap(failure.ErrOTCRequestFailed, err)
	}

	if gen != c.gen {
		slog.WarnContext(ctx, "otc request finished after abandon", "purpose", c.purpose)
		return c.statusLocked(), failure.Wrap(failure.ErrOTCRequestFailed, context.Canceled)
	}

	c.state = StateActive
	c.target = target
	c.attempts = nil
	c.expiresAt = c.clock.Now().Add(c.countdown)
	c.timer = c.clock.AfterFunc(c.countdown, func() { c.expire(gen) })

	return c.statusLocked(), nil
}

// Verify submits code for the active challenge.
func (c *Challenge[T]) Verify(ctx context.Context, code string) (T, error) {
	var zero T

	c.mu.Lock()
	c.expireIfDue()
	if c.verifying {
		c.mu.Unlock()
		return zero, failure.ErrOTCVerifyInFlight
	}
	if c.state != StateActive {
		c.mu.Unlock()
		return zero, failure.ErrOTCExpiredOrInvalidated
	}

	c.verifying = true
	gen := c.gen
	target := c.target
	c.mu.Unlock()

	payload, err := c.backend.Verify(ctx, c.purpose, target, code)

	c.mu.Lock()
	defer c.mu.Unlock()

	live := gen == c.gen
	if live {
		c.verifying = false
	}
	live = live && c.state == StateActive

	var rejected *RejectedError
	var gerr *goerror.Error
	switch {
	case err == nil:
		if live {
			c.settle(StateConsumed)
		}
		return payload, nil

	case errors.As(err, &rejected):
		if live && rejected.AttemptsRemaining != nil {
			n := *rejected.AttemptsRemaining
			c.attempts = &n
		}
		return zero, failure.Wrap(failure.ErrOTCInvalid, err)

	case errors.Is(err, ErrAttemptsExhausted):
		if live {
			c.settle(StateInvalidated)
		}
		return zero, failure.Wrap(failure.ErrOTCExpiredOrInvalidated, err)

	case errors.Is(err, ErrChallengeGone):
		if live {
			c.settle(StateExpired)
		}
		return zero, failure.Wrap(failure.ErrOTCExpiredOrInvalidated, err)

	case errors.As(err, &gerr):
		return zero, err

	default:
		return zero, failure.Wrap(failure.ErrBackendUnavailable, err)
	}
}

// Abandon drops the challenge locally. The backend is not told.
func (c *Challenge[T]) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimer()
	c.gen++
	c.state = StateIdle
	c.target = Target{}
	c.expiresAt = time.Time{}
	c.attempts = nil
	c.verifying = false
}

func (c *Challenge[T]) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expireIfDue()
	return c.statusLocked()
}

// Target returns the target of the live or last consumed challenge.
func (c *Challenge[T]) Target() (Target, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.target, c.state == StateActive || c.state == StateConsumed
}

func (c *Challenge[T]) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen == c.gen && c.state == StateActive {
		c.state = StateExpired
		c.timer = nil
	}
}

// expireIfDue covers a timer that has not fired yet on a busy clock.
func (c *Challenge[T]) expireIfDue() {
	if c.state == StateActive && !c.clock.Now().Before(c.expiresAt) {
		c.settle(StateExpired)
	}
}

func (c *Challenge[T]) settle(s State) {
	c.stopTimer()
	c.state = s
}

func (c *Challenge[T]) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Challenge[T]) statusLocked() Status {
	st := Status{Purpose: c.purpose, State: c.state}
	if c.attempts != nil {
		n := *c.attempts
		st.AttemptsRemaining = &n
	}

	if c.state == StateActive {
		st.ExpiresAt = c.expiresAt
		remaining := c.expiresAt.Sub(c.clock.Now()).Seconds()
		st.RemainingSeconds = max(0, int(math.Ceil(remaining)))
	}

	return st
}
