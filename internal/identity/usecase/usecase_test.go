package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goroutine"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/validator"
	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
	"github.com/shandysiswandi/rationkiosk/internal/shared/otc"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
	"github.com/shandysiswandi/rationkiosk/internal/shared/session"
)

type fakeBackend struct {
	mu        sync.Mutex
	calls     []rationapi.ValidateIdentityRequest
	match     bool
	err       error
	codes     map[string]string
	requested []otc.Target
}

func (f *fakeBackend) ValidateIdentity(_ context.Context, in rationapi.ValidateIdentityRequest) (rationapi.ValidateIdentityResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, in)
	if f.err != nil {
		return rationapi.ValidateIdentityResponse{}, f.err
	}

	return rationapi.ValidateIdentityResponse{Match: f.match}, nil
}

func (f *fakeBackend) Request(_ context.Context, _ otc.Purpose, t otc.Target) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, t)

	return nil
}

func (f *fakeBackend) Verify(_ context.Context, _ otc.Purpose, t otc.Target, code string) (rationapi.SessionGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.codes[t.HouseholdCode] != code {
		n := 2
		return rationapi.SessionGrant{}, &otc.RejectedError{AttemptsRemaining: &n}
	}

	return rationapi.SessionGrant{
		AccessToken: "token-1",
		ExpiresAt:   time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Identity: rationapi.Identity{
			HouseholdCode: t.HouseholdCode,
			ContactHandle: t.ContactHandle,
			DisplayName:   "Jane Doe",
			HouseholdArea: "Chennai",
		},
	}, nil
}

type fakeMessaging struct {
	mu     sync.Mutex
	events []HouseholdLoginEvent
}

func (f *fakeMessaging) PublishHouseholdLogin(_ context.Context, msg HouseholdLoginEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msg)

	return nil
}

type fixture struct {
	uc       *Usecase
	backend  *fakeBackend
	msg      *fakeMessaging
	sessions *session.Store
	clock    *clock.Fake
	gm       *goroutine.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return newFixtureWith(t, nil)
}

// newFixtureWith builds the login challenge on the backend login returns.
func newFixtureWith(t *testing.T, login func(f *fixture) otc.Backend[rationapi.SessionGrant]) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)
	cfg, err := config.NewViperFromBytes("yaml", []byte("identity:\n  contact_domain: gmail.com\n"))
	require.NoError(t, err)

	f := &fixture{
		backend:  &fakeBackend{match: true, codes: map[string]string{"123456789012": "552013"}},
		msg:      &fakeMessaging{},
		sessions: session.NewStore(),
		clock:    clock.NewFake(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)),
		gm:       goroutine.NewManager(4),
	}
	var loginBackend otc.Backend[rationapi.SessionGrant] = f.backend
	if login != nil {
		loginBackend = login(f)
	}
	challenge := otc.New(otc.Config{Purpose: otc.PurposeLogin, Clock: f.clock}, loginBackend)
	f.uc = New(Dependency{
		RepoBackend:   f.backend,
		RepoMessaging: f.msg,
		Login:         challenge,
		Sessions:      f.sessions,
		Validator:     v,
		Config:        cfg,
		Clock:         f.clock,
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.gm,
	})
	f.sessions.OnClear(f.uc.Reset)

	return f
}

func TestUsecase_Validate(t *testing.T) {
	t.Run("valid credentials are normalized before transmission", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		out, err := f.uc.Validate(context.Background(), ValidateInput{HouseholdCode: "1234-5678-9012", ContactHandle: "Jane.Doe"})

		// Assert
		require.NoError(t, err)
		assert.True(t, out.Match)
		require.Len(t, f.backend.calls, 1)
		assert.Equal(t, "123456789012", f.backend.calls[0].HouseholdCode)
		assert.Equal(t, "jane.doe@gmail.com", f.backend.calls[0].ContactHandle)
	})

	t.Run("malformed input never reaches the backend", func(t *testing.T) {
		inputs := []ValidateInput{
			{HouseholdCode: "123456789012", ContactHandle: "jane"},
			{HouseholdCode: "1234-5678-9012", ContactHandle: "jane@gmail.com"},
			{},
		}
		for _, in := range inputs {
			// Arrange
			f := newFixture(t)

			// Act
			_, err := f.uc.Validate(context.Background(), in)

			// Assert
			assert.Equal(t, failure.ReasonMalformedInput, goerror.ReasonOf(err))
			assert.Empty(t, f.backend.calls)
		}
	})

	t.Run("no match", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.backend.match = false

		// Act
		_, err := f.uc.Validate(context.Background(), ValidateInput{HouseholdCode: "1234-5678-9012", ContactHandle: "jane"})

		// Assert
		assert.ErrorIs(t, err, failure.ErrNoMatch)
		_, err = f.uc.RequestOTC(context.Background())
		assert.ErrorIs(t, err, failure.ErrIdentityNotValidated)
	})

	t.Run("transport failure is backend_unavailable", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.backend.err = errors.New("dial tcp: refused")

		// Act
		_, err := f.uc.Validate(context.Background(), ValidateInput{HouseholdCode: "1234-5678-9012", ContactHandle: "jane"})

		// Assert
		assert.ErrorIs(t, err, failure.ErrBackendUnavailable)
	})

	t.Run("typed backend errors pass through", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.backend.err = failure.ErrUnauthorized

		// Act
		_, err := f.uc.Validate(context.Background(), ValidateInput{HouseholdCode: "1234-5678-9012", ContactHandle: "jane"})

		// Assert
		assert.ErrorIs(t, err, failure.ErrUnauthorized)
	})
}

func TestUsecase_LoginFlow(t *testing.T) {
	t.Run("validate, request and verify produce a session", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		ctx := context.Background()

		// Act
		_, err := f.uc.Validate(ctx, ValidateInput{HouseholdCode: "1234-5678-9012", ContactHandle: "jane.doe"})
		require.NoError(t, err)
		sent, err := f.uc.RequestOTC(ctx)
		require.NoError(t, err)
		out, err := f.uc.VerifyOTC(ctx, VerifyOTCInput{Code: "552013"})
		require.NoError(t, err)

		// Assert
		assert.Equal(t, otc.StateActive, sent.Status.State)
		assert.Equal(t, 90, sent.Status.RemainingSeconds)
		require.Len(t, f.backend.requested, 1)
		assert.Equal(t, "jane.doe@gmail.com", f.backend.requested[0].ContactHandle)

		assert.Equal(t, "token-1", out.Session.AccessToken)
		assert.Equal(t, "Jane Doe", out.Session.Identity.DisplayName)
		got, ok := f.sessions.Get()
		require.True(t, ok)
		assert.Equal(t, out.Session, got)

		st, err := f.uc.OTCStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, otc.StateConsumed, st.Status.State)

		require.NoError(t, f.gm.Wait())
		require.Len(t, f.msg.events, 1)
		assert.Equal(t, HouseholdLoginEvent{HouseholdCode: "123456789012", HouseholdArea: "Chennai"}, f.msg.events[0])
	})

	t.Run("wrong code keeps the challenge active", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		ctx := context.Background()
		_, err := f.uc.Validate(ctx, ValidateInput{HouseholdCode: "1234-5678-9012", ContactHandle: "jane.doe"})
		require.NoError(t, err)
		_, err = f.uc.RequestOTC(ctx)
		require.NoError(t, err)

		// Act
		_, err = f.uc.VerifyOTC(ctx, VerifyOTCInput{Code: "000000"})

		// Assert
		assert.ErrorIs(t, err, failure.ErrOTCInvalid)
		st, _ := f.uc.OTCStatus(ctx)
		assert.Equal(t, otc.StateActive, st.Status.State)
		require.NotNil(t, st.Status.AttemptsRemaining)
		assert.Equal(t, 2, *st.Status.AttemptsRemaining)
		_, ok := f.sessions.Get()
		assert.False(t, ok)

		_, err = f.uc.VerifyOTC(ctx, VerifyOTCInput{Code: "552013"})
		require.NoError(t, err)
	})

	t.Run("malformed code is rejected locally", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.VerifyOTC(context.Background(), VerifyOTCInput{Code: "12ab"})

		// Assert
		assert.Equal(t, failure.ReasonMalformedInput, goerror.ReasonOf(err))
	})

	t.Run("expired countdown", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		ctx := context.Background()
		_, err := f.uc.Validate(ctx, ValidateInput{HouseholdCode: "1234-5678-9012", ContactHandle: "jane.doe"})
		require.NoError(t, err)
		_, err = f.uc.RequestOTC(ctx)
		require.NoError(t, err)

		// Act
		f.clock.Advance(91 * time.Second)
		_, err = f.uc.VerifyOTC(ctx, VerifyOTCInput{Code: "552013"})

		// Assert
		assert.ErrorIs(t, err, failure.ErrOTCExpiredOrInvalidated)
	})
}

func TestUsecase_SessionAndLogout(t *testing.T) {
	t.Run("no session is unauthorized", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.Session(context.Background())

		// Assert
		assert.ErrorIs(t, err, failure.ErrUnauthorized)
	})

	t.Run("logout clears session, candidate and challenge", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		ctx := context.Background()
		_, err := f.uc.Validate(ctx, ValidateInput{HouseholdCode: "1234-5678-9012", ContactHandle: "jane.doe"})
		require.NoError(t, err)
		_, err = f.uc.RequestOTC(ctx)
		require.NoError(t, err)
		f.sessions.Set(session.Session{AccessToken: "t"})

		// Act
		require.NoError(t, f.uc.Logout(ctx))

		// Assert
		_, err = f.uc.Session(ctx)
		assert.ErrorIs(t, err, failure.ErrUnauthorized)
		st, _ := f.uc.OTCStatus(ctx)
		assert.Equal(t, otc.StateIdle, st.Status.State)
		_, err = f.uc.RequestOTC(ctx)
		assert.ErrorIs(t, err, failure.ErrIdentityNotValidated)
	})

	t.Run("logout without a session is fine", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		err := f.uc.Logout(context.Background())

		// Assert
		assert.NoError(t, err)
	})
}

func TestUsecase_BackendUnauthorized(t *testing.T) {
	t.Run("login code request", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(srv.Close)

		ctx := context.Background()
		f := newFixtureWith(t, func(f *fixture) otc.Backend[rationapi.SessionGrant] {
			client, err := rationapi.New(srv.URL, srv.Client(), f.sessions, instrument.NewNoop())
			require.NoError(t, err)

			return rationapi.LoginOTC{Client: client}
		})
		f.sessions.Set(session.Session{AccessToken: "stale"})
		_, err := f.uc.Validate(ctx, ValidateInput{HouseholdCode: "1234-5678-9012", ContactHandle: "jane.doe"})
		require.NoError(t, err)

		// Act
		_, err = f.uc.RequestOTC(ctx)

		// Assert
		require.ErrorIs(t, err, failure.ErrUnauthorized)
		assert.Equal(t, failure.ReasonUnauthorized, goerror.ReasonOf(err))
		_, ok := f.sessions.Get()
		assert.False(t, ok)
		st, err := f.uc.OTCStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, otc.StateIdle, st.Status.State)
		_, err = f.uc.RequestOTC(ctx)
		assert.ErrorIs(t, err, failure.ErrIdentityNotValidated)
	})
}
