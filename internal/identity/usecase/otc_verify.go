package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/shared/session"
)

type VerifyOTCInput struct {
	Code string `json:"code" validate:"required,otc_code"`
}

type SessionOutput struct {
	Session session.Session
}

// VerifyOTC checks the login code and, on success, opens the session.
func (s *Usecase) VerifyOTC(ctx context.Context, in VerifyOTCInput) (*SessionOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTC")
	defer span.End()

	if err := s.validator.Validate(ctx, in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	grant, err := s.login.Verify(ctx, in.Code)
	if err != nil {
		slog.WarnContext(ctx, "login otc verification failed", "reason", goerror.ReasonOf(err), "error", err)
		return nil, err
	}

	sess := session.Session{
		Identity: session.Identity{
			HouseholdCode: grant.Identity.HouseholdCode,
			ContactHandle: grant.Identity.ContactHandle,
			DisplayName:   grant.Identity.DisplayName,
			HouseholdArea: grant.Identity.HouseholdArea,
		},
		AccessToken: grant.AccessToken,
		IssuedAt:    s.clock.Now(),
		ExpiresAt:   grant.ExpiresAt,
	}
	s.sessions.Set(sess)

	s.mu.Lock()
	s.candidate = nil
	s.mu.Unlock()

	s.goroutine.Go(ctx, "identity.publish_household_login", func(ctx context.Context) error {
		return s.repoMessaging.PublishHouseholdLogin(ctx, HouseholdLoginEvent{
			HouseholdCode: sess.Identity.HouseholdCode,
			HouseholdArea: sess.Identity.HouseholdArea,
		})
	})

	return &SessionOutput{Session: sess}, nil
}
