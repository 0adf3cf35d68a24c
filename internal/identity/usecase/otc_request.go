package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
	"github.com/shandysiswandi/rationkiosk/internal/shared/otc"
)

type OTCStatusOutput struct {
	Status otc.Status
}

// RequestOTC sends a login code to the last validated candidate.
func (s *Usecase) RequestOTC(ctx context.Context) (*OTCStatusOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestOTC")
	defer span.End()

	cand, ok := s.currentCandidate()
	if !ok {
		slog.WarnContext(ctx, "login otc requested before identity validation")
		return nil, failure.ErrIdentityNotValidated
	}

	st, err := s.login.Request(ctx, otc.Target{
		HouseholdCode: cand.HouseholdCode,
		ContactHandle: cand.ContactAddress,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to request login otc", "household_code", cand.HouseholdCode, "error", err)
		return nil, err
	}

	return &OTCStatusOutput{Status: st}, nil
}

func (s *Usecase) OTCStatus(ctx context.Context) (*OTCStatusOutput, error) {
	_, span := s.startSpan(ctx, "OTCStatus")
	defer span.End()

	return &OTCStatusOutput{Status: s.login.Status()}, nil
}
