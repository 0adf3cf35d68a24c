package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/rationkiosk/internal/identity/entity"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
)

type ValidateInput struct {
	HouseholdCode string `json:"household_code" validate:"required,household_code"`
	ContactHandle string `json:"contact_handle" validate:"required,contact_handle"`
}

type ValidateOutput struct {
	Match bool
}

func (s *Usecase) Validate(ctx context.Context, in ValidateInput) (*ValidateOutput, error) {
	ctx, span := s.startSpan(ctx, "Validate")
	defer span.End()

	if err := s.validator.Validate(ctx, in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	cand := entity.Candidate{
		HouseholdCode:  entity.NormalizeHouseholdCode(in.HouseholdCode),
		ContactAddress: entity.ContactAddress(in.ContactHandle, s.contactDomain()),
	}

	out, err := s.repoBackend.ValidateIdentity(ctx, rationapi.ValidateIdentityRequest{
		HouseholdCode: cand.HouseholdCode,
		ContactHandle: cand.ContactAddress,
	})
	if err != nil {
		var gerr *goerror.Error
		if errors.As(err, &gerr) {
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to validate identity with backend", "household_code", cand.HouseholdCode, "error", err)
		return nil, failure.Wrap(failure.ErrBackendUnavailable, err)
	}

	if !out.Match {
		slog.WarnContext(ctx, "household member not found", "household_code", cand.HouseholdCode)
		return nil, failure.ErrNoMatch
	}

	s.mu.Lock()
	s.candidate = &cand
	s.mu.Unlock()

	return &ValidateOutput{Match: true}, nil
}
