package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
)

type ValidateIdentityInput struct {
	HouseholdCode string `json:"household_code" validate:"required,len=12,numeric"`
	ContactHandle string `json:"contact_handle" validate:"required,email"`
}

func (s *Usecase) ValidateIdentity(ctx context.Context, in ValidateIdentityInput) (*rationapi.ValidateIdentityResponse, error) {
	ctx, span := s.startSpan(ctx, "ValidateIdentity")
	defer span.End()

	if err := s.validator.Validate(ctx, in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	h, err := s.repoDB.GetHousehold(ctx, in.HouseholdCode)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "household not found", "household_code", in.HouseholdCode)
		return &rationapi.ValidateIdentityResponse{Match: false}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get household", "household_code", in.HouseholdCode, "error", err)
		return nil, goerror.NewServer(err)
	}

	_, ok := h.Member(in.ContactHandle)
	if !ok {
		slog.WarnContext(ctx, "contact is not a household member", "household_code", in.HouseholdCode)
	}

	return &rationapi.ValidateIdentityResponse{Match: ok}, nil
}
