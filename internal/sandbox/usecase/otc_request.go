package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/entity"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/outbound/email"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
)

const (
	notAcceptedNoMatch  = "no_match"
	notAcceptedDelivery = "delivery_failed"
)

type RequestOTCInput struct {
	Purpose       string `json:"purpose" validate:"required,oneof=login order"`
	HouseholdCode string `json:"household_code" validate:"required_if=Purpose login,omitempty,len=12,numeric"`
	OrderRef      string `json:"order_ref" validate:"required_if=Purpose order,omitempty,max=64"`
	ContactHandle string `json:"contact_handle" validate:"required,email"`
}

// RequestOTC issues a code for the target and mails it to the member. Order
// codes need the bearer token of the household.
func (s *Usecase) RequestOTC(ctx context.Context, token string, in RequestOTCInput) (*rationapi.RequestOTCResponse, error) {
	ctx, span := s.startSpan(ctx, "RequestOTC")
	defer span.End()

	if err := s.validator.Validate(ctx, in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	purpose := entity.Purpose(in.Purpose)

	var h entity.Household
	if purpose == entity.PurposeOrder {
		claims, err := s.authenticate(ctx, token)
		if err != nil {
			return nil, err
		}
		if h, err = s.household(ctx, claims, in.HouseholdCode); err != nil {
			return nil, err
		}
	} else {
		var err error
		h, err = s.repoDB.GetHousehold(ctx, in.HouseholdCode)
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "otc requested for unknown household", "household_code", in.HouseholdCode)
			return &rationapi.RequestOTCResponse{Accepted: false, Message: notAcceptedNoMatch}, nil
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get household", "household_code", in.HouseholdCode, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	member, ok := h.Member(in.ContactHandle)
	if !ok {
		slog.WarnContext(ctx, "otc requested for non member", "household_code", h.Code)
		return &rationapi.RequestOTCResponse{Accepted: false, Message: notAcceptedNoMatch}, nil
	}

	now := s.clock.Now()
	code, err := s.codes.NewCode(member.Email, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otc", "household_code", h.Code, "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.hash.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otc", "household_code", h.Code, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.otcTTL()
	ch := entity.Challenge{
		Purpose:       purpose,
		HouseholdCode: h.Code,
		Contact:       member.Email,
		CodeHash:      codeHash,
		ExpiresAt:     now.Add(ttl),
		AttemptsLeft:  s.otcAttempts(),
	}
	if purpose == entity.PurposeOrder {
		ch.OrderRef = in.OrderRef
	}

	if err := s.repoDB.SaveChallenge(ctx, ch); err != nil {
		slog.ErrorContext(ctx, "failed to repo save challenge", "household_code", h.Code, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMail.SendCode(ctx, email.CodeMessage{
		To:        member.Email,
		Name:      member.Name,
		Purpose:   purpose,
		Code:      code,
		ExpiresIn: ttl,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send otc mail", "household_code", h.Code, "error", err)
		return &rationapi.RequestOTCResponse{Accepted: false, Message: notAcceptedDelivery}, nil
	}

	slog.InfoContext(ctx, "otc issued", "household_code", h.Code, "purpose", string(purpose), "expires_at", ch.ExpiresAt)

	return &rationapi.RequestOTCResponse{Accepted: true}, nil
}
