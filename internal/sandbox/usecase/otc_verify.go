package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/lo"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/entity"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
)

const grantPrefix = "rcpt_"

type VerifyOTCInput struct {
	Purpose       string `json:"purpose" validate:"required,oneof=login order"`
	Code          string `json:"code" validate:"required,max=16"`
	HouseholdCode string `json:"household_code" validate:"required_if=Purpose login,omitempty,len=12,numeric"`
	OrderRef      string `json:"order_ref" validate:"required_if=Purpose order,omitempty,max=64"`
}

// VerifyOTC checks a code against the target's challenge. A login match
// returns a session, an order match returns a single-use receipt for
// confirm-order.
func (s *Usecase) VerifyOTC(ctx context.Context, token string, in VerifyOTCInput) (*rationapi.VerifyOTCResponse, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTC")
	defer span.End()

	if err := s.validator.Validate(ctx, in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	purpose := entity.Purpose(in.Purpose)
	householdCode := in.HouseholdCode
	if purpose == entity.PurposeOrder {
		claims, err := s.authenticate(ctx, token)
		if err != nil {
			return nil, err
		}
		if in.HouseholdCode != "" && in.HouseholdCode != claims.HouseholdCode {
			slog.WarnContext(ctx, "household outside token scope", "household_code", in.HouseholdCode)
			return nil, errForbidden
		}
		householdCode = claims.HouseholdCode
	}

	var (
		verdict entity.Verdict
		ch      entity.Challenge
	)
	key := entity.ChallengeKey(purpose, householdCode, in.OrderRef)
	err := s.repoDB.UpdateChallenge(ctx, key, func(c *entity.Challenge) error {
		verdict = c.Attempt(s.clock.Now(), func(h string) bool { return s.hash.Verify(h, in.Code) })
		ch = *c
		return nil
	})
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otc verified without a challenge", "household_code", householdCode, "purpose", in.Purpose)
		return &rationapi.VerifyOTCResponse{Success: false, Error: string(entity.VerdictExpired)}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update challenge", "household_code", householdCode, "error", err)
		return nil, goerror.NewServer(err)
	}

	if verdict != entity.VerdictMatched {
		slog.WarnContext(ctx, "otc rejected", "household_code", householdCode, "purpose", in.Purpose, "verdict", string(verdict))
		resp := &rationapi.VerifyOTCResponse{Success: false, Error: string(verdict)}
		if verdict == entity.VerdictInvalidCode {
			resp.AttemptsRemaining = lo.ToPtr(ch.AttemptsLeft)
		}
		return resp, nil
	}

	if purpose == entity.PurposeOrder {
		return s.grantOrder(ctx, ch)
	}

	return s.grantSession(ctx, ch)
}

func (s *Usecase) grantSession(ctx context.Context, ch entity.Challenge) (*rationapi.VerifyOTCResponse, error) {
	h, err := s.repoDB.GetHousehold(ctx, ch.HouseholdCode)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get household", "household_code", ch.HouseholdCode, "error", err)
		return nil, goerror.NewServer(err)
	}

	member, ok := h.Member(ch.Contact)
	if !ok {
		slog.ErrorContext(ctx, "challenge contact left the household", "household_code", ch.HouseholdCode)
		return nil, goerror.NewServer(errors.New("sandbox: challenge contact is not a member"))
	}

	accessToken, exp, err := s.tokens.Issue(h.Code, member.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue access token", "household_code", h.Code, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "household logged in", "household_code", h.Code)

	return &rationapi.VerifyOTCResponse{
		Success: true,
		Session: &rationapi.SessionGrant{
			AccessToken: accessToken,
			ExpiresAt:   exp,
			Identity: rationapi.Identity{
				HouseholdCode: h.Code,
				ContactHandle: member.Email,
				DisplayName:   member.Name,
				HouseholdArea: h.Area,
			},
		},
	}, nil
}

func (s *Usecase) grantOrder(ctx context.Context, ch entity.Challenge) (*rationapi.VerifyOTCResponse, error) {
	g := entity.Grant{
		ID:            grantPrefix + s.uuid.Generate(),
		OrderRef:      ch.OrderRef,
		HouseholdCode: ch.HouseholdCode,
	}
	if err := s.repoDB.SaveGrant(ctx, g); err != nil {
		slog.ErrorContext(ctx, "failed to repo save grant", "order_ref", ch.OrderRef, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &rationapi.VerifyOTCResponse{Success: true, Receipt: g.ID}, nil
}
