package rationapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/shandysiswandi/rationkiosk/internal/shared/otc"
)

// LoginOTC adapts the client to otc.Backend for the login purpose.
type LoginOTC struct {
	Client *Client
}

func (b LoginOTC) Request(ctx context.Context, purpose otc.Purpose, t otc.Target) error {
	return requestOTC(ctx, b.Client, purpose, t)
}

func (b LoginOTC) Verify(ctx context.Context, purpose otc.Purpose, t otc.Target, code string) (SessionGrant, error) {
	out, err := verifyOTC(ctx, b.Client, purpose, t, code)
	if err != nil {
		return SessionGrant{}, err
	}
	if out.Session == nil || out.Session.AccessToken == "" {
		return SessionGrant{}, errors.New("rationapi: verify succeeded without a session")
	}

	return *out.Session, nil
}

// OrderOTC adapts the client to otc.Backend for the order purpose. The
// payload is the verification receipt confirm-order needs.
type OrderOTC struct {
	Client *Client
}

func (b OrderOTC) Request(ctx context.Context, purpose otc.Purpose, t otc.Target) error {
	return requestOTC(ctx, b.Client, purpose, t)
}

func (b OrderOTC) Verify(ctx context.Context, purpose otc.Purpose, t otc.Target, code string) (string, error) {
	out, err := verifyOTC(ctx, b.Client, purpose, t, code)
	if err != nil {
		return "", err
	}
	if out.Receipt == "" {
		return "", errors.New("rationapi: verify succeeded without a receipt")
	}

	return out.Receipt, nil
}

func requestOTC(ctx context.Context, c *Client, purpose otc.Purpose, t otc.Target) error {
	out, err := c.RequestOTC(ctx, RequestOTCRequest{
		Purpose:       string(purpose),
		HouseholdCode: t.HouseholdCode,
		OrderRef:      t.OrderRef,
		ContactHandle: t.ContactHandle,
	})
	if err != nil {
		return err
	}
	if !out.Accepted {
		if out.Message != "" {
			return fmt.Errorf("%w: %s", otc.ErrNotAccepted, out.Message)
		}
		return otc.ErrNotAccepted
	}

	return nil
}

func verifyOTC(ctx context.Context, c *Client, purpose otc.Purpose, t otc.Target, code string) (VerifyOTCResponse, error) {
	out, err := c.VerifyOTC(ctx, VerifyOTCRequest{
		Purpose:       string(purpose),
		Code:          code,
		HouseholdCode: t.HouseholdCode,
		OrderRef:      t.OrderRef,
	})
	if err != nil {
		return out, err
	}
	if out.Success {
		return out, nil
	}

	switch out.Error {
	case VerifyErrAttemptsExhausted:
		return out, otc.ErrAttemptsExhausted
	case VerifyErrExpired, VerifyErrAlreadyUsed:
		return out, otc.ErrChallengeGone
	default:
		return out, &otc.RejectedError{AttemptsRemaining: out.AttemptsRemaining}
	}
}
