package inbound

import (
	"github.com/shandysiswandi/rationkiosk/internal/identity/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the login workflow.
type HTTPEndpoint struct {
	uc uc
}

// Validate checks a household code and contact handle against the backend.
func (h *HTTPEndpoint) Validate(r *router.Request) (any, error) {
	var req ValidateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Validate(r.Context(), usecase.ValidateInput{
		HouseholdCode: req.HouseholdCode,
		ContactHandle: req.ContactHandle,
	})
	if err != nil {
		return nil, err
	}

	return ValidateResponse{Match: resp.Match}, nil
}

// RequestOTC sends a login code to the validated household member.
func (h *HTTPEndpoint) RequestOTC(r *router.Request) (any, error) {
	resp, err := h.uc.RequestOTC(r.Context())
	if err != nil {
		return nil, err
	}

	return OTCSentResponse{OTCStatus: toOTCStatus(resp.Status)}, nil
}

func (h *HTTPEndpoint) OTCStatus(r *router.Request) (any, error) {
	resp, err := h.uc.OTCStatus(r.Context())
	if err != nil {
		return nil, err
	}

	return toOTCStatus(resp.Status), nil
}

// VerifyOTC completes the login and returns the new session.
func (h *HTTPEndpoint) VerifyOTC(r *router.Request) (any, error) {
	var req VerifyOTCRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTC(r.Context(), usecase.VerifyOTCInput{Code: req.Code})
	if err != nil {
		return nil, err
	}

	return VerifiedResponse{SessionResponse: toSession(resp)}, nil
}

func (h *HTTPEndpoint) Session(r *router.Request) (any, error) {
	resp, err := h.uc.Session(r.Context())
	if err != nil {
		return nil, err
	}

	return toSession(resp), nil
}

func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	if err := h.uc.Logout(r.Context()); err != nil {
		return nil, err
	}

	return LogoutResponse{}, nil
}
