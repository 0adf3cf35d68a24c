package inbound

import (
	"time"

	"github.com/shandysiswandi/rationkiosk/internal/identity/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/shared/otc"
	"github.com/shandysiswandi/rationkiosk/internal/shared/session"
)

type ValidateRequest struct {
	HouseholdCode string `json:"household_code"`
	ContactHandle string `json:"contact_handle"`
}

type ValidateResponse struct {
	Match bool `json:"match"`
}

func (ValidateResponse) MessageKey() string { return i18n.MsgIdentityMatched }

type VerifyOTCRequest struct {
	Code string `json:"code"`
}

type OTCStatus struct {
	Purpose           string     `json:"purpose"`
	State             string     `json:"state"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	RemainingSeconds  int        `json:"remaining_seconds"`
	AttemptsRemaining *int       `json:"attempts_remaining,omitempty"`
}

func (OTCStatus) MessageKey() string { return i18n.MsgOTCStatus }

type OTCSentResponse struct {
	OTCStatus
}

func (OTCSentResponse) MessageKey() string { return i18n.MsgOTCSent }

func toOTCStatus(st otc.Status) OTCStatus {
	out := OTCStatus{
		Purpose:           string(st.Purpose),
		State:             string(st.State),
		RemainingSeconds:  st.RemainingSeconds,
		AttemptsRemaining: st.AttemptsRemaining,
	}
	if !st.ExpiresAt.IsZero() {
		exp := st.ExpiresAt
		out.ExpiresAt = &exp
	}

	return out
}

type SessionResponse struct {
	Identity  session.Identity `json:"identity"`
	IssuedAt  time.Time        `json:"issued_at"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
}

func (SessionResponse) MessageKey() string { return i18n.MsgSession }

// VerifiedResponse never carries the access token; it stays inside the kiosk.
type VerifiedResponse struct {
	SessionResponse
}

func (VerifiedResponse) MessageKey() string { return i18n.MsgOTCVerified }

func toSession(out *usecase.SessionOutput) SessionResponse {
	resp := SessionResponse{
		Identity: out.Session.Identity,
		IssuedAt: out.Session.IssuedAt,
	}
	if !out.Session.ExpiresAt.IsZero() {
		exp := out.Session.ExpiresAt
		resp.ExpiresAt = &exp
	}

	return resp
}

type LogoutResponse struct{}

func (LogoutResponse) MessageKey() string { return i18n.MsgLoggedOut }
