// Package failure names the kiosk's domain failures. Each Err value is a
// template: errors.Is matches any goerror with the same reason, so usecases
// may wrap a cause with goerror.Wrap and callers still match the template.
package failure

import "github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"

const (
	ReasonMalformedInput          = goerror.ReasonMalformedInput
	ReasonUnauthorized            = goerror.ReasonUnauthorized
	ReasonInternal                = goerror.ReasonInternal
	ReasonNoMatch                 goerror.Reason = "no_match"
	ReasonIdentityNotValidated    goerror.Reason = "identity_not_validated"
	ReasonOTCRequestFailed        goerror.Reason = "otc_request_failed"
	ReasonOTCInvalid              goerror.Reason = "otc_invalid"
	ReasonOTCExpiredOrInvalidated goerror.Reason = "otc_expired_or_invalidated"
	ReasonOTCVerifyInFlight       goerror.Reason = "otc_verify_in_flight"
	ReasonAlreadyActive           goerror.Reason = "already_active"
	ReasonOrderConfirmationFailed goerror.Reason = "order_confirmation_failed"
	ReasonOrderInFlight           goerror.Reason = "order_in_flight"
	ReasonOrderNotInitiated       goerror.Reason = "order_not_initiated"
	ReasonReceiptUnavailable      goerror.Reason = "receipt_unavailable"
	ReasonEmptyOrder              goerror.Reason = "empty_order"
	ReasonBackendUnavailable      goerror.Reason = "backend_unavailable"
)

var (
	ErrUnauthorized = goerror.NewBusiness("no valid session", goerror.CodeUnauthorized, ReasonUnauthorized)
	ErrNoMatch      = goerror.NewBusiness("no household member matches", goerror.CodeNotFound, ReasonNoMatch)

	ErrIdentityNotValidated = goerror.NewBusiness("identity not validated", goerror.CodeForbidden, ReasonIdentityNotValidated)

	ErrOTCRequestFailed        = goerror.NewBusiness("otc request failed", goerror.CodeUnavailable, ReasonOTCRequestFailed)
	ErrOTCInvalid              = goerror.NewBusiness("otc invalid", goerror.CodeInvalidInput, ReasonOTCInvalid)
	ErrOTCExpiredOrInvalidated = goerror.NewBusiness("otc expired or invalidated", goerror.CodeConflict, ReasonOTCExpiredOrInvalidated)
	ErrOTCVerifyInFlight       = goerror.NewBusiness("otc verify in flight", goerror.CodeConflict, ReasonOTCVerifyInFlight)
	ErrAlreadyActive           = goerror.NewBusiness("challenge already active", goerror.CodeConflict, ReasonAlreadyActive)

	ErrOrderConfirmationFailed = goerror.NewBusiness("order confirmation failed", goerror.CodeConflict, ReasonOrderConfirmationFailed)
	ErrOrderInFlight           = goerror.NewBusiness("order in flight", goerror.CodeConflict, ReasonOrderInFlight)
	ErrOrderNotInitiated       = goerror.NewBusiness("order not initiated", goerror.CodeConflict, ReasonOrderNotInitiated)
	ErrReceiptUnavailable      = goerror.NewBusiness("receipt unavailable", goerror.CodeUnavailable, ReasonReceiptUnavailable)
	ErrEmptyOrder              = goerror.NewBusiness("empty order", goerror.CodeInvalidInput, ReasonEmptyOrder)

	ErrBackendUnavailable = goerror.NewBusiness("backend unavailable", goerror.CodeUnavailable, ReasonBackendUnavailable)
)

// Wrap returns a copy of template carrying cause.
func Wrap(template, cause error) error {
	e := asError(template)
	if e == nil {
		return template
	}

	return goerror.Wrap(cause, e.Msg(), e.Code(), e.Reason())
}

func asError(err error) *goerror.Error {
	e, ok := err.(*goerror.Error)
	if !ok {
		return nil
	}

	return e
}
