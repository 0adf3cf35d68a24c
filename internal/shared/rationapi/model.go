package rationapi

import "time"

// Paths of the backend contract, relative to the base URL.
const (
	PathValidateIdentity = "/validate-identity"
	PathRequestOTC       = "/request-otc"
	PathVerifyOTC        = "/verify-otc"
	PathConfirmOrder     = "/confirm-order"
	PathInvoice          = "/invoice"
	PathCatalog          = "/catalog"
)

// Verify error codes.
const (
	VerifyErrInvalidCode       = "invalid_code"
	VerifyErrAttemptsExhausted = "attempts_exhausted"
	VerifyErrExpired           = "expired"
	VerifyErrAlreadyUsed       = "already_used"
)

// PaymentCash is the only payment method tag.
const PaymentCash = "cash"

// HeaderIdempotencyKey carries the order reference on confirm-order.
const HeaderIdempotencyKey = "Idempotency-Key"

type ValidateIdentityRequest struct {
	HouseholdCode string `json:"household_code"`
	ContactHandle string `json:"contact_handle"`
}

type ValidateIdentityResponse struct {
	Match bool `json:"match"`
}

type RequestOTCRequest struct {
	Purpose       string `json:"purpose"`
	HouseholdCode string `json:"household_code,omitempty"`
	OrderRef      string `json:"order_ref,omitempty"`
	ContactHandle string `json:"contact_handle"`
}

type RequestOTCResponse struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}

type VerifyOTCRequest struct {
	Purpose       string `json:"purpose"`
	Code          string `json:"code"`
	HouseholdCode string `json:"household_code,omitempty"`
	OrderRef      string `json:"order_ref,omitempty"`
}

type VerifyOTCResponse struct {
	Success           bool          `json:"success"`
	Session           *SessionGrant `json:"session,omitempty"`
	Receipt           string        `json:"receipt,omitempty"`
	Error             string        `json:"error,omitempty"`
	AttemptsRemaining *int          `json:"attempts_remaining,omitempty"`
}

// SessionGrant is the login payload.
type SessionGrant struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Identity    Identity  `json:"identity"`
}

type Identity struct {
	HouseholdCode string `json:"household_code"`
	ContactHandle string `json:"contact_handle"`
	DisplayName   string `json:"display_name"`
	HouseholdArea string `json:"household_area"`
}

type OrderLine struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

type ConfirmOrderRequest struct {
	OrderRef      string      `json:"order_ref"`
	Lines         []OrderLine `json:"lines"`
	ContactHandle string      `json:"contact_handle"`
	Receipt       string      `json:"receipt"`
	PaymentMethod string      `json:"payment_method"`
}

type ConfirmOrderResponse struct {
	Success     bool   `json:"success"`
	OrderID     string `json:"order_id,omitempty"`
	TokenNumber string `json:"token_number,omitempty"`
	Error       string `json:"error,omitempty"`
}

// StockItem prices are in paise.
type StockItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	UnitPrice     int64  `json:"unit_price"`
	TotalQuantity int64  `json:"total_quantity"`
	Limit         int64  `json:"limit"`
}

type CatalogResponse struct {
	Stock      []StockItem `json:"stock"`
	FamilySize int         `json:"family_size"`
}

// InvoiceQuery selects an invoice by order ID, else the latest one for the
// contact handle.
type InvoiceQuery struct {
	OrderID       string
	ContactHandle string
	Lang          string
}

// Document is a binary document the backend served.
type Document struct {
	Body        []byte
	ContentType string
}
