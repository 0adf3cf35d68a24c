// Package event defines the domain events the kiosk publishes.
package event

import "time"

const (
	HouseholdLoginTopic string = "household_login"
	OrderConfirmedTopic string = "order_confirmed"
)

// HeaderCorrelationID carries the request correlation ID on every message.
const HeaderCorrelationID string = "cID"

type HouseholdLoginMessage struct {
	KioskID       string    `json:"kiosk_id"`
	HouseholdCode string    `json:"household_code"`
	HouseholdArea string    `json:"household_area"`
	LoggedInAt    time.Time `json:"logged_in_at"`
}

type OrderConfirmedLine struct {
	ItemID    string `json:"item_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type OrderConfirmedMessage struct {
	KioskID       string               `json:"kiosk_id"`
	OrderRef      string               `json:"order_ref"`
	OrderID       string               `json:"order_id"`
	TokenNumber   string               `json:"token_number"`
	HouseholdCode string               `json:"household_code"`
	Lines         []OrderConfirmedLine `json:"lines"`
	Total         int64                `json:"total"`
	PaymentMethod string               `json:"payment_method"`
	ConfirmedAt   time.Time            `json:"confirmed_at"`
}
