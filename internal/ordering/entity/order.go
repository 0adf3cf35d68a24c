package entity

import (
	"time"

	"github.com/samber/lo"
)

type OrderStatus string

const (
	OrderStatusDraft       OrderStatus = "draft"
	OrderStatusAwaitingOTC OrderStatus = "awaiting_otc"
	OrderStatusConfirmed   OrderStatus = "confirmed"
	OrderStatusFailed      OrderStatus = "failed"
)

// Order is the draft built from a cart snapshot at checkout.
type Order struct {
	Ref           string
	Lines         []CartLine
	Total         int64
	HouseholdCode string
	ContactHandle string
	PaymentMethod string
	Status        OrderStatus

	// VerificationReceipt is what the backend issued for the order OTC. It
	// is kept so a placement that failed in transit can be retried.
	VerificationReceipt string

	OrderID     string
	TokenNumber string
	ConfirmedAt time.Time
}

func NewOrder(ref string, snap CartSnapshot, householdCode, contactHandle, paymentMethod string) *Order {
	return &Order{
		Ref:           ref,
		Lines:         append([]CartLine{}, snap.Lines...),
		Total:         snap.Total,
		HouseholdCode: householdCode,
		ContactHandle: contactHandle,
		PaymentMethod: paymentMethod,
		Status:        OrderStatusDraft,
	}
}

func (o *Order) AwaitOTC() {
	o.Status = OrderStatusAwaitingOTC
}

func (o *Order) Confirm(orderID, tokenNumber string, at time.Time) {
	o.Status = OrderStatusConfirmed
	o.OrderID = orderID
	o.TokenNumber = tokenNumber
	o.ConfirmedAt = at
}

// Fail marks a rejected placement. The status reads failed until Settle.
func (o *Order) Fail() {
	if o.Status != OrderStatusConfirmed {
		o.Status = OrderStatusFailed
		o.VerificationReceipt = ""
	}
}

// Settle returns a failed placement to draft.
func (o *Order) Settle() {
	if o.Status != OrderStatusConfirmed {
		o.Status = OrderStatusDraft
	}
}

// Unresolved reports a verified draft whose placement outcome is unknown.
func (o *Order) Unresolved() bool {
	return o.VerificationReceipt != "" && o.Status != OrderStatusConfirmed
}

func (o *Order) Confirmed() bool {
	return o.Status == OrderStatusConfirmed
}

// Copy returns an Order that shares no slices with o.
func (o *Order) Copy() Order {
	c := *o
	c.Lines = append([]CartLine{}, o.Lines...)

	return c
}

// ItemQuantities maps item IDs to ordered quantity.
func (o *Order) ItemQuantities() map[string]int64 {
	return lo.SliceToMap(o.Lines, func(l CartLine) (string, int64) { return l.ItemID, l.Quantity })
}

// Receipt is an invoice document for a confirmed order in one language.
type Receipt struct {
	OrderID     string
	Lang        string
	Body        []byte
	ContentType string
}
