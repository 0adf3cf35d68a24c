package entity

import (
	"errors"
	"time"

	"github.com/samber/lo"
)

var (
	// ErrGrantInvalid is returned when the verification receipt is unknown,
	// used, or bound to another order.
	ErrGrantInvalid = errors.New("sandbox: verification receipt invalid")
	// ErrInsufficientStock is returned when a line exceeds the item stock.
	ErrInsufficientStock = errors.New("sandbox: insufficient stock")
)

type OrderLine struct {
	ItemID    string
	Name      string
	Quantity  int64
	UnitPrice int64
}

func (l OrderLine) Subtotal() int64 {
	return l.Quantity * l.UnitPrice
}

type Order struct {
	ID            string
	Ref           string
	HouseholdCode string
	ContactHandle string
	TokenNumber   string
	PaymentMethod string
	Lines         []OrderLine
	CreatedAt     time.Time
}

func (o Order) Total() int64 {
	return lo.SumBy(o.Lines, OrderLine.Subtotal)
}
