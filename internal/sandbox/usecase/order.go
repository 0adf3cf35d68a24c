package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/entity"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
)

// Rejection codes of confirm-order.
const (
	OrderErrUnknownContact    = "unknown_contact"
	OrderErrUnknownItem       = "unknown_item"
	OrderErrLimitExceeded     = "limit_exceeded"
	OrderErrInvalidReceipt    = "invalid_receipt"
	OrderErrInsufficientStock = "insufficient_stock"
)

const tokenNumberLen = 8

type ConfirmOrderInput struct {
	OrderRef      string                `json:"order_ref" validate:"required,max=64"`
	Lines         []rationapi.OrderLine `json:"lines" validate:"required,min=1"`
	ContactHandle string                `json:"contact_handle" validate:"required,email"`
	Receipt       string                `json:"receipt" validate:"required,max=128"`
	PaymentMethod string                `json:"payment_method" validate:"required,eq=cash"`
}

// ConfirmOrder places an order once per order ref. A replayed ref returns
// the first result without spending stock again.
func (s *Usecase) ConfirmOrder(ctx context.Context, token string, in ConfirmOrderInput) (*rationapi.ConfirmOrderResponse, error) {
	ctx, span := s.startSpan(ctx, "ConfirmOrder")
	defer span.End()

	claims, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(ctx, in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}

	placed, err := s.repoDB.GetOrderByRef(ctx, in.OrderRef)
	switch {
	case err == nil && placed.HouseholdCode != claims.HouseholdCode:
		slog.WarnContext(ctx, "order ref belongs to another household", "order_ref", in.OrderRef)
		return nil, errForbidden
	case err == nil:
		slog.InfoContext(ctx, "order replayed", "order_ref", in.OrderRef, "order_id", placed.ID)
		return placedResponse(placed), nil
	case !errors.Is(err, goerror.ErrNotFound):
		slog.ErrorContext(ctx, "failed to repo get order by ref", "order_ref", in.OrderRef, "error", err)
		return nil, goerror.NewServer(err)
	}

	h, err := s.household(ctx, claims, "")
	if err != nil {
		return nil, err
	}

	member, ok := h.Member(in.ContactHandle)
	if !ok {
		slog.WarnContext(ctx, "order placed for non member", "order_ref", in.OrderRef)
		return rejected(OrderErrUnknownContact), nil
	}

	items, err := s.repoDB.ListItems(ctx, h.Area)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list items", "area", h.Area, "error", err)
		return nil, goerror.NewServer(err)
	}
	byID := lo.KeyBy(items, func(it entity.Item) string { return it.ID })

	lines := make([]entity.OrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		it, ok := byID[l.ID]
		if !ok {
			slog.WarnContext(ctx, "order line for unknown item", "order_ref", in.OrderRef, "item_id", l.ID)
			return rejected(OrderErrUnknownItem), nil
		}
		if l.Quantity > it.LimitFor(h.FamilySize()) {
			slog.WarnContext(ctx, "order line over the household limit", "order_ref", in.OrderRef, "item_id", l.ID)
			return rejected(OrderErrLimitExceeded), nil
		}
		lines = append(lines, entity.OrderLine{ItemID: it.ID, Name: it.Name, Quantity: l.Quantity, UnitPrice: it.UnitPrice})
	}

	order := entity.Order{
		ID:            s.uuid.Generate(),
		Ref:           in.OrderRef,
		HouseholdCode: h.Code,
		ContactHandle: member.Email,
		TokenNumber:   tokenNumber(s.uuid.Generate()),
		PaymentMethod: in.PaymentMethod,
		Lines:         lines,
		CreatedAt:     s.clock.Now(),
	}

	placed, replayed, err := s.repoDB.PlaceOrder(ctx, order, in.Receipt)
	switch {
	case errors.Is(err, entity.ErrGrantInvalid):
		slog.WarnContext(ctx, "order receipt rejected", "order_ref", in.OrderRef)
		return rejected(OrderErrInvalidReceipt), nil
	case errors.Is(err, entity.ErrInsufficientStock):
		slog.WarnContext(ctx, "order exceeds stock", "order_ref", in.OrderRef)
		return rejected(OrderErrInsufficientStock), nil
	case err != nil:
		slog.ErrorContext(ctx, "failed to repo place order", "order_ref", in.OrderRef, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "order placed",
		"order_ref", placed.Ref,
		"order_id", placed.ID,
		"token_number", placed.TokenNumber,
		"replayed", replayed,
	)

	return placedResponse(placed), nil
}

func validateLines(lines []rationapi.OrderLine) error {
	for _, l := range lines {
		if l.ID == "" || l.Quantity <= 0 {
			return goerror.NewInvalidInput(nil, "lines", "every line needs an id and a positive quantity")
		}
	}
	if len(lo.UniqBy(lines, func(l rationapi.OrderLine) string { return l.ID })) != len(lines) {
		return goerror.NewInvalidInput(nil, "lines", "an item may appear once")
	}

	return nil
}

// tokenNumber takes the tail of id, the random part of a v7 UUID.
func tokenNumber(id string) string {
	id = strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(id) <= tokenNumberLen {
		return id
	}

	return id[len(id)-tokenNumberLen:]
}

func placedResponse(o entity.Order) *rationapi.ConfirmOrderResponse {
	return &rationapi.ConfirmOrderResponse{Success: true, OrderID: o.ID, TokenNumber: o.TokenNumber}
}

func rejected(code string) *rationapi.ConfirmOrderResponse {
	return &rationapi.ConfirmOrderResponse{Success: false, Error: code}
}
