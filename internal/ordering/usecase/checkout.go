package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/entity"
	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
	"github.com/shandysiswandi/rationkiosk/internal/shared/otc"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
)

type CheckoutOutput struct {
	Order  *entity.Order
	Status otc.Status
}

// CheckoutInitiate freezes the cart into a draft order and sends the order
// code. Later cart changes do not touch the draft. It fails with
// order_in_flight while a verified draft waits for its placement outcome.
func (s *Usecase) CheckoutInitiate(ctx context.Context) (*CheckoutOutput, error) {
	ctx, span := s.startSpan(ctx, "CheckoutInitiate")
	defer span.End()

	sess, err := s.session()
	if err != nil {
		return nil, err
	}

	if s.confirming.Load() {
		return nil, failure.ErrOrderInFlight
	}

	s.mu.Lock()
	if s.draft != nil && s.draft.Unresolved() {
		ref := s.draft.Ref
		s.mu.Unlock()
		slog.WarnContext(ctx, "checkout refused while a placement is unresolved", "order_ref", ref)
		return nil, failure.ErrOrderInFlight
	}
	snap := s.cart.Snapshot()
	s.mu.Unlock()

	if snap.Empty() {
		slog.WarnContext(ctx, "checkout of an empty cart", "household_code", sess.Identity.HouseholdCode)
		return nil, failure.ErrEmptyOrder
	}

	order := entity.NewOrder(
		s.uuid.Generate(),
		snap,
		sess.Identity.HouseholdCode,
		sess.Identity.ContactHandle,
		rationapi.PaymentCash,
	)

	st, err := s.challenge.Request(ctx, otc.Target{
		HouseholdCode: order.HouseholdCode,
		OrderRef:      order.Ref,
		ContactHandle: order.ContactHandle,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to request order otc", "order_ref", order.Ref, "error", err)
		return nil, err
	}

	order.AwaitOTC()

	s.mu.Lock()
	s.draft = order
	out := order.Copy()
	s.mu.Unlock()

	return &CheckoutOutput{Order: &out, Status: st}, nil
}

func (s *Usecase) CheckoutStatus(ctx context.Context) (*CheckoutOutput, error) {
	_, span := s.startSpan(ctx, "CheckoutStatus")
	defer span.End()

	if _, err := s.session(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := &CheckoutOutput{Status: s.challenge.Status()}
	if s.draft != nil {
		o := s.draft.Copy()
		out.Order = &o
		// failed is reported once
		if s.draft.Status == entity.OrderStatusFailed {
			s.draft.Settle()
		}
	}

	return out, nil
}

// CheckoutAbandon drops the draft and its code. The cart is kept. A draft
// whose placement outcome is unknown cannot be abandoned; logout still resets
// it.
func (s *Usecase) CheckoutAbandon(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "CheckoutAbandon")
	defer span.End()

	if s.confirming.Load() {
		return failure.ErrOrderInFlight
	}

	s.mu.Lock()
	if s.draft != nil && s.draft.Unresolved() {
		s.mu.Unlock()
		return failure.ErrOrderInFlight
	}
	if s.draft != nil {
		slog.InfoContext(ctx, "checkout abandoned", "order_ref", s.draft.Ref)
	}
	s.draft = nil
	s.mu.Unlock()

	s.challenge.Abandon()

	return nil
}
