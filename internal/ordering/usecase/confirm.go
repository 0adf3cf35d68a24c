package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/entity"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/idempotency"
	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
)

var errPlacementRejected = errors.New("order placement rejected")

type ConfirmInput struct {
	Code string `json:"code" validate:"omitempty,otc_code"`
}

type ConfirmOutput struct {
	Order            entity.Order
	ReceiptAvailable bool
	Warning          *entity.Warning
}

// CheckoutConfirm verifies the order code and places the draft. A confirmed
// draft is returned again without calling the backend. When placement failed
// in transit the verification already obtained is reused and code may be
// empty; a code sent on such a retry is not checked again.
func (s *Usecase) CheckoutConfirm(ctx context.Context, in ConfirmInput) (*ConfirmOutput, error) {
	ctx, span := s.startSpan(ctx, "CheckoutConfirm")
	defer span.End()

	if err := s.validator.Validate(ctx, in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.session(); err != nil {
		return nil, err
	}

	if !s.confirming.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "order confirmation already in flight")
		return nil, failure.ErrOrderInFlight
	}
	defer s.confirming.Store(false)

	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return nil, failure.ErrOrderNotInitiated
	}
	order := s.draft.Copy()
	s.mu.Unlock()

	if order.Confirmed() {
		return &ConfirmOutput{Order: order, ReceiptAvailable: s.receiptArchived(ctx, order)}, nil
	}

	if order.VerificationReceipt == "" {
		if in.Code == "" {
			return nil, goerror.NewInvalidInput(nil, "code", "code is required")
		}

		receipt, err := s.challenge.Verify(ctx, in.Code)
		if err != nil {
			slog.WarnContext(ctx, "order otc verification failed", "order_ref", order.Ref, "reason", goerror.ReasonOf(err))
			return nil, err
		}
		order.VerificationReceipt = receipt
		s.updateDraft(order.Ref, func(o *entity.Order) { o.VerificationReceipt = receipt })
	}

	placed, err := s.place(ctx, order)
	if err != nil {
		return nil, s.placementFailed(ctx, order, err)
	}

	order.Confirm(placed.OrderID, placed.TokenNumber, s.clock.Now())
	s.mu.Lock()
	if s.draft != nil && s.draft.Ref == order.Ref {
		s.draft.Confirm(order.OrderID, order.TokenNumber, order.ConfirmedAt)
	}
	s.cart.Clear()
	s.mu.Unlock()

	slog.InfoContext(ctx, "order confirmed", "order_ref", order.Ref, "order_id", order.OrderID, "total", order.Total)

	s.goroutine.Go(ctx, "ordering.publish_order_confirmed", func(ctx context.Context) error {
		return s.repoMessaging.PublishOrderConfirmed(ctx, OrderConfirmedEvent{Order: order})
	})

	out := &ConfirmOutput{Order: order}
	if _, err := s.receipt(ctx, order, i18n.Lang(ctx)); err != nil {
		out.Warning = &entity.Warning{Key: string(failure.ReasonReceiptUnavailable)}
	} else {
		out.ReceiptAvailable = true
	}

	return out, nil
}

func (s *Usecase) place(ctx context.Context, order entity.Order) (rationapi.ConfirmOrderResponse, error) {
	var placed rationapi.ConfirmOrderResponse

	err := s.idempotency.Exec(ctx, "ordering:confirm:"+order.Ref, func(ctx context.Context) error {
		resp, err := s.repoBackend.ConfirmOrder(ctx, rationapi.ConfirmOrderRequest{
			OrderRef: order.Ref,
			Lines: lo.Map(order.Lines, func(l entity.CartLine, _ int) rationapi.OrderLine {
				return rationapi.OrderLine{ID: l.ItemID, Quantity: l.Quantity}
			}),
			ContactHandle: order.ContactHandle,
			Receipt:       order.VerificationReceipt,
			PaymentMethod: order.PaymentMethod,
		})
		if err != nil {
			return idempotency.Retryable(err)
		}
		if !resp.Success {
			return fmt.Errorf("%w: %s", errPlacementRejected, resp.Error)
		}

		placed = resp
		return nil
	},
		idempotency.WithLockDuration(s.cfg.GetSecond("ordering.confirm_lock_seconds")),
		idempotency.WithStateTTL(s.cfg.GetMinute("ordering.confirm_state_ttl_minutes")),
	)

	return placed, err
}

func (s *Usecase) placementFailed(ctx context.Context, order entity.Order, err error) error {
	var gerr *goerror.Error

	switch {
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.WarnContext(ctx, "order placement already running elsewhere", "order_ref", order.Ref)
		return failure.ErrOrderInFlight

	case errors.Is(err, errPlacementRejected),
		errors.Is(err, idempotency.ErrAlreadyFailed),
		errors.Is(err, idempotency.ErrAlreadyCompleted):
		slog.WarnContext(ctx, "order placement rejected", "order_ref", order.Ref, "error", err)
		s.updateDraft(order.Ref, (*entity.Order).Fail)
		return failure.Wrap(failure.ErrOrderConfirmationFailed, err)

	case idempotency.IsRetryable(err) && errors.As(err, &gerr):
		slog.WarnContext(ctx, "order placement refused", "order_ref", order.Ref, "reason", gerr.Reason())
		return gerr

	case idempotency.IsRetryable(err):
		slog.ErrorContext(ctx, "order placement failed in transit", "order_ref", order.Ref, "error", err)
		return failure.Wrap(failure.ErrBackendUnavailable, err)

	default:
		slog.ErrorContext(ctx, "failed to track order placement", "order_ref", order.Ref, "error", err)
		return goerror.NewServer(err)
	}
}

func (s *Usecase) updateDraft(ref string, f func(o *entity.Order)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft != nil && s.draft.Ref == ref {
		f(s.draft)
	}
}
