package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/entity"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
)

type ReceiptOutput struct {
	Receipt entity.Receipt
}

// Receipt returns the invoice of the confirmed order in the request
// language. It can be retried at any time after confirmation.
func (s *Usecase) Receipt(ctx context.Context) (*ReceiptOutput, error) {
	ctx, span := s.startSpan(ctx, "Receipt")
	defer span.End()

	if _, err := s.session(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.draft == nil || !s.draft.Confirmed() {
		s.mu.Unlock()
		return nil, failure.ErrOrderNotInitiated
	}
	order := s.draft.Copy()
	s.mu.Unlock()

	rec, err := s.receipt(ctx, order, i18n.Lang(ctx))
	if err != nil {
		return nil, err
	}

	return &ReceiptOutput{Receipt: rec}, nil
}

// receipt serves the archived copy, else fetches the invoice and archives
// it in the background.
func (s *Usecase) receipt(ctx context.Context, order entity.Order, lang string) (entity.Receipt, error) {
	archived, err := s.repoArchive.LoadReceipt(ctx, order.OrderID, lang)
	if err != nil {
		slog.WarnContext(ctx, "failed to read receipt archive", "order_id", order.OrderID, "error", err)
	}
	if archived != nil {
		return *archived, nil
	}

	doc, err := s.repoBackend.Invoice(ctx, rationapi.InvoiceQuery{
		OrderID:       order.OrderID,
		ContactHandle: order.ContactHandle,
		Lang:          lang,
	})
	if err != nil {
		var gerr *goerror.Error
		if errors.As(err, &gerr) && gerr.Reason() == failure.ReasonUnauthorized {
			return entity.Receipt{}, err
		}
		slog.WarnContext(ctx, "receipt unavailable", "order_id", order.OrderID, "error", err)
		return entity.Receipt{}, failure.Wrap(failure.ErrReceiptUnavailable, err)
	}

	rec := entity.Receipt{
		OrderID:     order.OrderID,
		Lang:        lang,
		Body:        doc.Body,
		ContentType: doc.ContentType,
	}

	s.goroutine.Go(ctx, "ordering.archive_receipt", func(ctx context.Context) error {
		return s.repoArchive.SaveReceipt(ctx, rec)
	})

	return rec, nil
}

func (s *Usecase) receiptArchived(ctx context.Context, order entity.Order) bool {
	rec, err := s.repoArchive.LoadReceipt(ctx, order.OrderID, i18n.Lang(ctx))
	return err == nil && rec != nil
}
