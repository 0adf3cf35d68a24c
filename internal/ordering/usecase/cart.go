package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/entity"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
)

type ToggleInput struct {
	ItemID string `json:"item_id" validate:"required,max=64"`
}

type CartOutput struct {
	Cart    entity.CartSnapshot
	Warning *entity.Warning
}

// Toggle selects or deselects a catalog item at the household's allowance.
// A line already in the cart is removed even when the catalog no longer
// lists the item.
func (s *Usecase) Toggle(ctx context.Context, in ToggleInput) (*CartOutput, error) {
	ctx, span := s.startSpan(ctx, "Toggle")
	defer span.End()

	if err := s.validator.Validate(ctx, in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.session(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if snap, ok := s.cart.Remove(in.ItemID); ok {
		s.mu.Unlock()
		return &CartOutput{Cart: snap}, nil
	}
	_, known := s.catalog[in.ItemID]
	s.mu.Unlock()

	if !known {
		if _, err := s.Catalog(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.catalog[in.ItemID]
	if !ok {
		slog.WarnContext(ctx, "toggle of unknown catalog item", "item_id", in.ItemID)
		return nil, goerror.NewInvalidInput(nil, "item_id", "unknown catalog item")
	}

	snap, warn := s.cart.Toggle(item, item.Limit)
	if warn != nil {
		slog.WarnContext(ctx, "catalog item excluded from cart", "item_id", item.ID, "stock", item.TotalQuantity, "limit", item.Limit)
	}

	return &CartOutput{Cart: snap, Warning: warn}, nil
}

func (s *Usecase) Cart(ctx context.Context) (*CartOutput, error) {
	_, span := s.startSpan(ctx, "Cart")
	defer span.End()

	if _, err := s.session(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return &CartOutput{Cart: s.cart.Snapshot()}, nil
}
