package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/entity"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
)

// Catalog lists the household's area items it may order, with the limit
// for its size.
func (s *Usecase) Catalog(ctx context.Context, token, householdCode string) (*rationapi.CatalogResponse, error) {
	ctx, span := s.startSpan(ctx, "Catalog")
	defer span.End()

	claims, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	h, err := s.household(ctx, claims, householdCode)
	if err != nil {
		return nil, err
	}

	items, err := s.repoDB.ListItems(ctx, h.Area)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list items", "area", h.Area, "error", err)
		return nil, goerror.NewServer(err)
	}

	size := h.FamilySize()
	stock := lo.FilterMap(items, func(it entity.Item, _ int) (rationapi.StockItem, bool) {
		return rationapi.StockItem{
			ID:            it.ID,
			Name:          it.Name,
			UnitPrice:     it.UnitPrice,
			TotalQuantity: it.Stock,
			Limit:         it.LimitFor(size),
		}, it.Listed(size)
	})

	return &rationapi.CatalogResponse{Stock: stock, FamilySize: size}, nil
}
