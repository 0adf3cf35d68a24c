package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/lo"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/entity"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
)

type CatalogEntry struct {
	Item     entity.CatalogItem
	Selected bool
}

type CatalogOutput struct {
	Items      []CatalogEntry
	FamilySize int
}

// Catalog fetches the household's items and remembers them for Toggle.
func (s *Usecase) Catalog(ctx context.Context) (*CatalogOutput, error) {
	ctx, span := s.startSpan(ctx, "Catalog")
	defer span.End()

	sess, err := s.session()
	if err != nil {
		return nil, err
	}

	resp, err := s.fetchCatalog(ctx, sess.Identity.HouseholdCode)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := lo.Map(resp.Stock, func(st rationapi.StockItem, _ int) entity.CatalogItem {
		return entity.CatalogItem{
			ID:            st.ID,
			Name:          st.Name,
			UnitPrice:     st.UnitPrice,
			TotalQuantity: st.TotalQuantity,
			Limit:         st.Limit,
		}
	})
	s.catalog = lo.KeyBy(items, func(it entity.CatalogItem) string { return it.ID })

	return &CatalogOutput{
		Items: lo.Map(items, func(it entity.CatalogItem, _ int) CatalogEntry {
			return CatalogEntry{Item: it, Selected: s.cart.Contains(it.ID)}
		}),
		FamilySize: resp.FamilySize,
	}, nil
}

func (s *Usecase) fetchCatalog(ctx context.Context, householdCode string) (rationapi.CatalogResponse, error) {
	resp, err := s.repoBackend.Catalog(ctx, householdCode)
	if err == nil {
		return resp, nil
	}

	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		slog.WarnContext(ctx, "catalog request refused", "reason", gerr.Reason())
		return rationapi.CatalogResponse{}, err
	}

	slog.ErrorContext(ctx, "failed to fetch catalog", "household_code", householdCode, "error", err)
	return rationapi.CatalogResponse{}, failure.Wrap(failure.ErrBackendUnavailable, err)
}
