package db

import (
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/entity"
)

func (s *DB) GetHousehold(ctx context.Context, code string) (_ entity.Household, err error) {
	_, span := s.startSpan(ctx, "GetHousehold")
	defer func() { s.endSpan(span, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.households[code]
	if !ok {
		return entity.Household{}, goerror.ErrNotFound
	}
	h.Members = slices.Clone(h.Members)

	return h, nil
}

// ListItems returns the items of an area in seed order.
func (s *DB) ListItems(ctx context.Context, area string) ([]entity.Item, error) {
	_, span := s.startSpan(ctx, "ListItems")
	defer s.endSpan(span, nil)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.FilterMap(s.itemOrder, func(id string, _ int) (entity.Item, bool) {
		it := s.items[id]
		it.Limits = slices.Clone(it.Limits)
		return it, it.Area == area
	}), nil
}

func (s *DB) GetOrderByRef(ctx context.Context, ref string) (_ entity.Order, err error) {
	_, span := s.startSpan(ctx, "GetOrderByRef")
	defer func() { s.endSpan(span, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.orderByRef[ref]
	if !ok {
		return entity.Order{}, goerror.ErrNotFound
	}

	return copyOrder(s.orders[i]), nil
}

func (s *DB) GetOrderByID(ctx context.Context, id string) (_ entity.Order, err error) {
	_, span := s.startSpan(ctx, "GetOrderByID")
	defer func() { s.endSpan(span, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.orderByID[id]
	if !ok {
		return entity.Order{}, goerror.ErrNotFound
	}

	return copyOrder(s.orders[i]), nil
}

// GetLatestOrder returns the most recently placed order of a household made
// by contact.
func (s *DB) GetLatestOrder(ctx context.Context, householdCode, contact string) (_ entity.Order, err error) {
	_, span := s.startSpan(ctx, "GetLatestOrder")
	defer func() { s.endSpan(span, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	o, _, ok := lo.FindLastIndexOf(s.orders, func(o entity.Order) bool {
		return o.HouseholdCode == householdCode && strings.EqualFold(o.ContactHandle, contact)
	})
	if !ok {
		return entity.Order{}, goerror.ErrNotFound
	}

	return copyOrder(o), nil
}

func copyOrder(o entity.Order) entity.Order {
	o.Lines = slices.Clone(o.Lines)
	return o
}
