package db

import (
	"context"
	"slices"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/entity"
)

// SaveChallenge stores c under its key, replacing any earlier challenge for
// the same target.
func (s *DB) SaveChallenge(ctx context.Context, c entity.Challenge) error {
	_, span := s.startSpan(ctx, "SaveChallenge")
	defer s.endSpan(span, nil)

	s.mu.Lock()
	s.challenges[c.Key()] = c
	s.mu.Unlock()

	return nil
}

// UpdateChallenge runs fn on the stored challenge under the store lock and
// persists the result, so attempts on one challenge are serialized.
func (s *DB) UpdateChallenge(ctx context.Context, key string, fn func(c *entity.Challenge) error) (err error) {
	_, span := s.startSpan(ctx, "UpdateChallenge")
	defer func() { s.endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.challenges[key]
	if !ok {
		return goerror.ErrNotFound
	}

	err = fn(&c)
	s.challenges[key] = c

	return err
}

func (s *DB) SaveGrant(ctx context.Context, g entity.Grant) error {
	_, span := s.startSpan(ctx, "SaveGrant")
	defer s.endSpan(span, nil)

	s.mu.Lock()
	s.grants[g.ID] = g
	s.mu.Unlock()

	return nil
}

// PlaceOrder stores o, spending the grant and decrementing stock in one
// step. An order already stored under o.Ref is returned instead, with
// replayed set.
func (s *DB) PlaceOrder(ctx context.Context, o entity.Order, grantID string) (_ entity.Order, replayed bool, err error) {
	_, span := s.startSpan(ctx, "PlaceOrder")
	defer func() { s.endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.orderByRef[o.Ref]; ok {
		return copyOrder(s.orders[i]), true, nil
	}

	g, ok := s.grants[grantID]
	if !ok || g.Used || g.OrderRef != o.Ref || g.HouseholdCode != o.HouseholdCode {
		return entity.Order{}, false, entity.ErrGrantInvalid
	}

	for _, l := range o.Lines {
		if s.items[l.ItemID].Stock < l.Quantity {
			return entity.Order{}, false, entity.ErrInsufficientStock
		}
	}

	for _, l := range o.Lines {
		it := s.items[l.ItemID]
		it.Stock -= l.Quantity
		s.items[l.ItemID] = it
	}

	g.Used = true
	s.grants[g.ID] = g

	o.Lines = slices.Clone(o.Lines)
	s.orders = append(s.orders, o)
	s.orderByRef[o.Ref] = len(s.orders) - 1
	s.orderByID[o.ID] = len(s.orders) - 1

	return copyOrder(o), false, nil
}
