package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/entity"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	s, err := NewDB(instrument.NewNoop())
	require.NoError(t, err)

	return s
}

func TestNewDB_Seed(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()

	h, err := s.GetHousehold(ctx, "123456789012")
	require.NoError(t, err)
	assert.Equal(t, "Chennai", h.Area)
	assert.Len(t, h.Members, 3)

	_, err = s.GetHousehold(ctx, "000000000000")
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	items, err := s.ListItems(ctx, "Madurai")
	require.NoError(t, err)
	require.NotEmpty(t, items)
	for _, it := range items {
		assert.Equal(t, "Madurai", it.Area)
	}
}

func TestNewDBFromSeed_Invalid(t *testing.T) {
	_, err := NewDBFromSeed([]byte("{"), instrument.NewNoop())
	assert.Error(t, err)

	_, err = NewDBFromSeed([]byte(`{"items":[{"id":"x"},{"id":"x"}]}`), instrument.NewNoop())
	assert.Error(t, err)
}

func TestDB_UpdateChallenge(t *testing.T) {
	s := newTestDB(t)
	ctx := context.Background()
	c := entity.Challenge{Purpose: entity.PurposeLogin, HouseholdCode: "123456789012", AttemptsLeft: 3}

	err := s.UpdateChallenge(ctx, c.Key(), func(*entity.Challenge) error { return nil })
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	require.NoError(t, s.SaveChallenge(ctx, c))
	require.NoError(t, s.UpdateChallenge(ctx, c.Key(), func(c *entity.Challenge) error {
		c.AttemptsLeft--
		return nil
	}))

	var left int
	require.NoError(t, s.UpdateChallenge(ctx, c.Key(), func(c *entity.Challenge) error {
		left = c.AttemptsLeft
		return nil
	}))
	assert.Equal(t, 2, left)
}

func TestDB_PlaceOrder(t *testing.T) {
	newOrder := func(ref string, qty int64) entity.Order {
		return entity.Order{
			ID:            "id-" + ref,
			Ref:           ref,
			HouseholdCode: "123456789012",
			ContactHandle: "jane.doe@gmail.com",
			Lines:         []entity.OrderLine{{ItemID: "che-rice", Name: "Rice", Quantity: qty, UnitPrice: 1000}},
			CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		}
	}
	stockOf := func(t *testing.T, s *DB, id string) int64 {
		items, err := s.ListItems(context.Background(), "Chennai")
		require.NoError(t, err)
		for _, it := range items {
			if it.ID == id {
				return it.Stock
			}
		}
		t.Fatalf("item %s not found", id)
		return 0
	}

	t.Run("spends the grant and stock once", func(t *testing.T) {
		// Arrange
		s := newTestDB(t)
		ctx := context.Background()
		require.NoError(t, s.SaveGrant(ctx, entity.Grant{ID: "g1", OrderRef: "r1", HouseholdCode: "123456789012"}))
		before := stockOf(t, s, "che-rice")

		// Act
		placed, replayed, err := s.PlaceOrder(ctx, newOrder("r1", 5), "g1")

		// Assert
		require.NoError(t, err)
		assert.False(t, replayed)
		assert.Equal(t, before-5, stockOf(t, s, "che-rice"))

		// Act
		again, replayed, err := s.PlaceOrder(ctx, newOrder("r1", 5), "g1")

		// Assert
		require.NoError(t, err)
		assert.True(t, replayed)
		assert.Equal(t, placed.ID, again.ID)
		assert.Equal(t, before-5, stockOf(t, s, "che-rice"))

		byID, err := s.GetOrderByID(ctx, placed.ID)
		require.NoError(t, err)
		assert.Equal(t, "r1", byID.Ref)
	})

	t.Run("grant bound to another order", func(t *testing.T) {
		s := newTestDB(t)
		ctx := context.Background()
		require.NoError(t, s.SaveGrant(ctx, entity.Grant{ID: "g1", OrderRef: "other", HouseholdCode: "123456789012"}))

		_, _, err := s.PlaceOrder(ctx, newOrder("r1", 1), "g1")
		assert.ErrorIs(t, err, entity.ErrGrantInvalid)

		_, _, err = s.PlaceOrder(ctx, newOrder("r1", 1), "missing")
		assert.ErrorIs(t, err, entity.ErrGrantInvalid)
	})

	t.Run("insufficient stock leaves everything untouched", func(t *testing.T) {
		s := newTestDB(t)
		ctx := context.Background()
		require.NoError(t, s.SaveGrant(ctx, entity.Grant{ID: "g1", OrderRef: "r1", HouseholdCode: "123456789012"}))
		before := stockOf(t, s, "che-rice")

		_, _, err := s.PlaceOrder(ctx, newOrder("r1", before+1), "g1")
		assert.ErrorIs(t, err, entity.ErrInsufficientStock)
		assert.Equal(t, before, stockOf(t, s, "che-rice"))

		_, err = s.GetOrderByRef(ctx, "r1")
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("latest order of a contact", func(t *testing.T) {
		s := newTestDB(t)
		ctx := context.Background()
		for _, ref := range []string{"r1", "r2"} {
			require.NoError(t, s.SaveGrant(ctx, entity.Grant{ID: "g-" + ref, OrderRef: ref, HouseholdCode: "123456789012"}))
			_, _, err := s.PlaceOrder(ctx, newOrder(ref, 1), "g-"+ref)
			require.NoError(t, err)
		}

		latest, err := s.GetLatestOrder(ctx, "123456789012", "JANE.DOE@gmail.com")
		require.NoError(t, err)
		assert.Equal(t, "r2", latest.Ref)

		_, err = s.GetLatestOrder(ctx, "123456789012", "john.doe@gmail.com")
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})
}
