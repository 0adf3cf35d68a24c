package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	itemA = CatalogItem{ID: "a", Name: "Rice", UnitPrice: 10, TotalQuantity: 100, Limit: 5}
	itemB = CatalogItem{ID: "b", Name: "Sugar", UnitPrice: 50, TotalQuantity: 100, Limit: 2}
)

func TestCart_Toggle(t *testing.T) {
	t.Run("total follows the selected lines", func(t *testing.T) {
		// Arrange
		c := NewCart()

		// Act
		_, w1 := c.Toggle(itemA, itemA.Limit)
		snap, w2 := c.Toggle(itemB, itemB.Limit)

		// Assert
		assert.Nil(t, w1)
		assert.Nil(t, w2)
		assert.Equal(t, int64(150), snap.Total)
		require.Len(t, snap.Lines, 2)
		assert.Equal(t, CartLine{ItemID: "a", DisplayName: "Rice", Quantity: 5, UnitPrice: 10}, snap.Lines[0])

		// Act
		snap, _ = c.Toggle(itemA, itemA.Limit)

		// Assert
		assert.Equal(t, int64(100), snap.Total)
		assert.Equal(t, int64(100), c.Total())
		assert.False(t, c.Contains("a"))
		assert.True(t, c.Contains("b"))
	})

	t.Run("stock below allowance is excluded with a warning", func(t *testing.T) {
		// Arrange
		c := NewCart()
		scarce := CatalogItem{ID: "c", Name: "Oil", UnitPrice: 120, TotalQuantity: 1, Limit: 3}

		// Act
		snap, w := c.Toggle(scarce, scarce.Limit)

		// Assert
		require.NotNil(t, w)
		assert.Equal(t, WarningStockBelowLimit, w.Key)
		assert.Equal(t, "Oil", w.Item)
		assert.Empty(t, snap.Lines)
		assert.True(t, snap.Empty())
	})

	t.Run("zero allowance is excluded", func(t *testing.T) {
		// Arrange
		c := NewCart()

		// Act
		snap, w := c.Toggle(itemA, 0)

		// Assert
		assert.NotNil(t, w)
		assert.Zero(t, snap.Total)
	})

	t.Run("snapshot is a deep copy", func(t *testing.T) {
		// Arrange
		c := NewCart()
		c.Toggle(itemA, itemA.Limit)
		snap := c.Snapshot()

		// Act
		c.Toggle(itemB, itemB.Limit)
		c.Clear()

		// Assert
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, int64(50), snap.Total)
		assert.Zero(t, c.Total())
		assert.Empty(t, c.Snapshot().Lines)
	})
}

func TestCatalogItem_Selectable(t *testing.T) {
	assert.True(t, itemA.Selectable())
	assert.False(t, CatalogItem{TotalQuantity: 1, Limit: 2}.Selectable())
	assert.False(t, CatalogItem{TotalQuantity: 10}.Selectable())
}

func TestOrder(t *testing.T) {
	t.Run("copy on initiate", func(t *testing.T) {
		// Arrange
		c := NewCart()
		c.Toggle(itemA, itemA.Limit)
		c.Toggle(itemB, itemB.Limit)

		// Act
		o := NewOrder("ref-1", c.Snapshot(), "123456789012", "jane@gmail.com", "cash")
		c.Clear()

		// Assert
		assert.Equal(t, int64(150), o.Total)
		assert.Len(t, o.Lines, 2)
		assert.Equal(t, OrderStatusDraft, o.Status)
		assert.Equal(t, map[string]int64{"a": 5, "b": 2}, o.ItemQuantities())
	})

	t.Run("settle keeps a confirmed order", func(t *testing.T) {
		// Arrange
		o := NewOrder("ref-1", CartSnapshot{}, "", "", "cash")
		o.AwaitOTC()

		// Act
		o.Settle()

		// Assert
		assert.Equal(t, OrderStatusDraft, o.Status)

		// Act
		o.Confirm("ord-1", "AB12CD34", o.ConfirmedAt)
		o.Settle()

		// Assert
		assert.True(t, o.Confirmed())
	})

	t.Run("fail reports failed and drops the verification", func(t *testing.T) {
		// Arrange
		o := NewOrder("ref-1", CartSnapshot{}, "", "", "cash")
		o.AwaitOTC()
		o.VerificationReceipt = "rcpt-1"
		require.True(t, o.Unresolved())

		// Act
		o.Fail()

		// Assert
		assert.Equal(t, OrderStatusFailed, o.Status)
		assert.Empty(t, o.VerificationReceipt)
		assert.False(t, o.Unresolved())

		// Act
		o.Settle()

		// Assert
		assert.Equal(t, OrderStatusDraft, o.Status)
	})

	t.Run("confirmed order is resolved", func(t *testing.T) {
		// Arrange
		o := NewOrder("ref-1", CartSnapshot{}, "", "", "cash")
		o.VerificationReceipt = "rcpt-1"

		// Act
		o.Confirm("ord-1", "AB12CD34", o.ConfirmedAt)
		o.Fail()

		// Assert
		assert.False(t, o.Unresolved())
		assert.True(t, o.Confirmed())
	})
}

func TestCart_Remove(t *testing.T) {
	// Arrange
	c := NewCart()
	c.Toggle(itemA, itemA.Limit)

	// Act
	_, missing := c.Remove("b")
	snap, removed := c.Remove("a")

	// Assert
	assert.False(t, missing)
	assert.True(t, removed)
	assert.Empty(t, snap.Lines)
	assert.Zero(t, snap.Total)
}
