package entity

import "github.com/samber/lo"

// CatalogItem prices are in paise. Limit is the household's allowance.
type CatalogItem struct {
	ID            string
	Name          string
	UnitPrice     int64
	TotalQuantity int64
	Limit         int64
}

// Selectable reports whether the item can be added at its allowance.
func (c CatalogItem) Selectable() bool {
	return c.Limit > 0 && c.TotalQuantity >= c.Limit
}

type CartLine struct {
	ItemID      string
	DisplayName string
	Quantity    int64
	UnitPrice   int64
}

func (l CartLine) Subtotal() int64 {
	return l.Quantity * l.UnitPrice
}

type CartSnapshot struct {
	Lines []CartLine
	Total int64
}

func (s CartSnapshot) Empty() bool {
	return len(s.Lines) == 0 || s.Total <= 0
}

// Warning is a user-facing notice that is not an error. Item names the
// affected catalog item.
type Warning struct {
	Key  string
	Item string
}

// WarningStockBelowLimit is raised when an item cannot cover its allowance.
const WarningStockBelowLimit = "stock_below_limit"

// Cart keeps one line per catalog item in selection order. It is not safe
// for concurrent use.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// Toggle adds item at allowed quantity when absent and removes it when
// present. An item whose stock is below the allowance is left out and a
// warning is returned.
func (c *Cart) Toggle(item CatalogItem, allowed int64) (CartSnapshot, *Warning) {
	if snap, ok := c.Remove(item.ID); ok {
		return snap, nil
	}

	if allowed <= 0 || item.TotalQuantity < allowed {
		return c.Snapshot(), &Warning{Key: WarningStockBelowLimit, Item: item.Name}
	}

	c.lines = append(c.lines, CartLine{
		ItemID:      item.ID,
		DisplayName: item.Name,
		Quantity:    allowed,
		UnitPrice:   item.UnitPrice,
	})

	return c.Snapshot(), nil
}

// Remove drops the line for itemID. It reports false when there is none.
func (c *Cart) Remove(itemID string) (CartSnapshot, bool) {
	idx := c.index(itemID)
	if idx < 0 {
		return c.Snapshot(), false
	}

	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	return c.Snapshot(), true
}

func (c *Cart) Contains(itemID string) bool {
	return c.index(itemID) >= 0
}

// Total is computed from the lines on every call.
func (c *Cart) Total() int64 {
	return lo.SumBy(c.lines, CartLine.Subtotal)
}

// Snapshot returns a copy that later cart changes do not affect.
func (c *Cart) Snapshot() CartSnapshot {
	return CartSnapshot{
		Lines: append([]CartLine{}, c.lines...),
		Total: c.Total(),
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) index(itemID string) int {
	_, idx, ok := lo.FindIndexOf(c.lines, func(l CartLine) bool { return l.ItemID == itemID })
	if !ok {
		return -1
	}

	return idx
}
