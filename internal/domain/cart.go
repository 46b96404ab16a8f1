package domain

import (
	"errors"
	"sort"
)

var (
	ErrStockCeiling    = errors.New("quantity would exceed available stock")
	ErrItemUnavailable = errors.New("item is not available")
)

// Catalog is a point-in-time snapshot of the active items a shopper saw.
// It keeps the reader's ordering and is never refreshed behind the cart's back.
type Catalog struct {
	items []CatalogItem
	byID  map[string]int
}

func NewCatalog(items []CatalogItem) Catalog {
	c := Catalog{items: make([]CatalogItem, len(items)), byID: make(map[string]int, len(items))}
	copy(c.items, items)
	for i, it := range c.items {
		c.byID[it.ID] = i
	}
	return c
}

func (c Catalog) Lookup(id string) (CatalogItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return CatalogItem{}, false
	}
	return c.items[i], true
}

func (c Catalog) Items() []CatalogItem {
	out := make([]CatalogItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c Catalog) Len() int { return len(c.items) }

type CartEntry struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Cart maps catalog item id to requested quantity. A zero value is not usable; use NewCart.
// Every stored quantity is >= 1 and was <= the item's stock when it was last raised.
type Cart struct {
	qty map[string]int
}

func NewCart() *Cart { return &Cart{qty: map[string]int{}} }

// Add raises the item's quantity by one. The cart is left untouched on error.
func (c *Cart) Add(item CatalogItem) error {
	if !item.Active() {
		return ErrItemUnavailable
	}
	next := c.qty[item.ID] + 1
	if next > item.Stock {
		return ErrStockCeiling
	}
	c.qty[item.ID] = next
	return nil
}

// Remove lowers the item's quantity by one and drops the entry at zero.
func (c *Cart) Remove(itemID string) {
	q, ok := c.qty[itemID]
	if !ok {
		return
	}
	if q <= 1 {
		delete(c.qty, itemID)
		return
	}
	c.qty[itemID] = q - 1
}

func (c *Cart) Quantity(itemID string) int { return c.qty[itemID] }

func (c *Cart) Has(itemID string) bool {
	_, ok := c.qty[itemID]
	return ok
}

// TotalAmount prices the cart against catalog. Items no longer in the catalog count as 0.
func (c *Cart) TotalAmount(catalog Catalog) int64 {
	var total int64
	for id, q := range c.qty {
		if it, ok := catalog.Lookup(id); ok {
			total += it.Price * int64(q)
		}
	}
	return total
}

func (c *Cart) TotalItemCount() int {
	n := 0
	for _, q := range c.qty {
		n += q
	}
	return n
}

func (c *Cart) IsEmpty() bool { return len(c.qty) == 0 }

func (c *Cart) Len() int { return len(c.qty) }

func (c *Cart) Clear() { c.qty = map[string]int{} }

// Entries returns the cart sorted by item id.
func (c *Cart) Entries() []CartEntry {
	out := make([]CartEntry, 0, len(c.qty))
	for id, q := range c.qty {
		out = append(out, CartEntry{ItemID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}
