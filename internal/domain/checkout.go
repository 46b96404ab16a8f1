package domain

import (
	"errors"
	"time"
)

var (
	ErrEmptyCart  = errors.New("cart is empty, nothing to checkout")
	ErrNoCheckout = errors.New("no checkout in progress")
)

type CheckoutLine struct {
	Item     CatalogItem `json:"item"`
	Quantity int         `json:"quantity"`
}

func (l CheckoutLine) Subtotal() int64 { return l.Item.Price * int64(l.Quantity) }

// CheckoutPayload is the frozen cart handed to order submission. Its total is
// computed once and never re-priced against the live catalog.
type CheckoutPayload struct {
	lines     []CheckoutLine
	total     int64
	createdAt time.Time
}

// NewCheckoutPayload snapshots the cart in catalog order. Cart entries whose item
// is missing from the catalog are dropped, matching Cart.TotalAmount.
func NewCheckoutPayload(cart *Cart, catalog Catalog, now time.Time) (*CheckoutPayload, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	p := &CheckoutPayload{createdAt: now}
	for _, it := range catalog.items {
		q := cart.Quantity(it.ID)
		if q <= 0 {
			continue
		}
		p.lines = append(p.lines, CheckoutLine{Item: it, Quantity: q})
		p.total += it.Price * int64(q)
	}
	if len(p.lines) == 0 {
		return nil, ErrEmptyCart
	}
	return p, nil
}

func (p *CheckoutPayload) Lines() []CheckoutLine {
	out := make([]CheckoutLine, len(p.lines))
	copy(out, p.lines)
	return out
}

func (p *CheckoutPayload) TotalAmount() int64 { return p.total }

func (p *CheckoutPayload) ItemCount() int {
	n := 0
	for _, l := range p.lines {
		n += l.Quantity
	}
	return n
}

func (p *CheckoutPayload) CreatedAt() time.Time { return p.createdAt }

type CheckoutView struct {
	Lines       []CheckoutLine `json:"lines"`
	TotalAmount int64          `json:"totalAmount"`
	ItemCount   int            `json:"itemCount"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// View is the JSON shape shown on the checkout page.
func (p *CheckoutPayload) View() CheckoutView {
	return CheckoutView{Lines: p.Lines(), TotalAmount: p.total, ItemCount: p.ItemCount(), CreatedAt: p.createdAt}
}
