package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderApproved OrderStatus = "approved"
	OrderRejected OrderStatus = "rejected"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderPending, OrderApproved, OrderRejected:
		return OrderStatus(s), true
	}
	return "", false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderApproved || s == OrderRejected
}

// CanTransitionTo reports whether next is reachable from s. Only pending moves.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == OrderPending && next.IsTerminal()
}

func (s OrderStatus) String() string { return string(s) }

// OrderLine is a copy of the catalog item taken at submission time.
type OrderLine struct {
	CatalogItemID string `db:"catalog_item_id" json:"catalogItemId"`
	ItemName      string `db:"item_name" json:"itemName"`
	Image         string `db:"image" json:"image"`
	Price         int64  `db:"price" json:"price"`
	Quantity      int    `db:"quantity" json:"quantity"`
	Subtotal      int64  `db:"subtotal" json:"subtotal"`
}

// Order field names are read by the admin review screens; keep the JSON keys stable.
// PaymentProofURL holds the inline data URL of the evidence, not a link.
type Order struct {
	ID              string      `db:"id" json:"id"`
	OrderNumber     string      `db:"order_number" json:"orderNumber"`
	OwnerID         string      `db:"owner_id" json:"userId"`
	OwnerEmail      string      `db:"owner_email" json:"userEmail"`
	OwnerName       string      `db:"owner_name" json:"userName"`
	Items           []OrderLine `db:"-" json:"items"`
	TotalAmount     int64       `db:"total_amount" json:"totalAmount"`
	PaymentProofURL string      `db:"payment_proof_url" json:"paymentProofUrl"`
	Notes           string      `db:"notes" json:"notes"`
	Status          OrderStatus `db:"status" json:"status"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updatedAt"`
}

// LinesFromCheckout snapshots every checkout line; nothing is read from the live catalog.
func LinesFromCheckout(p *CheckoutPayload) []OrderLine {
	lines := p.Lines()
	out := make([]OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderLine{
			CatalogItemID: l.Item.ID,
			ItemName:      l.Item.Name,
			Image:         l.Item.Image,
			Price:         l.Item.Price,
			Quantity:      l.Quantity,
			Subtotal:      l.Subtotal(),
		})
	}
	return out
}

const OrderNumberPrefix = "ORD"

// NewOrderNumber is timestamp plus a small random suffix. Collisions are possible
// but unlikely; the store's unique index turns one into a failed, retryable write.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("%s-%d-%03d", OrderNumberPrefix, now.UnixMilli(), rand.IntN(1000))
}
