package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"jamaahmart/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ---------- Admin / history summary ----------
type OrderSummary struct {
	ID          string             `db:"id" json:"id"`
	OrderNumber string             `db:"order_number" json:"orderNumber"`
	OwnerID     string             `db:"owner_id" json:"userId"`
	OwnerEmail  string             `db:"owner_email" json:"userEmail"`
	OwnerName   string             `db:"owner_name" json:"userName"`
	TotalAmount int64              `db:"total_amount" json:"totalAmount"`
	Status      domain.OrderStatus `db:"status" json:"status"`
	CreatedAt   time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updatedAt"`
}

const summaryCols = `id, order_number, owner_id, owner_email, owner_name, total_amount, status, created_at, updated_at`

// Create appends the order and its lines in one transaction.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
	  INSERT INTO orders
	    (id, order_number, owner_id, owner_email, owner_name, total_amount, payment_proof_url, notes, status, created_at, updated_at)
	  VALUES
	    (?,  ?,            ?,        ?,           ?,          ?,            ?,                 ?,     ?,      ?,          ?)
	`, o.ID, o.OrderNumber, o.OwnerID, o.OwnerEmail, o.OwnerName, o.TotalAmount, o.PaymentProofURL, o.Notes,
		string(o.Status), o.CreatedAt.UTC(), o.UpdatedAt.UTC()); err != nil {
		return err
	}
	for i, it := range o.Items {
		if _, err := tx.ExecContext(ctx, `
		  INSERT INTO order_items(order_id, line_no, catalog_item_id, item_name, image, price, quantity, subtotal)
		  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		`, o.ID, i+1, it.CatalogItemID, it.ItemName, it.Image, it.Price, it.Quantity, it.Subtotal); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.GetContext(ctx, &o, `
		SELECT id, order_number, owner_id, owner_email, owner_name, total_amount, payment_proof_url, notes, status, created_at, updated_at
		FROM orders
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return o, ErrNotFound
	}
	if err != nil {
		return o, err
	}

	o.Items = []domain.OrderLine{}
	if err := r.db.SelectContext(ctx, &o.Items, `
		SELECT catalog_item_id, item_name, image, price, quantity, subtotal
		FROM order_items
		WHERE order_id = ?
		ORDER BY line_no
	`, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) Status(ctx context.Context, id string) (domain.OrderStatus, error) {
	var s domain.OrderStatus
	err := r.db.GetContext(ctx, &s, `SELECT status FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return s, err
}

func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []OrderSummary{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+summaryCols+`
		FROM orders
		ORDER BY created_at DESC, order_number DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListByStatus is what the admin review queue polls; new orders show up as pending.
func (r *OrderRepo) ListByStatus(ctx context.Context, status domain.OrderStatus, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []OrderSummary{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+summaryCols+`
		FROM orders
		WHERE status = ?
		ORDER BY created_at DESC, order_number DESC
		LIMIT ?
	`, string(status), limit)
	return out, err
}

func (r *OrderRepo) ListByOwner(ctx context.Context, ownerID string) ([]OrderSummary, error) {
	out := []OrderSummary{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+summaryCols+`
		FROM orders
		WHERE owner_id = ?
		ORDER BY created_at DESC, order_number DESC
	`, ownerID)
	return out, err
}

// UpdateStatusFrom moves the order to next only while it is still in from.
// It reports whether a row changed.
func (r *OrderRepo) UpdateStatusFrom(ctx context.Context, id string, from, next domain.OrderStatus, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, string(next), now.UTC(), id, string(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
