package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// InventoryRepo reads and corrects the stock column. Orders never call SetStock:
// stock only changes through the admin catalog screens.
type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

type InventoryRow struct {
	ItemID string `db:"id"`
	Name   string `db:"name"`
	Status string `db:"status"`
	Stock  int    `db:"stock"`
}

func (r *InventoryRepo) ListAll(ctx context.Context) ([]InventoryRow, error) {
	var rows []InventoryRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, status, stock
		FROM catalog_items
		ORDER BY name, id
	`)
	return rows, err
}

func (r *InventoryRepo) SetStock(ctx context.Context, itemID string, qty int, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE catalog_items SET stock = ?, updated_at = ? WHERE id = ?
	`, qty, now.UTC(), itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
