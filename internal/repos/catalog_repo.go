package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"jamaahmart/internal/domain"
)

var ErrNotFound = errors.New("not found")

type CatalogRepo struct{ db *sqlx.DB }

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

const catalogCols = `id, name, description, price, stock, category, status, image, created_at, updated_at`

// ListActive returns what shoppers may see, ordered by name.
func (r *CatalogRepo) ListActive(ctx context.Context) ([]domain.CatalogItem, error) {
	out := []domain.CatalogItem{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+catalogCols+`
	  FROM catalog_items
	  WHERE status = 'active'
	  ORDER BY name, id
	`)
	return out, err
}

func (r *CatalogRepo) Get(ctx context.Context, id string) (domain.CatalogItem, error) {
	var it domain.CatalogItem
	err := r.db.GetContext(ctx, &it, `SELECT `+catalogCols+` FROM catalog_items WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return it, ErrNotFound
	}
	return it, err
}

// Search matches active items by name/description and optional category.
func (r *CatalogRepo) Search(ctx context.Context, q string, category domain.Category, limit int) ([]domain.CatalogItem, error) {
	where := `status = 'active'`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, string(category))
	}
	args = append(args, limit)

	out := []domain.CatalogItem{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+catalogCols+`
	  FROM catalog_items
	  WHERE `+where+`
	  ORDER BY name, id
	  LIMIT ?`, args...)
	return out, err
}

// Upsert writes the item as given; created_at is kept on update.
func (r *CatalogRepo) Upsert(ctx context.Context, it domain.CatalogItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO catalog_items(id,name,description,price,stock,category,status,image,created_at,updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
		  name = excluded.name,
		  description = excluded.description,
		  price = excluded.price,
		  stock = excluded.stock,
		  category = excluded.category,
		  status = excluded.status,
		  image = CASE WHEN excluded.image = '' THEN catalog_items.image ELSE excluded.image END,
		  updated_at = excluded.updated_at
	`, it.ID, it.Name, it.Description, it.Price, it.Stock, string(it.Category), string(it.Status), it.Image,
		it.CreatedAt.UTC(), it.UpdatedAt.UTC())
	return err
}
