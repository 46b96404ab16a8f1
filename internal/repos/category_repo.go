package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"jamaahmart/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// ActiveCounts lists every category with its number of active items, zero included.
func (r *CategoryRepo) ActiveCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	var rows []domain.CategoryCount
	if err := r.db.SelectContext(ctx, &rows, `
	  SELECT category, COUNT(*) AS n
	  FROM catalog_items
	  WHERE status = 'active'
	  GROUP BY category
	`); err != nil {
		return nil, err
	}
	byCat := make(map[domain.Category]int, len(rows))
	for _, row := range rows {
		byCat[row.Category] = row.Count
	}
	out := make([]domain.CategoryCount, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, domain.CategoryCount{Category: c, Count: byCat[c]})
	}
	return out, nil
}
