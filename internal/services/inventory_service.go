package services

import (
	"context"
	"errors"
	"time"

	"jamaahmart/internal/domain"
	"jamaahmart/internal/repos"
)

var ErrBadStock = errors.New("stock must be zero or more")

type InventoryService struct {
	Inv   *repos.InventoryRepo
	Items *repos.CatalogRepo
}

func NewInventoryService(inv *repos.InventoryRepo, items *repos.CatalogRepo) *InventoryService {
	return &InventoryService{Inv: inv, Items: items}
}

// Availability converts stock to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
// Unknown and inactive items are out of stock.
func (s *InventoryService) Availability(ctx context.Context, itemID string) (domain.Availability, error) {
	it, err := s.Items.Get(ctx, itemID)
	if errors.Is(err, repos.ErrNotFound) {
		return domain.Availability{Status: "OUT_OF_STOCK"}, nil
	}
	if err != nil {
		return domain.Availability{}, err
	}
	if !it.Active() {
		return domain.Availability{Status: "OUT_OF_STOCK"}, nil
	}

	status := "OUT_OF_STOCK"
	switch {
	case it.Stock >= 5:
		status = "IN_STOCK"
	case it.Stock > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: it.Stock}, nil
}

// SetStock is the admin correction path. Orders never touch stock.
func (s *InventoryService) SetStock(ctx context.Context, itemID string, qty int, now time.Time) error {
	if qty < 0 {
		return ErrBadStock
	}
	err := s.Inv.SetStock(ctx, itemID, qty, now)
	if errors.Is(err, repos.ErrNotFound) {
		return ErrItemNotFound
	}
	return err
}
