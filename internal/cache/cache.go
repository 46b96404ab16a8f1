package cache

import (
	"context"
	"errors"

	"jamaahmart/internal/domain"
)

// CatalogCache holds the active catalog list shown at marketplace entry.
type CatalogCache interface {
	GetActive(ctx context.Context) ([]domain.CatalogItem, error)
	SetActive(ctx context.Context, items []domain.CatalogItem) error
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")

// Noop is used when no Redis address is configured; every read misses.
type Noop struct{}

func (Noop) GetActive(context.Context) ([]domain.CatalogItem, error) { return nil, ErrCacheMiss }

func (Noop) SetActive(context.Context, []domain.CatalogItem) error { return nil }

func (Noop) Invalidate(context.Context) error { return nil }
