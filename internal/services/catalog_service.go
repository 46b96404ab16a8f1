package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"jamaahmart/internal/cache"
	"jamaahmart/internal/domain"
	applog "jamaahmart/internal/log"
	"jamaahmart/internal/repos"
)

var ErrItemNotFound = errors.New("catalog item not found")

const searchLimit = 50

// CatalogService is the read side of the catalog. The active list goes through
// the cache; a cache failure only costs a database read.
type CatalogService struct {
	Items *repos.CatalogRepo
	Cats  *repos.CategoryRepo
	Cache cache.CatalogCache

	fill singleflight.Group
}

func NewCatalogService(items *repos.CatalogRepo, cats *repos.CategoryRepo, c cache.CatalogCache) *CatalogService {
	if c == nil {
		c = cache.Noop{}
	}
	return &CatalogService{Items: items, Cats: cats, Cache: c}
}

// ActiveItems returns the items shoppers may add, ordered by name.
func (s *CatalogService) ActiveItems(ctx context.Context) ([]domain.CatalogItem, error) {
	items, err := s.Cache.GetActive(ctx)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		applog.L().Warn("catalog cache read failed", zap.Error(err))
	}

	v, err, _ := s.fill.Do("active", func() (any, error) {
		items, err := s.Items.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.Cache.SetActive(ctx, items); err != nil {
			applog.L().Warn("catalog cache write failed", zap.Error(err))
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CatalogItem), nil
}

// Snapshot is ActiveItems packaged for a browsing session.
func (s *CatalogService) Snapshot(ctx context.Context) (domain.Catalog, error) {
	items, err := s.ActiveItems(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	return domain.NewCatalog(items), nil
}

// Item returns one item whatever its status.
func (s *CatalogService) Item(ctx context.Context, id string) (domain.CatalogItem, error) {
	it, err := s.Items.Get(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return it, ErrItemNotFound
	}
	return it, err
}

func (s *CatalogService) Search(ctx context.Context, q string, category domain.Category) ([]domain.CatalogItem, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if category != "" && !category.Valid() {
		return []domain.CatalogItem{}, nil
	}
	return s.Items.Search(ctx, q, category, searchLimit)
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	return s.Cats.ActiveCounts(ctx)
}

// Invalidate drops the cached active list after a catalog write.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx); err != nil {
		applog.L().Warn("catalog cache invalidate failed", zap.Error(err))
	}
}
