package handlers

import (
	"github.com/jmoiron/sqlx"

	"jamaahmart/internal/cache"
	"jamaahmart/internal/config"
	"jamaahmart/internal/imaging"
	"jamaahmart/internal/repos"
	"jamaahmart/internal/services"
)

type Deps struct {
	Auth     *services.AuthService
	Sessions *services.SessionStore
	Orders   *services.OrderService

	AuthHandler      *AuthHandler
	MarketHandler    *MarketHandler
	SearchHandler    *SearchHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	AdminHandler     *AdminHandler
	FlagHandler      *FlagHandler
}

// NewDeps wires repos and services for one process. A nil cache means no cache.
func NewDeps(db *sqlx.DB, cfg config.Config, c cache.CatalogCache) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	itemRepo := repos.NewCatalogRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	flagRepo := repos.NewUserFlagRepo(db)

	sessions := services.NewSessionStore()
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db), Sessions: sessions}
	catalogSvc := services.NewCatalogService(itemRepo, catRepo, c)
	invSvc := services.NewInventoryService(invRepo, itemRepo)
	cartSvc := services.NewCartService(sessions, catalogSvc)
	checkoutSvc := services.NewCheckoutService(sessions, cartSvc)
	orderSvc := services.NewOrderService(orderRepo, imaging.PaymentProof(cfg.ImageWorkers))
	reviewSvc := services.NewReviewService(orderRepo)
	adminSvc := services.NewCatalogAdminService(itemRepo, invSvc, catalogSvc, imaging.CatalogPhoto(cfg.ImageWorkers))
	flagSvc := services.NewFlagService(flagRepo)

	return &Deps{
		Auth:     authSvc,
		Sessions: sessions,
		Orders:   orderSvc,

		AuthHandler:      &AuthHandler{Auth: authSvc},
		MarketHandler:    &MarketHandler{Carts: cartSvc, Catalog: catalogSvc},
		SearchHandler:    &SearchHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		OrderHandler:     &OrderHandler{Checkout: checkoutSvc, Order: orderSvc, Flags: flagSvc},
		AdminHandler:     &AdminHandler{Orders: orderSvc, Review: reviewSvc, Catalog: adminSvc, Inv: invRepo},
		FlagHandler:      &FlagHandler{Flags: flagSvc},
	}
}
