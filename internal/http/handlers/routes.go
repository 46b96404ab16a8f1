package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "jamaahmart/internal/log"
)

// Mount registers every application route. Global middleware (csrf, helmet,
// request ids) is the caller's business.
func Mount(app *fiber.App, d *Deps) {
	requireUser := RequireUser(d.Auth)

	// Marketplace
	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/marketplace") })
	app.Get("/marketplace", d.MarketHandler.Home)
	app.Get("/marketplace/categories", d.MarketHandler.Categories)
	app.Get("/marketplace/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), d.SearchHandler.Search)

	// API
	api := app.Group("/api/v1")
	api.Get("/items/:id", d.MarketHandler.Item)
	api.Get("/availability", limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), d.InventoryHandler.Check)

	// Cart, checkout & orders
	app.Get("/cart", d.CartHandler.View)
	app.Post("/cart/add", d.CartHandler.Add)
	app.Post("/cart/remove", d.CartHandler.Remove)
	app.Post("/checkout", d.OrderHandler.BeginCheckout)
	app.Get("/checkout", d.OrderHandler.ShowCheckout)
	app.Post("/checkout/cancel", d.OrderHandler.CancelCheckout)
	app.Post("/orders", requireUser, d.OrderHandler.Place)
	app.Get("/orders", requireUser, d.OrderHandler.History)
	app.Get("/order/:id", requireUser, d.OrderHandler.View)

	// Per-user flags
	app.Get("/me/flags", requireUser, d.FlagHandler.List)
	app.Post("/me/flags", requireUser, d.FlagHandler.Update)

	// Auth routes (login throttled)
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)

	// Admin
	admin := app.Group("/admin", RequireAdmin(d.Auth))
	admin.Get("/orders", d.AdminHandler.OrdersPage)
	admin.Post("/orders/:id/status", d.AdminHandler.UpdateOrderStatus)
	admin.Get("/inventory", d.AdminHandler.Inventory)
	admin.Post("/catalog", d.AdminHandler.SaveItem)
	admin.Post("/catalog/:id/stock", d.AdminHandler.UpdateStock)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return notFound(c, "Page not found")
	})
}
