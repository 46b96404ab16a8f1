package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"jamaahmart/internal/log"
	"jamaahmart/internal/services"
	"jamaahmart/internal/validate"
)

type MarketHandler struct {
	Carts   *services.CartService
	Catalog *services.CatalogService
}

// Home is the marketplace entry: it refreshes the session's catalog snapshot
// and returns it with the category counts.
func (h *MarketHandler) Home(c *fiber.Ctx) error {
	sid := ensureSID(c)
	snap, err := h.Carts.Enter(c.UserContext(), sid)
	if err != nil {
		log.Error(c, "marketplace.load", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not load the marketplace. Please retry.")
	}
	cats, err := h.Catalog.Categories(c.UserContext())
	if err != nil {
		log.Error(c, "marketplace.categories", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not load the marketplace. Please retry.")
	}
	cart, err := h.Carts.View(c.UserContext(), sid)
	if err != nil {
		log.Error(c, "marketplace.cart", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not load the marketplace. Please retry.")
	}
	return c.JSON(fiber.Map{
		"items":          snap.Items(),
		"categories":     cats,
		"totalItemCount": cart.TotalItemCount,
	})
}

func (h *MarketHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories(c.UserContext())
	if err != nil {
		log.Error(c, "marketplace.categories", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not load categories.")
	}
	return c.JSON(cats)
}

// Item returns one catalog item. Inactive items are only visible to admins.
func (h *MarketHandler) Item(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "item"})
		return jsonError(c, fiber.StatusNotFound, "This item is no longer available")
	}
	it, err := h.Catalog.Item(c.UserContext(), id)
	if errors.Is(err, services.ErrItemNotFound) || (err == nil && !it.Active() && !currentUser(c).IsAdmin()) {
		return jsonError(c, fiber.StatusNotFound, "This item is no longer available")
	}
	if err != nil {
		log.Error(c, "item.load", err, map[string]any{"item_id": id})
		return jsonError(c, fiber.StatusInternalServerError, "Could not load the item.")
	}
	return c.JSON(it)
}
