package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"jamaahmart/internal/domain"
	"jamaahmart/internal/log"
	"jamaahmart/internal/services"
	"jamaahmart/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.UserContext(), ensureSID(c))
	if err != nil {
		log.Error(c, "cart.view", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not load your cart.")
	}
	return c.JSON(cv)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID, ok := validate.ID(c.FormValue("itemId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing itemId")
	}
	cv, err := h.Cart.Add(c.UserContext(), sid, itemID)
	switch {
	case err == nil:
		return c.JSON(cv)
	case errors.Is(err, domain.ErrStockCeiling):
		return jsonError(c, fiber.StatusConflict, "Not enough stock for another one of this item.")
	case errors.Is(err, domain.ErrItemUnavailable), errors.Is(err, services.ErrItemNotFound):
		return jsonError(c, fiber.StatusNotFound, "This item is no longer available")
	default:
		log.Error(c, "cart.add", err, map[string]any{"item_id": itemID})
		return jsonError(c, fiber.StatusInternalServerError, "Could not update your cart.")
	}
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID, ok := validate.ID(c.FormValue("itemId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing itemId")
	}
	cv, err := h.Cart.Remove(c.UserContext(), sid, itemID)
	if err != nil {
		log.Error(c, "cart.remove", err, map[string]any{"item_id": itemID})
		return jsonError(c, fiber.StatusInternalServerError, "Could not update your cart.")
	}
	return c.JSON(cv)
}
