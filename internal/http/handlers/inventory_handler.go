package handlers

import (
	"github.com/gofiber/fiber/v2"

	"jamaahmart/internal/log"
	"jamaahmart/internal/services"
	"jamaahmart/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	itemID, ok := validate.ID(c.Query("itemId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing itemId")
	}
	avail, err := h.Inv.Availability(c.UserContext(), itemID)
	if err != nil {
		log.Error(c, "availability.error", err, map[string]any{"item_id": itemID})
		return jsonError(c, fiber.StatusInternalServerError, "Could not check availability.")
	}
	return c.JSON(avail)
}
