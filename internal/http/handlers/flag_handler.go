package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "jamaahmart/internal/log"
	"jamaahmart/internal/services"
)

type FlagHandler struct {
	Flags *services.FlagService
}

func (h *FlagHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	flags, err := h.Flags.Get(c.UserContext(), u.ID)
	if err != nil {
		applog.Error(c, "flags.list", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not load preferences")
	}
	return c.JSON(flags)
}

// Update sets a flag, or clears it when action=clear.
func (h *FlagHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	flag := c.FormValue("flag")
	var err error
	if c.FormValue("action") == "clear" {
		err = h.Flags.Clear(c.UserContext(), u.ID, flag)
	} else {
		err = h.Flags.Set(c.UserContext(), u.ID, flag)
	}
	if errors.Is(err, services.ErrBadFlag) {
		applog.Security(c, "validation.fail", map[string]any{"field": "flag"})
		return jsonError(c, fiber.StatusBadRequest, "invalid flag")
	}
	if err != nil {
		applog.Error(c, "flags.update", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not save preference")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
