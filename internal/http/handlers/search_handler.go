package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"jamaahmart/internal/domain"
	"jamaahmart/internal/log"
	"jamaahmart/internal/services"
	"jamaahmart/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	q := ""
	if strings.TrimSpace(rawQ) != "" {
		var ok bool
		if q, ok = validate.Q(rawQ); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
			return jsonError(c, fiber.StatusBadRequest, "Enter a valid keyword (letters/numbers only)")
		}
	}
	category := domain.Category(strings.TrimSpace(c.Query("category")))
	if category != "" && !category.Valid() {
		log.Security(c, "validation.fail", map[string]any{"field": "category"})
		return jsonError(c, fiber.StatusBadRequest, "Invalid category")
	}

	items, err := h.Catalog.Search(c.UserContext(), q, category)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not load results. Please retry.")
	}
	return c.JSON(fiber.Map{"q": q, "category": category, "items": items, "count": len(items)})
}
