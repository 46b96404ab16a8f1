package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"jamaahmart/internal/domain"
	"jamaahmart/internal/imaging"
	applog "jamaahmart/internal/log"
	"jamaahmart/internal/repos"
	"jamaahmart/internal/services"
	"jamaahmart/internal/validate"
)

type AdminHandler struct {
	Orders  *services.OrderService
	Review  *services.ReviewService
	Catalog *services.CatalogAdminService
	Inv     *repos.InventoryRepo
}

// GET /admin/orders?status=pending
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	var status domain.OrderStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		s, ok := domain.ParseOrderStatus(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).SendString("unknown status filter")
		}
		status = s
	}
	ords, err := h.Orders.Queue(c.UserContext(), status, 100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords, "Status": string(status)})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	status := strings.TrimSpace(c.FormValue("status"))
	if !ok || status == "" {
		return c.Status(fiber.StatusBadRequest).SendString("missing id or status")
	}
	// the review buttons post verbs
	switch status {
	case "approve":
		status = string(domain.OrderApproved)
	case "reject":
		status = string(domain.OrderRejected)
	}
	err := h.Review.Decide(c.UserContext(), id, domain.OrderStatus(status))
	switch {
	case err == nil:
	case errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).SendString("status must be approved or rejected")
	case errors.Is(err, services.ErrOrderNotFound):
		return notFound(c, "Order not found")
	case errors.Is(err, services.ErrOrderFinal):
		applog.Security(c, "admin.orders.update.final", map[string]any{"order_id": id, "status": status})
		return c.Status(fiber.StatusConflict).SendString("order has already been decided")
	default:
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(fiber.StatusInternalServerError).SendString("could not update status")
	}
	by := ""
	if u := currentUser(c); u != nil {
		by = u.ID
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status, "by": by})
	return c.Redirect("/admin/orders", fiber.StatusSeeOther)
}

// GET /admin/inventory
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.Inv.ListAll(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not load inventory")
	}
	return c.JSON(rows)
}

// POST /admin/catalog/:id/stock
func (h *AdminHandler) UpdateStock(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	qty, okQty := validate.Stock(c.FormValue("stock"))
	if !okID || !okQty {
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}
	err := h.Catalog.SetStock(c.UserContext(), id, qty)
	if errors.Is(err, services.ErrItemNotFound) {
		return notFound(c, "Item not found")
	}
	if err != nil {
		applog.Error(c, "admin.inventory.save.fail", err, map[string]any{"item_id": id, "stock": qty})
		return c.Status(fiber.StatusBadRequest).SendString("could not save stock")
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"item_id": id, "stock": qty})
	return c.JSON(fiber.Map{"id": id, "stock": qty})
}

// POST /admin/catalog (multipart; optional "image")
func (h *AdminHandler) SaveItem(c *fiber.Ctx) error {
	price, errP := strconv.ParseInt(strings.TrimSpace(c.FormValue("price")), 10, 64)
	stock, okS := validate.Stock(c.FormValue("stock"))
	if errP != nil || !okS {
		return c.Status(fiber.StatusBadRequest).SendString("price and stock must be whole numbers")
	}
	fh, _ := c.FormFile("image")
	it, err := h.Catalog.Save(c.UserContext(), services.CatalogItemInput{
		ID:          c.FormValue("id"),
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       price,
		Stock:       stock,
		Category:    c.FormValue("category"),
		Status:      c.FormValue("status"),
	}, imaging.FromFileHeader(fh))
	switch {
	case err == nil:
	case errors.Is(err, services.ErrInvalidItem), imaging.IsValidation(err), errors.Is(err, imaging.ErrUnreadable):
		applog.Security(c, "validation.fail", map[string]any{"field": "catalog_item", "reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	default:
		applog.Error(c, "admin.catalog.save.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("could not save item")
	}
	applog.Audit(c, "admin.catalog.save", map[string]any{"item_id": it.ID, "price": it.Price, "stock": it.Stock, "status": it.Status})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": it.ID})
}
