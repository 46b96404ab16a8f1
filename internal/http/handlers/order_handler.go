package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"jamaahmart/internal/domain"
	"jamaahmart/internal/imaging"
	applog "jamaahmart/internal/log"
	"jamaahmart/internal/services"
	"jamaahmart/internal/validate"
)

// paymentInfoFlag marks that the shopper has seen the bank transfer instructions.
const paymentInfoFlag = "payment_info_seen"

type OrderHandler struct {
	Checkout *services.CheckoutService
	Order    *services.OrderService
	Flags    *services.FlagService
}

// POST /checkout
func (h *OrderHandler) BeginCheckout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_, err := h.Checkout.Begin(c.UserContext(), sid)
	if errors.Is(err, domain.ErrEmptyCart) {
		return c.Redirect("/cart", fiber.StatusSeeOther)
	}
	if err != nil {
		applog.Error(c, "checkout.begin", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not start checkout. Please retry.")
	}
	return c.Redirect("/checkout", fiber.StatusSeeOther)
}

// GET /checkout shows the frozen payload. Without one (reload, direct link)
// the shopper goes back to the marketplace.
func (h *OrderHandler) ShowCheckout(c *fiber.Ctx) error {
	p, err := h.Checkout.Current(ensureSID(c))
	if err != nil {
		return c.Redirect("/marketplace", fiber.StatusSeeOther)
	}
	showInfo := true
	if u := currentUser(c); u != nil && h.Flags != nil {
		if flags, err := h.Flags.Get(c.UserContext(), u.ID); err == nil {
			_, seen := flags[paymentInfoFlag]
			showInfo = !seen
		}
	}
	return c.JSON(fiber.Map{"checkout": p.View(), "showPaymentInfo": showInfo})
}

// POST /checkout/cancel
func (h *OrderHandler) CancelCheckout(c *fiber.Ctx) error {
	h.Checkout.Abandon(ensureSID(c))
	return c.Redirect("/marketplace", fiber.StatusSeeOther)
}

// POST /orders takes the payment proof and notes for the pending checkout.
// On any failure the checkout stays in place so the shopper can retry.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	u := currentUser(c)

	p, err := h.Checkout.Current(sid)
	if err != nil {
		return c.Redirect("/marketplace", fiber.StatusSeeOther)
	}

	fh, _ := c.FormFile("proof")
	res, err := h.Order.Submit(c.UserContext(), services.SubmitRequest{
		Owner:   u,
		Payload: p,
		Proof:   imaging.FromFileHeader(fh),
		Notes:   c.FormValue("notes"),
	})
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNoOwner):
		return c.Redirect("/login")
	case errors.Is(err, services.ErrMissingProof), imaging.IsValidation(err),
		errors.Is(err, services.ErrNotesTooLong):
		applog.Security(c, "validation.fail", map[string]any{"field": "proof", "reason": err.Error()})
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, imaging.ErrUnreadable):
		return jsonError(c, fiber.StatusBadRequest, "The image could not be read. Please choose another file.")
	case errors.Is(err, services.ErrPersist):
		return jsonError(c, fiber.StatusServiceUnavailable, "Your order could not be saved. Please try again.")
	default:
		applog.Error(c, "order.place.fail", err, map[string]any{"sid": sid})
		return jsonError(c, fiber.StatusServiceUnavailable, "Your order could not be saved. Please try again.")
	}

	h.Checkout.Complete(sid, p)
	// the order is already saved; a lost flag only shows the bank details again
	if h.Flags != nil {
		if err := h.Flags.Set(c.UserContext(), u.ID, paymentInfoFlag); err != nil {
			applog.Error(c, "flags.set", err, map[string]any{"user_id": u.ID, "flag": paymentInfoFlag})
		}
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id":      res.Order.ID,
		"order_number":  res.Order.OrderNumber,
		"total":         res.Order.TotalAmount,
		"proof_ratio":   res.Evidence.Ratio,
		"proof_encoded": res.Evidence.EncodedSize,
	})
	return c.Redirect("/order/"+res.Order.ID, fiber.StatusSeeOther)
}

// GET /order/:id is the receipt. Only the owner and admins can see it; anyone
// else gets the same 404 as for an unknown id.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Order not found")
	}
	o, err := h.Order.Get(c.UserContext(), oid)
	if errors.Is(err, services.ErrOrderNotFound) {
		return notFound(c, "Order not found")
	}
	if err != nil {
		return err
	}
	u := currentUser(c)
	if u == nil || (u.ID != o.OwnerID && !u.IsAdmin()) {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return notFound(c, "Order not found")
	}
	return render(c, "order", fiber.Map{"Order": o})
}

// History lists orders for the current logged-in user.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return notFound(c, "Orders not available")
	}
	orders, err := h.Order.History(c.UserContext(), u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not load orders")
	}
	return c.JSON(fiber.Map{"orders": orders})
}
