package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Orders  *services.OrderService
	Timeout time.Duration
}

// Redirect sends the shopper to a pre-filled WhatsApp chat for the product.
func (h *OrderHandler) Redirect(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "This item is no longer available")
	}
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()
	link, err := h.Orders.Link(ctx, session(c), id)
	switch {
	case errors.Is(err, services.ErrOutOfStock):
		return notFound(c, "This item is out of stock")
	case err != nil:
		return notFound(c, "This item is no longer available")
	}
	applog.Info(c, "order.enquiry", map[string]any{"product_id": id})
	return c.Redirect(link, fiber.StatusFound)
}

// GET /admin/orders
func (h *OrderHandler) Recent(c *fiber.Ctx) error {
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()
	orders, err := h.Orders.Recent(ctx, session(c), c.QueryInt("limit", 100))
	if err != nil {
		return fail(c, "admin.orders.list", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}
