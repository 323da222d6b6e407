package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// query reads the shopper's filter. An invalid category or sort is dropped; a
// search term that cannot match any name leaves ok false and the view empty.
func query(c *fiber.Ctx) (q catalog.Query, ok bool) {
	q = catalog.Query{Sort: catalog.ParseSortMode(c.Query("sort"))}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		if id, valid := validate.ID(raw); valid {
			q.CategoryID = id
		} else {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
		}
	}
	term, ok := validate.Q(c.Query("q"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "q"})
		return q, false
	}
	q.Search = term
	return q, true
}

func (h *ProductHandler) view(c *fiber.Ctx) ([]domain.ViewRow, catalog.Query) {
	q, ok := query(c)
	if !ok {
		return []domain.ViewRow{}, q
	}
	return h.Catalog.View(q, session(c)), q
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	rows, q := h.view(c)
	return render(c, "products", fiber.Map{
		"Rows":       rows,
		"Count":      len(rows),
		"Categories": h.Catalog.Categories(),
		"Query":      q,
	})
}

func (h *ProductHandler) ListJSON(c *fiber.Ctx) error {
	rows, _ := h.view(c)
	return c.JSON(fiber.Map{"products": rows, "count": len(rows)})
}

type selectReq struct {
	Kind  string `json:"kind" form:"kind"`
	Value string `json:"value" form:"value"`
}

func (h *ProductHandler) Select(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "product.select", services.ErrNotFound)
	}
	var req selectReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	row, err := h.Catalog.Select(session(c), id, req.Kind, req.Value)
	if err != nil {
		return fail(c, "product.select", err)
	}
	return c.JSON(row)
}
