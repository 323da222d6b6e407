package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/catalog"
	"storefront/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

type categoryCard struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (h *CategoryHandler) cards() []categoryCard {
	cats := h.Catalog.Categories()
	out := make([]categoryCard, 0, len(cats))
	for _, c := range cats {
		img := c.ImageURL
		if img == "" {
			img = catalog.CategoryPlaceholder(c.Name)
		}
		out = append(out, categoryCard{ID: c.ID, Name: c.Name, Image: img})
	}
	return out
}

func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	return render(c, "home", fiber.Map{"Categories": h.cards()})
}

func (h *CategoryHandler) ListJSON(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": h.cards()})
}
