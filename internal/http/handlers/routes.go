package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "storefront/internal/log"
)

// Routes mounts the storefront's pages, JSON API and admin endpoints. The
// Session middleware must run before any of them.
func Routes(app fiber.Router, d *Deps) {
	// Public pages
	app.Get("/", d.CategoryHandler.Home)
	app.Get("/products", d.ProductHandler.List)
	app.Get("/order/:id", d.OrderHandler.Redirect)

	// API
	api := app.Group("/api/v1")
	api.Get("/categories", d.CategoryHandler.ListJSON)
	api.Get("/products", d.ProductHandler.ListJSON)
	api.Post("/products/:id/select", d.ProductHandler.Select)

	// Admin auth (login throttled)
	app.Post("/admin/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	app.Post("/admin/logout", d.AuthHandler.Logout)
	app.Get("/admin/security", d.AuthHandler.SecurityStatus)
	app.Post("/admin/security", d.AuthHandler.SetupSecurity)
	app.Post("/admin/pin", d.AuthHandler.ChangePIN)

	admin := app.Group("/admin", RequireAdmin())
	admin.Post("/categories", d.AdminHandler.SaveCategory)
	admin.Post("/categories/:id", d.AdminHandler.SaveCategory)
	admin.Post("/categories/:id/delete", d.AdminHandler.DeleteCategory)
	admin.Post("/products", d.AdminHandler.SaveProduct)
	admin.Post("/products/:id", d.AdminHandler.SaveProduct)
	admin.Post("/products/:id/delete", d.AdminHandler.DeleteProduct)
	admin.Get("/export.xlsx", d.AdminHandler.Export)
	admin.Get("/orders", d.OrderHandler.Recent)
}
