package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["IsAdmin"] = session(c).IsAdmin()
	// Pick up the token the CSRF middleware put into Locals
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	} else if tok := c.Cookies("csrf_"); tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": msg})
}

// storeCtx bounds a store round trip by the request context and timeout.
func storeCtx(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), timeout)
}

// fail maps a service error to a JSON response and logs it at the matching level.
func fail(c *fiber.Ctx, action string, err error) error {
	var (
		ve *services.ValidationError
		ae *services.AuthorizationError
		se *services.StoreError
		ue *services.UploadError
	)
	switch {
	case errors.As(err, &ve):
		applog.Security(c, "validation.fail", map[string]any{"action": action, "field": ve.Field})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Msg, "field": ve.Field})
	case errors.As(err, &ae):
		applog.Security(c, "access.denied", map[string]any{"action": action})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin login required"})
	case errors.As(err, &ue):
		applog.Error(c, action+".upload", err, map[string]any{"file": ue.Name})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Image upload failed. Please try again."})
	case errors.As(err, &se):
		applog.Error(c, action+".store", err, map[string]any{"op": se.Op})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Could not save changes. Please try again."})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrOutOfStock):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
}

// ErrorHandler logs unhandled errors and shows a friendly page without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	applog.Error(c, "server.error", err, nil)
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	msg := "Something went wrong. Please try again."
	if code == fiber.StatusNotFound {
		msg = "Page not found"
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
