package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

const sessionKey = "session"

// ensureSID returns the caller's sid. The cookie value is copied because fiber
// reuses the request buffer and the sid outlives the request as a map key.
func ensureSID(c *fiber.Ctx) string {
	sid := utils.CopyString(c.Cookies("sid"))
	if _, err := uuid.Parse(sid); err != nil {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

// Session attaches the caller's in-memory session, issuing a sid cookie on
// first contact.
func Session(store *services.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := ensureSID(c)
		c.Locals("sid", sid)
		c.Locals(sessionKey, store.Get(sid))
		return c.Next()
	}
}

func session(c *fiber.Ctx) *services.Session {
	s, _ := c.Locals(sessionKey).(*services.Session)
	return s
}

func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !session(c).IsAdmin() {
			applog.Security(c, "access.denied.admin", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin login required"})
		}
		return c.Next()
	}
}
