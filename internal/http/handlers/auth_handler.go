package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

type AuthHandler struct {
	Auth    *services.AuthService
	Timeout time.Duration
}

type loginReq struct {
	PIN string `json:"pin" form:"pin"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	res, err := h.Auth.Login(ctx, session(c), req.PIN)
	if err != nil {
		return fail(c, "auth.login", err)
	}
	if !res.OK {
		applog.Security(c, "auth.login.fail", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false, "error": "Incorrect PIN"})
	}
	applog.Audit(c, "auth.login.success", map[string]any{"needs_security_setup": res.NeedsSecuritySetup})
	return c.JSON(res)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.Auth.Logout(session(c))
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// SecurityStatus lists the available questions and which one is configured.
// The configured question is only revealed to a logged-in admin.
func (h *AuthHandler) SecurityStatus(c *fiber.Ctx) error {
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	q, configured, err := h.Auth.SecurityQuestion(ctx)
	if err != nil {
		return fail(c, "auth.security", err)
	}
	sess := session(c)
	out := fiber.Map{
		"configured":   configured,
		"pendingSetup": sess.Privilege() == services.PrivPendingSetup,
		"questions":    domain.SecurityQuestions,
	}
	if configured && sess.IsAdmin() {
		out["question"] = q
	}
	return c.JSON(out)
}

type securityReq struct {
	Question string `json:"question" form:"question"`
	Answer   string `json:"answer" form:"answer"`
	PIN      string `json:"pin" form:"pin"`
}

func (h *AuthHandler) SetupSecurity(c *fiber.Ctx) error {
	var req securityReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	if err := h.Auth.SetupSecurity(ctx, session(c), req.Question, req.Answer, req.PIN); err != nil {
		return fail(c, "auth.security", err)
	}
	applog.Audit(c, "auth.security.set", map[string]any{"question": req.Question})
	return c.JSON(fiber.Map{"ok": true})
}

type pinReq struct {
	Answer string `json:"answer" form:"answer"`
	NewPIN string `json:"new_pin" form:"new_pin"`
}

func (h *AuthHandler) ChangePIN(c *fiber.Ctx) error {
	var req pinReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	if err := h.Auth.ChangePIN(ctx, session(c), req.Answer, req.NewPIN); err != nil {
		return fail(c, "auth.pin", err)
	}
	applog.Audit(c, "auth.pin.changed", nil)
	return c.JSON(fiber.Map{"ok": true})
}
