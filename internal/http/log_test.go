package handlers_test

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"storefront/internal/http/handlers"
)

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	ReqID  string         `json:"req_id"`
	SID    string         `json:"sid"`
	Fields map[string]any `json:"fields"`
}

// capture logs by temporarily replacing the standard logger output
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func findLog(entries []logEntry, level, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Level == level && e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

// login attempts and admin writes leave security and audit records
func TestAuthAndAdminLogging(t *testing.T) {
	app, _ := newTestApp(t)
	c := newClient(t, app)

	entries := captureLogs(t, func() {
		c.postJSON("/admin/login", map[string]string{"pin": "nope"})
		c.becomeAdmin()
		c.postMultipart("/admin/categories", map[string]string{"name": "Kurtis"})
	})

	fail, ok := findLog(entries, "warn", "auth.login.fail")
	if !ok {
		t.Fatalf("missing auth.login.fail; got %+v", entries)
	}
	if fail.SID == "" || fail.ReqID == "" {
		t.Fatalf("log entry should carry sid and request id: %+v", fail)
	}
	if _, ok := findLog(entries, "audit", "auth.login.success"); !ok {
		t.Fatal("missing auth.login.success")
	}
	if _, ok := findLog(entries, "audit", "auth.security.set"); !ok {
		t.Fatal("missing auth.security.set")
	}
	if e, ok := findLog(entries, "audit", "admin.category.save"); !ok || e.Fields["created"] != true {
		t.Fatalf("missing admin.category.save audit: %+v", e)
	}
	if _, ok := findLog(entries, "info", "catalog_reload"); !ok {
		t.Fatal("missing catalog_reload event after write")
	}
	for _, e := range entries {
		if strings.Contains(e.Action, "admin123") {
			t.Fatal("PIN leaked into logs")
		}
	}
}

func TestDeniedAccessLogged(t *testing.T) {
	app, _ := newTestApp(t)
	c := newClient(t, app)

	entries := captureLogs(t, func() {
		c.postJSON("/admin/products/abc/delete", nil)
	})
	if _, ok := findLog(entries, "warn", "access.denied.admin"); !ok {
		t.Fatalf("missing access.denied.admin; got %+v", entries)
	}
}

// friendly error surface, no internal leakage
func TestErrorHandlerFriendlyMessage(t *testing.T) {
	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})

	var resp string
	var code int
	entries := captureLogs(t, func() {
		r, err := app.Test(httptest.NewRequest("GET", "/err", nil))
		if err != nil {
			t.Fatalf("test request failed: %v", err)
		}
		code = r.StatusCode
		resp = bodyString(r)
	})
	if code != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if !strings.Contains(resp, "Something went wrong") {
		t.Fatalf("friendly message missing; body=%s", resp)
	}
	if strings.Contains(resp, "db timeout") || strings.Contains(resp, "secret") {
		t.Fatalf("internal details leaked to user; body=%s", resp)
	}
	if _, ok := findLog(entries, "error", "server.error"); !ok {
		t.Fatal("error not logged")
	}
}
