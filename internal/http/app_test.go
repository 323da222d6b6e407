package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/blob"
	"storefront/internal/config"
	"storefront/internal/http/handlers"
	"storefront/internal/repos"
)

// Minimal app wired like cmd/storefront, with a temp media dir
func newTestApp(t *testing.T) (*fiber.App, *handlers.Deps) {
	t.Helper()
	cfg := config.Config{
		DBDSN:          ":memory:",
		MediaDir:       t.TempDir(),
		WhatsAppNumber: "918179771029",
		MaxUploadBytes: 1 << 20,
		StoreTimeout:   5 * time.Second,
	}
	db, err := repos.OpenDB(cfg.DBDSN, "admin123")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(db, cfg, blob.NewLocalStore(cfg.MediaDir, int64(cfg.MaxUploadBytes)))
	deps.Auth.Cost = bcrypt.MinCost
	if err := deps.Catalog.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Use(handlers.Session(deps.Sessions))
	app.Use(csrf.New(csrf.Config{KeyLookup: "header:X-CSRF-Token", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Get("/media/*", handlers.Media(cfg.MediaDir))
	handlers.Routes(app, deps)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	return app, deps
}

// client carries the sid and csrf cookies between requests like a browser tab.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newClient(t *testing.T, app *fiber.App) *client {
	t.Helper()
	c := &client{t: t, app: app, cookies: map[string]string{}}
	c.do("GET", "/healthz", nil, "")
	if c.cookies["csrf_"] == "" || c.cookies["sid"] == "" {
		t.Fatalf("expected sid and csrf cookies, got %v", c.cookies)
	}
	return c
}

func (c *client) do(method, path string, body io.Reader, contentType string) *http.Response {
	c.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range c.cookies {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	if method != http.MethodGet {
		req.Header.Set("X-CSRF-Token", c.cookies["csrf_"])
	}
	resp, err := c.app.Test(req, -1)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	for _, ck := range resp.Cookies() {
		if ck.Value != "" {
			c.cookies[ck.Name] = ck.Value
		}
	}
	return resp
}

func (c *client) postJSON(path string, v any) *http.Response {
	c.t.Helper()
	b, _ := json.Marshal(v)
	return c.do("POST", path, bytes.NewReader(b), fiber.MIMEApplicationJSON)
}

type filePart struct {
	field, name, content string
}

func (c *client) postMultipart(path string, fields map[string]string, files ...filePart) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			c.t.Fatal(err)
		}
		_, _ = io.WriteString(fw, f.content)
	}
	_ = w.Close()
	return c.do("POST", path, &buf, w.FormDataContentType())
}

// becomeAdmin logs in with the default PIN and completes first-time setup.
func (c *client) becomeAdmin() {
	c.t.Helper()
	resp := c.postJSON("/admin/login", map[string]string{"pin": "admin123"})
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("login: %d", resp.StatusCode)
	}
	var res struct {
		NeedsSecuritySetup bool `json:"needsSecuritySetup"`
	}
	decode(c.t, resp, &res)
	if res.NeedsSecuritySetup {
		resp = c.postJSON("/admin/security", map[string]string{"question": "dog", "answer": "Bruno"})
		if resp.StatusCode != http.StatusOK {
			c.t.Fatalf("security setup: %d", resp.StatusCode)
		}
	}
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func bodyString(resp *http.Response) string {
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func firstCategoryID(t *testing.T, c *client) string {
	t.Helper()
	var out struct {
		Categories []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"categories"`
	}
	decode(t, c.do("GET", "/api/v1/categories", nil, ""), &out)
	if len(out.Categories) == 0 {
		t.Fatal("no categories")
	}
	return out.Categories[0].ID
}

func createProduct(t *testing.T, c *client, fields map[string]string, files ...filePart) string {
	t.Helper()
	resp := c.postMultipart("/admin/products", fields, files...)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create product: %d %s", resp.StatusCode, bodyString(resp))
	}
	var out struct {
		ID string `json:"id"`
	}
	decode(t, resp, &out)
	if strings.TrimSpace(out.ID) == "" {
		t.Fatal("no id returned")
	}
	return out.ID
}
