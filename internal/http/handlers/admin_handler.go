package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/export"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AdminHandler struct {
	Catalog        *services.CatalogService
	Timeout        time.Duration
	MaxUploadBytes int64
}

// POST /admin/categories, POST /admin/categories/:id
func (h *AdminHandler) SaveCategory(c *fiber.Ctx) error {
	id, err := optionalID(c)
	if err != nil {
		return fail(c, "admin.category.save", err)
	}
	form := readForm(c)
	up := &uploads{max: h.MaxUploadBytes}
	defer up.Close()

	img, err := up.add(form.file("image"))
	if err != nil {
		return fail(c, "admin.category.save", err)
	}

	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()
	saved, err := h.Catalog.SaveCategory(ctx, session(c), services.CategoryInput{
		ID:       id,
		Name:     form.get("name"),
		ImageURL: form.get("image_url"),
		Image:    img,
	})
	if err != nil {
		return fail(c, "admin.category.save", err)
	}
	applog.Audit(c, "admin.category.save", map[string]any{"category_id": saved, "created": id == ""})
	return c.JSON(fiber.Map{"ok": true, "id": saved})
}

// POST /admin/categories/:id/delete
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "admin.category.delete", services.ErrNotFound)
	}
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	n, err := h.Catalog.DeleteCategory(ctx, session(c), id)
	if err != nil {
		return fail(c, "admin.category.delete", err)
	}
	applog.Audit(c, "admin.category.delete", map[string]any{"category_id": id, "products_removed": n})
	return c.JSON(fiber.Map{"ok": true, "productsRemoved": n})
}

// POST /admin/products, POST /admin/products/:id
func (h *AdminHandler) SaveProduct(c *fiber.Ctx) error {
	id, err := optionalID(c)
	if err != nil {
		return fail(c, "admin.product.save", err)
	}
	form := readForm(c)
	up := &uploads{max: h.MaxUploadBytes}
	defer up.Close()

	in := services.ProductInput{
		ID:           id,
		Name:         form.get("name"),
		CategoryID:   form.get("category_id"),
		MRP:          form.get("mrp"),
		Price:        form.get("price"),
		Quantity:     form.get("quantity"),
		ColorOptions: form.get("color_options"),
		SizeOptions:  form.get("size_options"),
		ImageURL:     form.get("image_url"),
		VariantURLs:  form.indexed("variant_url"),
	}
	if in.Image, err = up.add(form.file("image")); err != nil {
		return fail(c, "admin.product.save", err)
	}
	for name, fh := range form.indexedFiles("variant_image") {
		u, err := up.add(fh)
		if err != nil {
			return fail(c, "admin.product.save", err)
		}
		if in.VariantUploads == nil {
			in.VariantUploads = map[string]services.Upload{}
		}
		in.VariantUploads[name] = *u
	}

	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()
	saved, err := h.Catalog.SaveProduct(ctx, session(c), in)
	if err != nil {
		return fail(c, "admin.product.save", err)
	}
	applog.Audit(c, "admin.product.save", map[string]any{"product_id": saved, "created": id == ""})
	return c.JSON(fiber.Map{"ok": true, "id": saved})
}

// POST /admin/products/:id/delete
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "admin.product.delete", services.ErrNotFound)
	}
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	if err := h.Catalog.DeleteProduct(ctx, session(c), id); err != nil {
		return fail(c, "admin.product.delete", err)
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"ok": true})
}

// GET /admin/export.xlsx
func (h *AdminHandler) Export(c *fiber.Ctx) error {
	snap := h.Catalog.Snapshot()
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	if err := export.ProductsXLSX(c, snap.Products, snap.Categories); err != nil {
		applog.Error(c, "admin.export.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write Excel file"})
	}
	applog.Audit(c, "admin.export", map[string]any{"products": len(snap.Products)})
	return nil
}

// optionalID reads :id when the route has one. An absent id means create.
func optionalID(c *fiber.Ctx) (string, error) {
	raw := c.Params("id")
	if raw == "" {
		return "", nil
	}
	id, ok := validate.ID(raw)
	if !ok {
		return "", services.ErrNotFound
	}
	return id, nil
}
