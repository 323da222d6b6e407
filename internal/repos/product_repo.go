package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// productRow is the raw stored shape, including legacy columns.
type productRow struct {
	ID            string          `db:"id"`
	CategoryID    string          `db:"category_id"`
	Name          string          `db:"name"`
	MRP           decimal.Decimal `db:"mrp"`
	Price         decimal.Decimal `db:"price"`
	Quantity      sql.NullInt64   `db:"quantity"`
	InStock       sql.NullInt64   `db:"in_stock"`
	ImageURL      string          `db:"image_url"`
	ColorOptions  string          `db:"color_options"`
	SizeOptions   string          `db:"size_options"`
	VariantImages string          `db:"variant_images"`
}

const productCols = `
    id, category_id, name, mrp, price, quantity, in_stock,
    COALESCE(image_url,'')      AS image_url,
    COALESCE(color_options,'')  AS color_options,
    COALESCE(size_options,'')   AS size_options,
    COALESCE(variant_images,'') AS variant_images`

// normalize turns a stored row into a domain product. A numeric quantity
// always wins over the legacy in_stock flag.
func (r productRow) normalize() domain.Product {
	qty := 0
	switch {
	case r.Quantity.Valid:
		qty = int(r.Quantity.Int64)
	case r.InStock.Valid && r.InStock.Int64 != 0:
		qty = 1
	}
	if qty < 0 {
		qty = 0
	}
	mrp, price := r.MRP, r.Price
	if mrp.IsNegative() {
		mrp = decimal.Zero
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	return domain.Product{
		ID:              r.ID,
		Name:            r.Name,
		CategoryID:      r.CategoryID,
		MRP:             mrp,
		Price:           price,
		Quantity:        qty,
		ImageURL:        strings.TrimSpace(r.ImageURL),
		ColorOptionsRaw: r.ColorOptions,
		SizeOptionsRaw:  r.SizeOptions,
		VariantImages:   domain.DecodeVariantImages(r.VariantImages),
	}
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT`+productCols+` FROM products ORDER BY LOWER(name), id`); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.normalize())
	}
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `SELECT`+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return row.normalize(), nil
}

func (r *ProductRepo) Insert(ctx context.Context, p domain.Product) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products(id, category_id, name, mrp, price, quantity, image_url,
		                     color_options, size_options, variant_images, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, id, p.CategoryID, p.Name, p.MRP, p.Price, p.Quantity, p.ImageURL,
		p.ColorOptionsRaw, p.SizeOptionsRaw, nullIfEmpty(p.VariantImages.Encode()))
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update rewrites every field and clears the legacy in_stock flag.
func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET category_id = ?, name = ?, mrp = ?, price = ?, quantity = ?, in_stock = NULL,
		    image_url = ?, color_options = ?, size_options = ?, variant_images = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.CategoryID, p.Name, p.MRP, p.Price, p.Quantity,
		p.ImageURL, p.ColorOptionsRaw, p.SizeOptionsRaw, nullIfEmpty(p.VariantImages.Encode()), p.ID)
	if err != nil {
		return err
	}
	return affected(res.RowsAffected())
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res.RowsAffected())
}

// DeleteByCategory removes every product of categoryID and reports how many.
func (r *ProductRepo) DeleteByCategory(ctx context.Context, categoryID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE category_id = ?`, categoryID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
