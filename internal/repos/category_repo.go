package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `
    id,
    name,
    COALESCE(image_url,'') AS image_url,
    COALESCE(created_at,'') AS created_at,
    COALESCE(updated_at,'') AS updated_at`

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, `SELECT`+categoryCols+` FROM categories ORDER BY LOWER(name), id`)
	return out, err
}

func (r *CategoryRepo) Get(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.GetContext(ctx, &c, `SELECT`+categoryCols+` FROM categories WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

// Insert stores c under a fresh id and returns it.
func (r *CategoryRepo) Insert(ctx context.Context, c domain.Category) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories(id, name, image_url, created_at)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
	`, id, strings.TrimSpace(c.Name), nullIfEmpty(c.ImageURL))
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c domain.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, strings.TrimSpace(c.Name), nullIfEmpty(c.ImageURL), c.ID)
	if err != nil {
		return err
	}
	return affected(res.RowsAffected())
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res.RowsAffected())
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
