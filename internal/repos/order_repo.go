package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
    id,
    COALESCE(session_id,'') AS session_id,
    product_id, product_name,
    COALESCE(color,'') AS color,
    COALESCE(size,'')  AS size,
    price,
    COALESCE(created_at,'') AS created_at`

// Create inserts a new enquiry and returns its id.
func (r *OrderRepo) Create(ctx context.Context, o domain.Order) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO orders
	    (id, session_id, product_id, product_name, color, size, price, created_at)
	  VALUES
	    (?,  ?,          ?,          ?,            ?,     ?,    ?,     CURRENT_TIMESTAMP)
	`, id, nullIfEmpty(o.SessionID), o.ProductID, o.ProductName, nullIfEmpty(o.Color), nullIfEmpty(o.Size), o.Price)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := r.db.SelectContext(ctx, &out, `SELECT`+orderCols+`
		FROM orders
		ORDER BY datetime(created_at) DESC, rowid DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListBySession returns enquiries made from one browser session.
func (r *OrderRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.SelectContext(ctx, &out, `SELECT`+orderCols+`
		FROM orders
		WHERE session_id = ?
		ORDER BY datetime(created_at) DESC, rowid DESC
	`, sessionID)
	return out, err
}
