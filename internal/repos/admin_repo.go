package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

// AdminRepo is the single-row credential store.
type AdminRepo struct{ db *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{db: db} }

func (r *AdminRepo) Get(ctx context.Context) (domain.AdminConfig, error) {
	var c domain.AdminConfig
	err := r.db.GetContext(ctx, &c, `
		SELECT pin_hash,
		       COALESCE(security_question,'')    AS security_question,
		       COALESCE(security_answer_hash,'') AS security_answer_hash
		FROM admin_config WHERE id = 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

func (r *AdminRepo) UpdatePIN(ctx context.Context, pinHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE admin_config SET pin_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1
	`, pinHash)
	if err != nil {
		return err
	}
	return affected(res.RowsAffected())
}

func (r *AdminRepo) UpdateSecurity(ctx context.Context, question, answerHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE admin_config
		SET security_question = ?, security_answer_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`, question, answerHash)
	if err != nil {
		return err
	}
	return affected(res.RowsAffected())
}
