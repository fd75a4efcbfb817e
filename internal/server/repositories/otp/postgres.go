package otp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/dmitrijs2005/smehub/internal/dbx"
	"github.com/dmitrijs2005/smehub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, c *models.OTPChallenge) error {
	query := `
		INSERT INTO otp_challenges (user_id, email, code_hash, attempts, expires_at, last_sent_at, consumed_at)
		VALUES ($1, $2, $3, 0, $4, $5, NULL)
		ON CONFLICT (email) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    code_hash = EXCLUDED.code_hash,
		    attempts = CASE
		        WHEN otp_challenges.consumed_at IS NULL AND otp_challenges.expires_at > EXCLUDED.last_sent_at
		        THEN otp_challenges.attempts
		        ELSE 0
		    END,
		    expires_at = EXCLUDED.expires_at,
		    last_sent_at = EXCLUDED.last_sent_at,
		    consumed_at = NULL
		RETURNING id, attempts
	`
	err := r.db.QueryRowContext(ctx, query, c.UserID, c.Email, c.CodeHash, c.ExpiresAt, c.LastSentAt).Scan(&c.ID, &c.Attempts)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	c.ConsumedAt = nil
	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.OTPChallenge, error) {
	query := `
		SELECT id, user_id, email, code_hash, attempts, expires_at, last_sent_at, consumed_at
		FROM otp_challenges
		WHERE email = $1
	`
	c := &models.OTPChallenge{}
	var consumed sql.NullTime
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&c.ID, &c.UserID, &c.Email, &c.CodeHash, &c.Attempts, &c.ExpiresAt, &c.LastSentAt, &consumed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if consumed.Valid {
		t := consumed.Time
		c.ConsumedAt = &t
	}
	return c, nil
}

func (r *PostgresRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE otp_challenges SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return attempts, nil
}

func (r *PostgresRepository) Consume(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE otp_challenges SET consumed_at = $2
		WHERE id = $1 AND consumed_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
