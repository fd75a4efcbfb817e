// Package assessments caches the last assessment seen per kind and user.
// Payloads are stored sealed; this package never sees plaintext.
package assessments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/dmitrijs2005/smehub/internal/dbx"
)

// CachedAssessment is one encrypted cache row.
type CachedAssessment struct {
	Kind       assessment.Kind
	UserID     string
	Ciphertext []byte
	Nonce      []byte
	CachedAt   time.Time
}

type Repository interface {
	Put(ctx context.Context, c *CachedAssessment) error
	Get(ctx context.Context, userID string, kind assessment.Kind) (*CachedAssessment, error)
	Clear(ctx context.Context) error
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, c *CachedAssessment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assessment_cache (kind, user_id, ciphertext, nonce, cached_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(kind, user_id) DO UPDATE SET
			ciphertext = excluded.ciphertext,
			nonce = excluded.nonce,
			cached_at = excluded.cached_at`,
		string(c.Kind), c.UserID, c.Ciphertext, c.Nonce, c.CachedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to cache %s assessment: %w", c.Kind, err)
	}
	return nil
}

// Get returns common.ErrorNotFound when nothing is cached for the pair.
func (r *SQLiteRepository) Get(ctx context.Context, userID string, kind assessment.Kind) (*CachedAssessment, error) {
	c := &CachedAssessment{Kind: kind, UserID: userID}
	err := r.db.QueryRowContext(ctx,
		`SELECT ciphertext, nonce, cached_at FROM assessment_cache WHERE kind = ? AND user_id = ?`,
		string(kind), userID).Scan(&c.Ciphertext, &c.Nonce, &c.CachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached %s assessment: %w", kind, err)
	}
	return c, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assessment_cache`); err != nil {
		return fmt.Errorf("failed to clear assessment cache: %w", err)
	}
	return nil
}
