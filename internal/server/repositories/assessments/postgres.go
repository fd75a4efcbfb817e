package assessments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/dmitrijs2005/smehub/internal/dbx"
)

const selectColumns = `id, user_id, answers, profile, strategy, recommendations, completed_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// table resolves the registered table for kind. Table names never come from
// user input, so they can be spliced into the statement.
func table(kind assessment.Kind) (string, error) {
	spec, ok := assessment.Lookup(kind)
	if !ok {
		return "", fmt.Errorf("unknown assessment kind %q: %w", kind, common.ErrorValidation)
	}
	return spec.Table, nil
}

func (r *PostgresRepository) Latest(ctx context.Context, kind assessment.Kind, userID string) (*assessment.Assessment, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY completed_at DESC
		LIMIT 1
	`, selectColumns, t)
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID), kind)
}

func (r *PostgresRepository) Get(ctx context.Context, kind assessment.Kind, id string) (*assessment.Assessment, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1
	`, selectColumns, t)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), kind)
}

func (r *PostgresRepository) scanOne(row *sql.Row, kind assessment.Kind) (*assessment.Assessment, error) {
	a := &assessment.Assessment{Kind: kind}
	err := row.Scan(&a.ID, &a.OwnerID, &a.Answers, &a.Profile, &a.Strategy, &a.Recommendations, &a.CompletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, a *assessment.Assessment) error {
	t, err := table(a.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, answers, profile, strategy, recommendations)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, completed_at
	`, t)
	err = r.db.QueryRowContext(ctx, query, a.OwnerID, a.Answers, a.Profile, a.Strategy, a.Recommendations).
		Scan(&a.ID, &a.CompletedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
