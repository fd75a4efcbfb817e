package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/smehub/internal/dbx"
	"github.com/dmitrijs2005/smehub/internal/server/migrations"
	"github.com/dmitrijs2005/smehub/internal/server/repositories/assessments"
	"github.com/dmitrijs2005/smehub/internal/server/repositories/otp"
	"github.com/dmitrijs2005/smehub/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/smehub/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) OTP(db dbx.DBTX) otp.Repository {
	return otp.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Assessments(db dbx.DBTX) assessments.Repository {
	return assessments.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
