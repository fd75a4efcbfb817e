// Package repomanager vends per-table repositories bound to a DBTX, so the
// same service code can run against a plain connection or inside a
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/smehub/internal/dbx"
	"github.com/dmitrijs2005/smehub/internal/server/repositories/assessments"
	"github.com/dmitrijs2005/smehub/internal/server/repositories/otp"
	"github.com/dmitrijs2005/smehub/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/smehub/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	OTP(db dbx.DBTX) otp.Repository
	Assessments(db dbx.DBTX) assessments.Repository
}
