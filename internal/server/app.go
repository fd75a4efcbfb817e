// Package server wires the marketplace backend: PostgreSQL storage and
// migrations, the auth and assessment services, the gRPC endpoint and the
// ops HTTP endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/smehub/internal/logging"
	"github.com/dmitrijs2005/smehub/internal/observability"
	"github.com/dmitrijs2005/smehub/internal/server/config"
	"github.com/dmitrijs2005/smehub/internal/server/ops"
	"github.com/dmitrijs2005/smehub/internal/server/recommend"
	"github.com/dmitrijs2005/smehub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/smehub/internal/server/services"

	gs "github.com/dmitrijs2005/smehub/internal/server/grpc"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	userService       *services.UserService
	assessmentService *services.AssessmentService
}

// NewApp opens the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	observability.RegisterMetrics()

	us := services.NewUserService(db, rm, c, services.NewLogMailer(logger), logger)
	as := services.NewAssessmentService(db, rm, recommend.NewRegistry(), services.NewS3ReportStore(c), logger)

	return &App{config: c, logger: logger, db: db, userService: us, assessmentService: as}, nil
}

// Run blocks until ctx is cancelled or one of the servers fails.
func (app *App) Run(ctx context.Context) error {
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.assessmentService, app.config.SecretKey)
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s := ops.NewServer(app.config.OpsAddrHTTP, app.db, app.logger)
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "app stopped", "error", err)
	}
	return err
}
