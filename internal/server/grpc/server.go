// Package grpc exposes the marketplace services over gRPC using the JSON
// codec from internal/api.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/smehub/internal/api"
	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/logging"
	"github.com/dmitrijs2005/smehub/internal/server/models"
	"github.com/dmitrijs2005/smehub/internal/server/services"
	"google.golang.org/grpc"
)

// UserService is the part of services.UserService the handlers use.
type UserService interface {
	Register(ctx context.Context, email, password, accountType string) (*models.User, error)
	InitiateSignIn(ctx context.Context, email, password string) (*services.SignInResult, error)
	ResendOTP(ctx context.Context, email string) (*services.SignInResult, error)
	VerifyOTP(ctx context.Context, email, code string) (*services.VerifyResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// AssessmentService is the part of services.AssessmentService the handlers use.
type AssessmentService interface {
	Latest(ctx context.Context, userID string, kind assessment.Kind) (*assessment.Assessment, error)
	Submit(ctx context.Context, userID string, kind assessment.Kind, answers assessment.Answers) (*assessment.Assessment, error)
	Recommendations(ctx context.Context, userID string, kind assessment.Kind, assessmentID string, answers assessment.Answers) (assessment.Recommendations, error)
	ReportURL(ctx context.Context, userID string, kind assessment.Kind, assessmentID string) (string, error)
}

type GRPCServer struct {
	address     string
	users       UserService
	assessments AssessmentService
	logger      logging.Logger
	jwtSecret   []byte
}

var _ api.MarketplaceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us UserService, as AssessmentService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		users:       us,
		assessments: as,
		jwtSecret:   []byte(secretKey),
	}
}

// newServer builds the grpc.Server with interceptors and the service attached.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.requestInterceptor,
		s.accessTokenInterceptor,
	))
	api.RegisterMarketplaceServer(srv, s)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	return srv.Serve(listen)
}
