package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/smehub/internal/api"
	"github.com/dmitrijs2005/smehub/internal/assessment"
)

// Client is the transport-agnostic view of the marketplace backend used by
// the client services.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Register(ctx context.Context, email, password, accountType string) (string, error)
	InitiateSignIn(ctx context.Context, email, password string) (time.Duration, error)
	ResendOTP(ctx context.Context, email string) (time.Duration, error)
	VerifyOTP(ctx context.Context, email, code string) (*api.User, error)
	Logout()

	LatestAssessment(ctx context.Context, kind assessment.Kind) (*assessment.Assessment, error)
	SubmitAssessment(ctx context.Context, kind assessment.Kind, answers assessment.Answers) (*assessment.Assessment, error)
	Recommendations(ctx context.Context, kind assessment.Kind, assessmentID string, answers assessment.Answers) ([]assessment.Recommendation, error)
	ReportURL(ctx context.Context, kind assessment.Kind, assessmentID string) (string, error)
}
