package flows

import (
	"context"

	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/client/session"
)

// Navigation targets outside the flows.
const (
	RouteSignIn    = "/signin"
	RouteDashboard = "/dashboard"
	RouteMessages  = "/messages"
)

// AuthService checks credentials and passcodes.
type AuthService interface {
	InitiateSignIn(ctx context.Context, email, password string) (session.SignInResult, error)
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
}

// AssessmentStore reads and writes completed assessments. A missing
// assessment is reported as common.ErrorNotFound.
type AssessmentStore interface {
	FetchLatestCompleted(ctx context.Context, userID string, kind assessment.Kind) (*assessment.Assessment, error)
	Submit(ctx context.Context, userID string, kind assessment.Kind, answers assessment.Answers) (*assessment.Assessment, error)
	ReportURL(ctx context.Context, kind assessment.Kind, assessmentID string) (string, error)
}

// Recommender runs the kind's recommendation function.
type Recommender interface {
	ComputeRecommendations(ctx context.Context, kind assessment.Kind, assessmentID string, answers assessment.Answers) ([]assessment.Recommendation, error)
}

// Navigator moves the user to another page.
type Navigator interface {
	Navigate(route string, params map[string]string)
}

// Notifier shows a non-fatal message.
type Notifier interface {
	Notify(msg string)
}
