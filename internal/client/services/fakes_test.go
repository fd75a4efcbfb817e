package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/smehub/internal/api"
	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/client/client"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client for unit tests.
type fakeClient struct {
	CloseErr error
	PingErr  error

	RegisterErr error

	SignInErr error
	ResendErr error

	VerifyRet *api.User
	VerifyErr error

	LatestRet *assessment.Assessment
	LatestErr error

	SubmitRet *assessment.Assessment
	SubmitErr error

	RecsRet []assessment.Recommendation
	RecsErr error

	ReportURLRet string
	ReportURLErr error

	LoggedOut bool

	LastEmail       string
	LastPassword    string
	LastAccountType string
	LastCode        string
	LastKind        assessment.Kind
	LatestCalls     int
	SignInCalls     int
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error { return f.CloseErr }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Register(ctx context.Context, email, password, accountType string) (string, error) {
	f.LastEmail, f.LastPassword, f.LastAccountType = email, password, accountType
	return "u-new", f.RegisterErr
}

func (f *fakeClient) InitiateSignIn(ctx context.Context, email, password string) (time.Duration, error) {
	f.SignInCalls++
	f.LastEmail, f.LastPassword = email, password
	return 30 * time.Second, f.SignInErr
}

func (f *fakeClient) ResendOTP(ctx context.Context, email string) (time.Duration, error) {
	f.LastEmail = email
	return 30 * time.Second, f.ResendErr
}

func (f *fakeClient) VerifyOTP(ctx context.Context, email, code string) (*api.User, error) {
	f.LastEmail, f.LastCode = email, code
	return f.VerifyRet, f.VerifyErr
}

func (f *fakeClient) Logout() { f.LoggedOut = true }

func (f *fakeClient) LatestAssessment(ctx context.Context, kind assessment.Kind) (*assessment.Assessment, error) {
	f.LatestCalls++
	f.LastKind = kind
	return f.LatestRet, f.LatestErr
}

func (f *fakeClient) SubmitAssessment(ctx context.Context, kind assessment.Kind, answers assessment.Answers) (*assessment.Assessment, error) {
	f.LastKind = kind
	return f.SubmitRet, f.SubmitErr
}

func (f *fakeClient) Recommendations(ctx context.Context, kind assessment.Kind, assessmentID string, answers assessment.Answers) ([]assessment.Recommendation, error) {
	f.LastKind = kind
	return f.RecsRet, f.RecsErr
}

func (f *fakeClient) ReportURL(ctx context.Context, kind assessment.Kind, assessmentID string) (string, error) {
	f.LastKind = kind
	return f.ReportURLRet, f.ReportURLErr
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func unavailable() error {
	return client.NewError(client.ErrUnavailable, "Server is unavailable, please try again later")
}
