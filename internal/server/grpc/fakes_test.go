package grpc

import (
	"context"

	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/server/models"
	"github.com/dmitrijs2005/smehub/internal/server/services"
)

type fakeUsers struct {
	regResp *models.User
	regErr  error

	signInResp *services.SignInResult
	signInErr  error

	resendResp *services.SignInResult
	resendErr  error

	verifyResp *services.VerifyResult
	verifyErr  error

	refreshResp *services.TokenPair
	refreshErr  error

	lastEmail, lastPassword, lastCode string
}

func (f *fakeUsers) Register(_ context.Context, email, password, _ string) (*models.User, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.regResp, f.regErr
}

func (f *fakeUsers) InitiateSignIn(_ context.Context, email, password string) (*services.SignInResult, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.signInResp, f.signInErr
}

func (f *fakeUsers) ResendOTP(_ context.Context, email string) (*services.SignInResult, error) {
	f.lastEmail = email
	return f.resendResp, f.resendErr
}

func (f *fakeUsers) VerifyOTP(_ context.Context, email, code string) (*services.VerifyResult, error) {
	f.lastEmail, f.lastCode = email, code
	return f.verifyResp, f.verifyErr
}

func (f *fakeUsers) RefreshToken(context.Context, string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}

type fakeAssessments struct {
	latest    *assessment.Assessment
	latestErr error

	submitted *assessment.Assessment
	submitErr error

	recs    assessment.Recommendations
	recsErr error

	url    string
	urlErr error

	lastUserID string
	lastKind   assessment.Kind
}

func (f *fakeAssessments) Latest(_ context.Context, userID string, kind assessment.Kind) (*assessment.Assessment, error) {
	f.lastUserID, f.lastKind = userID, kind
	return f.latest, f.latestErr
}

func (f *fakeAssessments) Submit(_ context.Context, userID string, kind assessment.Kind, answers assessment.Answers) (*assessment.Assessment, error) {
	f.lastUserID, f.lastKind = userID, kind
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	out := &assessment.Assessment{ID: "a-1", OwnerID: userID, Kind: kind, Answers: answers}
	f.submitted = out
	return out, nil
}

func (f *fakeAssessments) Recommendations(_ context.Context, userID string, kind assessment.Kind, _ string, _ assessment.Answers) (assessment.Recommendations, error) {
	f.lastUserID, f.lastKind = userID, kind
	return f.recs, f.recsErr
}

func (f *fakeAssessments) ReportURL(_ context.Context, userID string, kind assessment.Kind, _ string) (string, error) {
	f.lastUserID, f.lastKind = userID, kind
	return f.url, f.urlErr
}
