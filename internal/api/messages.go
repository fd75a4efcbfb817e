package api

import (
	"github.com/dmitrijs2005/smehub/internal/assessment"
)

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	AccountType string `json:"account_type"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	OTPRequired        bool  `json:"otp_required"`
	ResendAfterSeconds int32 `json:"resend_after_seconds"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	AccountType string `json:"account_type"`
}

type VerifyOTPResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

type ResendOTPResponse struct {
	ResendAfterSeconds int32 `json:"resend_after_seconds"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type LatestAssessmentRequest struct {
	Kind assessment.Kind `json:"kind"`
}

type LatestAssessmentResponse struct {
	Found      bool                   `json:"found"`
	Assessment *assessment.Assessment `json:"assessment,omitempty"`
}

type SubmitAssessmentRequest struct {
	Kind    assessment.Kind    `json:"kind"`
	Answers assessment.Answers `json:"answers"`
}

type SubmitAssessmentResponse struct {
	Assessment *assessment.Assessment `json:"assessment"`
}

type RecommendationsRequest struct {
	Kind         assessment.Kind    `json:"kind"`
	AssessmentID string             `json:"assessment_id"`
	Answers      assessment.Answers `json:"answers"`
}

type RecommendationsResponse struct {
	Recommendations []assessment.Recommendation `json:"recommendations"`
}

type ReportURLRequest struct {
	Kind         assessment.Kind `json:"kind"`
	AssessmentID string          `json:"assessment_id"`
}

type ReportURLResponse struct {
	URL string `json:"url"`
}
