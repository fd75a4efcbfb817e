package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/smehub/internal/api"
	"github.com/dmitrijs2005/smehub/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	u, err := s.users.Register(ctx, req.Email, req.Password, req.AccountType)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.RegisterResponse{UserID: u.ID}, nil
}

func (s *GRPCServer) InitiateSignIn(ctx context.Context, req *api.SignInRequest) (*api.SignInResponse, error) {
	res, err := s.users.InitiateSignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.SignInResponse{OTPRequired: true, ResendAfterSeconds: int32(res.ResendAfter.Seconds())}, nil
}

func (s *GRPCServer) ResendOTP(ctx context.Context, req *api.ResendOTPRequest) (*api.ResendOTPResponse, error) {
	res, err := s.users.ResendOTP(ctx, req.Email)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ResendOTPResponse{ResendAfterSeconds: int32(res.ResendAfter.Seconds())}, nil
}

func (s *GRPCServer) VerifyOTP(ctx context.Context, req *api.VerifyOTPRequest) (*api.VerifyOTPResponse, error) {
	res, err := s.users.VerifyOTP(ctx, req.Email, req.Code)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.VerifyOTPResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         api.User{ID: res.User.ID, Email: res.User.Email, AccountType: res.User.AccountType},
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {
	pair, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
		}
		return nil, toStatus(err)
	}
	return &api.RefreshTokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) LatestAssessment(ctx context.Context, req *api.LatestAssessmentRequest) (*api.LatestAssessmentResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.assessments.Latest(ctx, userID, req.Kind)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &api.LatestAssessmentResponse{Found: false}, nil
		}
		return nil, toStatus(err)
	}
	return &api.LatestAssessmentResponse{Found: true, Assessment: a}, nil
}

func (s *GRPCServer) SubmitAssessment(ctx context.Context, req *api.SubmitAssessmentRequest) (*api.SubmitAssessmentResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.assessments.Submit(ctx, userID, req.Kind, req.Answers)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.SubmitAssessmentResponse{Assessment: a}, nil
}

func (s *GRPCServer) Recommendations(ctx context.Context, req *api.RecommendationsRequest) (*api.RecommendationsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := s.assessments.Recommendations(ctx, userID, req.Kind, req.AssessmentID, req.Answers)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.RecommendationsResponse{Recommendations: recs}, nil
}

func (s *GRPCServer) ReportURL(ctx context.Context, req *api.ReportURLRequest) (*api.ReportURLResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	url, err := s.assessments.ReportURL(ctx, userID, req.Kind, req.AssessmentID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ReportURLResponse{URL: url}, nil
}
