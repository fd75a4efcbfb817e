package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/smehub/internal/api"
	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestTimeout = 12 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.MarketplaceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

// accessTokenInterceptor attaches the access token and, when the server
// reports it expired, rotates the token pair once and retries the call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.tokens()
	if access != "" {
		ctx = withAccessToken(ctx, access)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewMarketplaceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, email, password, accountType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.Register(ctx, &api.RegisterRequest{Email: email, Password: password, AccountType: accountType})
	if err != nil {
		return "", mapError(err)
	}
	return resp.UserID, nil
}

// InitiateSignIn checks the credentials and triggers passcode dispatch. It
// returns how long the server will refuse a resend.
func (s *GRPCClient) InitiateSignIn(ctx context.Context, email, password string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.InitiateSignIn(ctx, &api.SignInRequest{Email: email, Password: password})
	if err != nil {
		return 0, mapError(err)
	}
	return time.Duration(resp.ResendAfterSeconds) * time.Second, nil
}

func (s *GRPCClient) ResendOTP(ctx context.Context, email string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.ResendOTP(ctx, &api.ResendOTPRequest{Email: email})
	if err != nil {
		return 0, mapError(err)
	}
	return time.Duration(resp.ResendAfterSeconds) * time.Second, nil
}

// VerifyOTP exchanges the passcode for a token pair, which is kept for
// subsequent calls.
func (s *GRPCClient) VerifyOTP(ctx context.Context, email, code string) (*api.User, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.VerifyOTP(ctx, &api.VerifyOTPRequest{Email: email, Code: code})
	if err != nil {
		return nil, mapError(err)
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return &resp.User, nil
}

func (s *GRPCClient) Logout() {
	s.setTokens("", "")
}

// LatestAssessment returns common.ErrorNotFound when the user has none.
func (s *GRPCClient) LatestAssessment(ctx context.Context, kind assessment.Kind) (*assessment.Assessment, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.LatestAssessment(ctx, &api.LatestAssessmentRequest{Kind: kind})
	if err != nil {
		return nil, mapError(err)
	}
	if !resp.Found || resp.Assessment == nil {
		return nil, common.ErrorNotFound
	}
	return resp.Assessment, nil
}

func (s *GRPCClient) SubmitAssessment(ctx context.Context, kind assessment.Kind, answers assessment.Answers) (*assessment.Assessment, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.SubmitAssessment(ctx, &api.SubmitAssessmentRequest{Kind: kind, Answers: answers})
	if err != nil {
		return nil, mapError(err)
	}
	if resp.Assessment == nil {
		return nil, errors.New("empty submit response")
	}
	return resp.Assessment, nil
}

func (s *GRPCClient) Recommendations(ctx context.Context, kind assessment.Kind, assessmentID string, answers assessment.Answers) ([]assessment.Recommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.Recommendations(ctx, &api.RecommendationsRequest{Kind: kind, AssessmentID: assessmentID, Answers: answers})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Recommendations, nil
}

func (s *GRPCClient) ReportURL(ctx context.Context, kind assessment.Kind, assessmentID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.ReportURL(ctx, &api.ReportURLRequest{Kind: kind, AssessmentID: assessmentID})
	if err != nil {
		return "", mapError(err)
	}
	return resp.URL, nil
}
