package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "smehub.api.Marketplace"

// Full method names, as seen by interceptors.
const (
	MethodRegister         = "/" + ServiceName + "/Register"
	MethodInitiateSignIn   = "/" + ServiceName + "/InitiateSignIn"
	MethodVerifyOTP        = "/" + ServiceName + "/VerifyOTP"
	MethodResendOTP        = "/" + ServiceName + "/ResendOTP"
	MethodRefreshToken     = "/" + ServiceName + "/RefreshToken"
	MethodPing             = "/" + ServiceName + "/Ping"
	MethodLatestAssessment = "/" + ServiceName + "/LatestAssessment"
	MethodSubmitAssessment = "/" + ServiceName + "/SubmitAssessment"
	MethodRecommendations  = "/" + ServiceName + "/Recommendations"
	MethodReportURL        = "/" + ServiceName + "/ReportURL"
)

// MarketplaceServer is implemented by the server's gRPC handler.
type MarketplaceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	InitiateSignIn(context.Context, *SignInRequest) (*SignInResponse, error)
	VerifyOTP(context.Context, *VerifyOTPRequest) (*VerifyOTPResponse, error)
	ResendOTP(context.Context, *ResendOTPRequest) (*ResendOTPResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	LatestAssessment(context.Context, *LatestAssessmentRequest) (*LatestAssessmentResponse, error)
	SubmitAssessment(context.Context, *SubmitAssessmentRequest) (*SubmitAssessmentResponse, error)
	Recommendations(context.Context, *RecommendationsRequest) (*RecommendationsResponse, error)
	ReportURL(context.Context, *ReportURLRequest) (*ReportURLResponse, error)
}

// RegisterMarketplaceServer attaches srv to s.
func RegisterMarketplaceServer(s grpc.ServiceRegistrar, srv MarketplaceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary[Req any, Resp any](fullMethod string, call func(MarketplaceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MarketplaceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MarketplaceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the Marketplace service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MarketplaceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(MethodRegister, MarketplaceServer.Register)},
		{MethodName: "InitiateSignIn", Handler: unary(MethodInitiateSignIn, MarketplaceServer.InitiateSignIn)},
		{MethodName: "VerifyOTP", Handler: unary(MethodVerifyOTP, MarketplaceServer.VerifyOTP)},
		{MethodName: "ResendOTP", Handler: unary(MethodResendOTP, MarketplaceServer.ResendOTP)},
		{MethodName: "RefreshToken", Handler: unary(MethodRefreshToken, MarketplaceServer.RefreshToken)},
		{MethodName: "Ping", Handler: unary(MethodPing, MarketplaceServer.Ping)},
		{MethodName: "LatestAssessment", Handler: unary(MethodLatestAssessment, MarketplaceServer.LatestAssessment)},
		{MethodName: "SubmitAssessment", Handler: unary(MethodSubmitAssessment, MarketplaceServer.SubmitAssessment)},
		{MethodName: "Recommendations", Handler: unary(MethodRecommendations, MarketplaceServer.Recommendations)},
		{MethodName: "ReportURL", Handler: unary(MethodReportURL, MarketplaceServer.ReportURL)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "smehub/api",
}

// MarketplaceClient is the typed client side of the service.
type MarketplaceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	InitiateSignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*SignInResponse, error)
	VerifyOTP(ctx context.Context, in *VerifyOTPRequest, opts ...grpc.CallOption) (*VerifyOTPResponse, error)
	ResendOTP(ctx context.Context, in *ResendOTPRequest, opts ...grpc.CallOption) (*ResendOTPResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	LatestAssessment(ctx context.Context, in *LatestAssessmentRequest, opts ...grpc.CallOption) (*LatestAssessmentResponse, error)
	SubmitAssessment(ctx context.Context, in *SubmitAssessmentRequest, opts ...grpc.CallOption) (*SubmitAssessmentResponse, error)
	Recommendations(ctx context.Context, in *RecommendationsRequest, opts ...grpc.CallOption) (*RecommendationsResponse, error)
	ReportURL(ctx context.Context, in *ReportURLRequest, opts ...grpc.CallOption) (*ReportURLResponse, error)
}

type marketplaceClient struct {
	cc grpc.ClientConnInterface
}

// NewMarketplaceClient returns a client that always uses the JSON codec.
func NewMarketplaceClient(cc grpc.ClientConnInterface) MarketplaceClient {
	return &marketplaceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *marketplaceClient) InitiateSignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*SignInResponse, error) {
	return invoke[SignInResponse](ctx, c.cc, MethodInitiateSignIn, in, opts)
}

func (c *marketplaceClient) VerifyOTP(ctx context.Context, in *VerifyOTPRequest, opts ...grpc.CallOption) (*VerifyOTPResponse, error) {
	return invoke[VerifyOTPResponse](ctx, c.cc, MethodVerifyOTP, in, opts)
}

func (c *marketplaceClient) ResendOTP(ctx context.Context, in *ResendOTPRequest, opts ...grpc.CallOption) (*ResendOTPResponse, error) {
	return invoke[ResendOTPResponse](ctx, c.cc, MethodResendOTP, in, opts)
}

func (c *marketplaceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *marketplaceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *marketplaceClient) LatestAssessment(ctx context.Context, in *LatestAssessmentRequest, opts ...grpc.CallOption) (*LatestAssessmentResponse, error) {
	return invoke[LatestAssessmentResponse](ctx, c.cc, MethodLatestAssessment, in, opts)
}

func (c *marketplaceClient) SubmitAssessment(ctx context.Context, in *SubmitAssessmentRequest, opts ...grpc.CallOption) (*SubmitAssessmentResponse, error) {
	return invoke[SubmitAssessmentResponse](ctx, c.cc, MethodSubmitAssessment, in, opts)
}

func (c *marketplaceClient) Recommendations(ctx context.Context, in *RecommendationsRequest, opts ...grpc.CallOption) (*RecommendationsResponse, error) {
	return invoke[RecommendationsResponse](ctx, c.cc, MethodRecommendations, in, opts)
}

func (c *marketplaceClient) ReportURL(ctx context.Context, in *ReportURLRequest, opts ...grpc.CallOption) (*ReportURLResponse, error) {
	return invoke[ReportURLResponse](ctx, c.cc, MethodReportURL, in, opts)
}
