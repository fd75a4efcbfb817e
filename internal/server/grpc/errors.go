package grpc

import (
	"errors"

	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/dmitrijs2005/smehub/internal/server/recommend"
	"github.com/dmitrijs2005/smehub/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// User-facing messages. The client shows them verbatim.
const (
	MsgInvalidCredentials = "Invalid login credentials"
	MsgInvalidOTP         = "Token has expired or is invalid"
	MsgOTPLocked          = "Too many attempts. Try again later"
	MsgAlreadyRegistered  = "User already registered"
	MsgNotFound           = "Not found"
	MsgInternal           = "Something went wrong, please try again"
)

// toStatus converts a service error into a gRPC status error.
func toStatus(err error) error {
	var cooldown *services.CooldownError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &cooldown):
		return status.Error(codes.ResourceExhausted, cooldown.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, MsgInvalidCredentials)
	case errors.Is(err, common.ErrOTPInvalid), errors.Is(err, common.ErrOTPExpired):
		return status.Error(codes.Unauthenticated, MsgInvalidOTP)
	case errors.Is(err, common.ErrOTPLocked):
		return status.Error(codes.ResourceExhausted, MsgOTPLocked)
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, MsgAlreadyRegistered)
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, MsgNotFound)
	case errors.Is(err, recommend.ErrUnknownFunction):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, MsgInternal)
	}
}
