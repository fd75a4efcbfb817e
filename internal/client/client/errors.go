package client

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/smehub/internal/common"
)

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrRateLimited           = errors.New("rate limited")
	ErrAlreadyExists         = errors.New("already exists")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrRemote                = errors.New("remote error")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)

// Error carries a user-facing message next to the sentinel callers match
// on. Error() is the message alone, so it can be shown verbatim.
type Error struct {
	Code    codes.Code
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a local *Error, for failures that never reached the server.
func NewError(err error, msg string) *Error {
	return &Error{Code: codes.Unknown, Message: msg, Err: err}
}

// mapError converts a gRPC status into an *Error whose sentinel depends on
// the status code. Transport failures get a fixed message; everything else
// keeps the server's message.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return &Error{Code: codes.Unknown, Message: err.Error(), Err: ErrRemote}
	}

	out := &Error{Code: st.Code(), Message: st.Message()}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		out.Err = ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		out.Err = ErrUnavailable
		out.Message = "Server is unavailable, please try again later"
	case codes.ResourceExhausted:
		out.Err = ErrRateLimited
	case codes.AlreadyExists:
		out.Err = ErrAlreadyExists
	case codes.InvalidArgument:
		out.Err = ErrInvalidArgument
	case codes.NotFound:
		out.Err = common.ErrorNotFound
	default:
		out.Err = ErrRemote
	}
	return out
}
