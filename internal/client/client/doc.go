// Package client talks to the marketplace backend and bootstraps the local
// SQLite cache.
//
// # Overview
//
//  1. Client is the transport-agnostic contract used by the client services:
//     Register, InitiateSignIn, ResendOTP, VerifyOTP, Ping and the
//     assessment calls.
//  2. GRPCClient implements it over the JSON-coded gRPC service in
//     internal/api. An interceptor attaches the access token and refreshes
//     the token pair once when the server answers "token expired".
//  3. InitDatabase and RunMigrations open the SQLite cache and apply the
//     embedded goose migrations.
//
// # Error Handling
//
// Server failures come back as *Error: Error() is the message the server
// sent (safe to show to the user) and errors.Is matches one of
// ErrUnauthorized, ErrUnavailable, ErrRateLimited, ErrAlreadyExists,
// ErrInvalidArgument, common.ErrorNotFound or ErrRemote.
package client
