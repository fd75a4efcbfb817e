package flows

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrBusy              = errors.New("request already in progress")
	ErrCooldownActive    = errors.New("resend is not available yet")
	ErrInvalidTransition = errors.New("action not available in the current state")
	ErrNotAuthenticated  = errors.New("sign in required")
	ErrStale             = errors.New("flow is no longer active")
	ErrAlreadyMounted    = errors.New("flow already mounted")
)

// Field messages shown next to the offending input.
const (
	MsgInvalidEmail     = "Please enter a valid email address"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgCodeTooShort     = "Please enter the 6-digit code"
)

// FieldErrors maps an input name to its message. It matches ErrValidation
// with errors.Is.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e[k])
	}
	return strings.Join(msgs, "; ")
}

func (e FieldErrors) Unwrap() error {
	return ErrValidation
}

func (e FieldErrors) clone() FieldErrors {
	if e == nil {
		return nil
	}
	c := make(FieldErrors, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}
