// Package otp stores one-time passcode challenges, one per email address.
package otp

import (
	"context"
	"time"

	"github.com/dmitrijs2005/smehub/internal/server/models"
)

type Repository interface {
	// Upsert creates the challenge for c.Email or rotates the existing one.
	// Failed attempts carry over while the previous challenge is unconsumed
	// and unexpired; otherwise they start from zero. ID and Attempts are
	// filled in.
	Upsert(ctx context.Context, c *models.OTPChallenge) error

	// GetByEmail returns the challenge for email or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.OTPChallenge, error)

	// IncrementAttempts records a wrong code and returns the new count.
	IncrementAttempts(ctx context.Context, id string) (int, error)

	// Consume marks the challenge as redeemed. A challenge that was already
	// consumed yields common.ErrorNotFound.
	Consume(ctx context.Context, id string, at time.Time) error
}
