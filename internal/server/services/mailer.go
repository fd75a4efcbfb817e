package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/smehub/internal/logging"
)

// Mailer delivers one-time passcodes to users.
type Mailer interface {
	SendOTP(ctx context.Context, email string, code string, ttl time.Duration) error
}

// LogMailer writes passcodes to the log instead of sending mail. It is the
// delivery channel for development deployments.
type LogMailer struct {
	log logging.Logger
}

func NewLogMailer(log logging.Logger) *LogMailer {
	return &LogMailer{log: log.With("component", "mailer")}
}

func (m *LogMailer) SendOTP(ctx context.Context, email string, code string, ttl time.Duration) error {
	m.log.Info(ctx, "one-time passcode issued", "email", email, "code", code, "ttl", ttl.String())
	return nil
}
