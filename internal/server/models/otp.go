package models

import "time"

// OTPChallenge is the pending one-time passcode for an email address.
// Only a sha256 hash of the code is kept. Attempts survive code rotation
// until the challenge is consumed or expires.
type OTPChallenge struct {
	ID         string
	UserID     string
	Email      string
	CodeHash   []byte
	Attempts   int
	ExpiresAt  time.Time
	LastSentAt time.Time
	ConsumedAt *time.Time
}

// Expired reports whether the challenge was consumed or ran out before now.
func (c *OTPChallenge) Expired(now time.Time) bool {
	return c.ConsumedAt != nil || !now.Before(c.ExpiresAt)
}

// Locked reports whether too many wrong codes were entered.
func (c *OTPChallenge) Locked(maxAttempts int) bool {
	return c.Attempts >= maxAttempts
}

// ResendAfter returns how long the caller has to wait before another code
// may be sent, or 0 if a resend is allowed now.
func (c *OTPChallenge) ResendAfter(now time.Time, cooldown time.Duration) time.Duration {
	wait := c.LastSentAt.Add(cooldown).Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}
