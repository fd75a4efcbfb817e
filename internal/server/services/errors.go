package services

import (
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/smehub/internal/common"
)

// CooldownError is returned when a passcode is requested again before the
// resend cooldown has elapsed. It matches common.ErrResendTooSoon.
type CooldownError struct {
	Remaining time.Duration
}

// Seconds is the remaining wait rounded up to whole seconds.
func (e *CooldownError) Seconds() int {
	return int(math.Ceil(e.Remaining.Seconds()))
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("For security purposes, you can only request this after %d seconds", e.Seconds())
}

func (e *CooldownError) Unwrap() error { return common.ErrResendTooSoon }
