package flows

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/dmitrijs2005/smehub/internal/logging"
	"github.com/go-playground/validator/v10"
)

// DefaultResendCooldown is the number of seconds before a passcode can be
// requested again.
const DefaultResendCooldown = 30

type AuthStep string

const (
	StepCredentials AuthStep = "credentials"
	StepOTP         AuthStep = "otp"
	StepDone        AuthStep = "done"
)

// PendingVerification exists while the user is on the passcode step.
type PendingVerification struct {
	Email             string
	IssuedAt          time.Time
	CooldownRemaining int
}

// AuthState is a snapshot of an AuthFlow.
type AuthState struct {
	Step        AuthStep
	Pending     *PendingVerification
	Code        string
	Error       string
	FieldErrors FieldErrors
	Busy        bool
}

// CooldownRemaining is zero outside the passcode step.
func (s AuthState) CooldownRemaining() int {
	if s.Pending == nil {
		return 0
	}
	return s.Pending.CooldownRemaining
}

type AuthOption func(*AuthFlow)

// WithTicker replaces the ticker driving the resend countdown.
func WithTicker(f TickerFactory) AuthOption {
	return func(a *AuthFlow) { a.newTicker = f }
}

// WithResendCooldown sets the cooldown in seconds.
func WithResendCooldown(seconds int) AuthOption {
	return func(a *AuthFlow) { a.cooldown = seconds }
}

var validate = validator.New()

// AuthFlow drives the sign-in page: credentials, then passcode.
type AuthFlow struct {
	auth      AuthService
	nav       Navigator
	log       logging.Logger
	newTicker TickerFactory
	now       func() time.Time
	cooldown  int

	mu        sync.Mutex
	step      AuthStep
	pending   *PendingVerification
	code      string
	errMsg    string
	fieldErrs FieldErrors
	signingIn bool
	verifying bool
	resending bool
	gen       uint64
	closed    bool
	countdown *Countdown
}

func NewAuthFlow(auth AuthService, nav Navigator, log logging.Logger, opts ...AuthOption) *AuthFlow {
	f := &AuthFlow{
		auth:      auth,
		nav:       nav,
		log:       log.With("module", "authflow"),
		newTicker: NewTimeTicker,
		now:       time.Now,
		cooldown:  DefaultResendCooldown,
		step:      StepCredentials,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// State returns a copy of the current state.
func (f *AuthFlow) State() AuthState {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := AuthState{
		Step:        f.step,
		Code:        f.code,
		Error:       f.errMsg,
		FieldErrors: f.fieldErrs.clone(),
		Busy:        f.signingIn || f.verifying || f.resending,
	}
	if f.pending != nil {
		p := *f.pending
		s.Pending = &p
	}
	return s
}

// SubmitCredentials validates the credentials locally and asks the auth
// service to start sign-in. The password is not retained.
func (f *AuthFlow) SubmitCredentials(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrStale
	}
	if f.step != StepCredentials {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if f.signingIn {
		f.mu.Unlock()
		return ErrBusy
	}
	if errs := validateCredentials(email, password); errs != nil {
		f.fieldErrs = errs
		f.errMsg = ""
		f.mu.Unlock()
		return errs
	}
	f.fieldErrs = nil
	f.errMsg = ""
	f.signingIn = true
	gen := f.gen
	f.mu.Unlock()

	res, err := f.auth.InitiateSignIn(ctx, email, password)

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return ErrStale
	}
	f.signingIn = false

	if err != nil {
		f.errMsg = err.Error()
		f.mu.Unlock()
		f.log.Info(ctx, "sign-in rejected", "error", err)
		return err
	}

	if res.Offline {
		f.step = StepDone
		f.mu.Unlock()
		f.log.Info(ctx, "signed in offline")
		f.nav.Navigate(RouteDashboard, nil)
		return nil
	}

	f.step = StepOTP
	f.code = ""
	f.pending = &PendingVerification{
		Email:             email,
		IssuedAt:          f.now(),
		CooldownRemaining: f.cooldown,
	}
	old := f.restartCountdownLocked()
	f.mu.Unlock()

	old.Cancel()
	f.log.Debug(ctx, "passcode dispatched")
	return nil
}

// SubmitOTP verifies the passcode. Codes shorter than the passcode length
// are rejected without calling the auth service.
func (f *AuthFlow) SubmitOTP(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrStale
	}
	if f.step != StepOTP {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if f.verifying {
		f.mu.Unlock()
		return ErrBusy
	}
	if utf8.RuneCountInString(code) < common.OTPLength {
		errs := FieldErrors{"code": MsgCodeTooShort}
		f.fieldErrs = errs
		f.mu.Unlock()
		return errs
	}
	f.code = code
	f.fieldErrs = nil
	f.errMsg = ""
	f.verifying = true
	gen := f.gen
	email := f.pending.Email
	f.mu.Unlock()

	err := f.auth.VerifyOTP(ctx, email, code)

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return ErrStale
	}
	f.verifying = false

	if err != nil {
		f.errMsg = err.Error()
		f.mu.Unlock()
		f.log.Info(ctx, "passcode rejected", "error", err)
		return err
	}

	f.step = StepDone
	f.pending = nil
	f.code = ""
	f.errMsg = ""
	old := f.countdown
	f.countdown = nil
	f.mu.Unlock()

	old.Cancel()
	f.nav.Navigate(RouteDashboard, nil)
	return nil
}

// Resend requests a new passcode once the cooldown has run out.
func (f *AuthFlow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrStale
	}
	if f.step != StepOTP {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if f.pending.CooldownRemaining > 0 {
		f.mu.Unlock()
		return ErrCooldownActive
	}
	if f.resending {
		f.mu.Unlock()
		return ErrBusy
	}
	f.errMsg = ""
	f.resending = true
	gen := f.gen
	email := f.pending.Email
	f.mu.Unlock()

	err := f.auth.ResendOTP(ctx, email)

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return ErrStale
	}
	f.resending = false

	if err != nil {
		f.errMsg = err.Error()
		f.mu.Unlock()
		f.log.Info(ctx, "resend rejected", "error", err)
		return err
	}

	// VerifyOTP may have finished while the resend was in flight.
	if f.step != StepOTP {
		f.mu.Unlock()
		return nil
	}

	f.pending.IssuedAt = f.now()
	f.pending.CooldownRemaining = f.cooldown
	old := f.restartCountdownLocked()
	f.mu.Unlock()

	old.Cancel()
	return nil
}

// UseDifferentEmail returns to the credentials step and forgets the
// pending verification. Results of calls still in flight are discarded.
func (f *AuthFlow) UseDifferentEmail() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.gen++
	f.step = StepCredentials
	f.pending = nil
	f.code = ""
	f.errMsg = ""
	f.fieldErrs = nil
	f.signingIn, f.verifying, f.resending = false, false, false
	old := f.countdown
	f.countdown = nil
	f.mu.Unlock()

	old.Cancel()
}

// Close tears the flow down. It is idempotent.
func (f *AuthFlow) Close() {
	f.mu.Lock()
	f.closed = true
	f.gen++
	old := f.countdown
	f.countdown = nil
	f.mu.Unlock()

	old.Cancel()
}

// restartCountdownLocked starts a fresh countdown and returns the previous
// one, which the caller cancels after releasing f.mu.
func (f *AuthFlow) restartCountdownLocked() *Countdown {
	old := f.countdown
	cd := newCountdown()
	f.countdown = cd
	cd.start(f.newTicker, func() bool { return f.tick(cd) })
	return old
}

func (f *AuthFlow) tick(cd *Countdown) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.countdown != cd || f.pending == nil {
		return false
	}
	if f.pending.CooldownRemaining > 0 {
		f.pending.CooldownRemaining--
	}
	if f.pending.CooldownRemaining == 0 {
		f.countdown = nil
		return false
	}
	return true
}

func validateCredentials(email, password string) FieldErrors {
	errs := FieldErrors{}
	if validate.Var(email, "required,email") != nil {
		errs["email"] = MsgInvalidEmail
	}
	if validate.Var(password, "min=6") != nil {
		errs["password"] = MsgPasswordTooShort
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
