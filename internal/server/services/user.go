// Package services contains server-side business logic. This file implements
// UserService: registration, password plus one-time passcode sign-in, and
// issuing/refreshing JWTs backed by server-stored refresh tokens.
package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/dmitrijs2005/smehub/internal/dbx"
	"github.com/dmitrijs2005/smehub/internal/logging"
	"github.com/dmitrijs2005/smehub/internal/observability"
	"github.com/dmitrijs2005/smehub/internal/server/auth"
	"github.com/dmitrijs2005/smehub/internal/server/config"
	"github.com/dmitrijs2005/smehub/internal/server/models"
	"github.com/dmitrijs2005/smehub/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SignInResult tells the caller that a passcode went out and when the next
// one may be requested.
type SignInResult struct {
	ResendAfter time.Duration
}

// VerifyResult is returned after a passcode was accepted.
type VerifyResult struct {
	Tokens *TokenPair
	User   *models.User
}

type registerInput struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=6"`
	AccountType string `validate:"required,oneof=sme donor investor professional"`
}

// generateOTP is a seam for tests.
var generateOTP = func() (string, error) {
	return common.MakeRandDigits(common.OTPLength)
}

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt evaluation.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("smehub-dummy-password"), bcrypt.DefaultCost)

// UserService provides authentication-related operations.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	mailer                       Mailer
	log                          logging.Logger
	validate                     *validator.Validate
	now                          func() time.Time
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	otpValidity                  time.Duration
	otpResendCooldown            time.Duration
	otpMaxAttempts               int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, mailer Mailer, log logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		mailer:                       mailer,
		log:                          log.With("module", "users"),
		validate:                     validator.New(validator.WithRequiredStructEnabled()),
		now:                          time.Now,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		otpValidity:                  cfg.OTPValidityDuration,
		otpResendCooldown:            cfg.OTPResendCooldown,
		otpMaxAttempts:               cfg.OTPMaxAttempts,
	}
}

// Register creates a new account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, email, password, accountType string) (*models.User, error) {
	in := registerInput{Email: normalizeEmail(email), Password: password, AccountType: accountType}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrorValidation, describeValidation(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Email: in.Email, PasswordHash: hash, AccountType: accountType}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	s.log.Info(ctx, "user registered", "user_id", u.ID, "account_type", u.AccountType)
	return u, nil
}

// InitiateSignIn checks the password and dispatches a passcode. Unknown
// email and wrong password both yield common.ErrorUnauthorized. A request
// inside the resend cooldown yields *CooldownError.
func (s *UserService) InitiateSignIn(ctx context.Context, email, password string) (res *SignInResult, err error) {
	defer func() { observability.RecordOTPEvent(observability.OTPDispatch, err) }()

	email = normalizeEmail(email)
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	if err := s.checkCooldown(ctx, email); err != nil {
		return nil, err
	}
	if err := s.dispatch(ctx, user.ID, email); err != nil {
		return nil, err
	}
	return &SignInResult{ResendAfter: s.otpResendCooldown}, nil
}

// ResendOTP rotates the pending passcode for email.
func (s *UserService) ResendOTP(ctx context.Context, email string) (res *SignInResult, err error) {
	defer func() { observability.RecordOTPEvent(observability.OTPResend, err) }()

	email = normalizeEmail(email)
	ch, err := s.repomanager.OTP(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrOTPExpired
		}
		return nil, fmt.Errorf("error loading challenge: %w", err)
	}
	if ch.ConsumedAt != nil {
		return nil, common.ErrOTPExpired
	}
	now := s.now()
	if !ch.Expired(now) && ch.Locked(s.otpMaxAttempts) {
		return nil, common.ErrOTPLocked
	}
	if wait := ch.ResendAfter(now, s.otpResendCooldown); wait > 0 {
		return nil, &CooldownError{Remaining: wait}
	}
	if err := s.dispatch(ctx, ch.UserID, email); err != nil {
		return nil, err
	}
	return &SignInResult{ResendAfter: s.otpResendCooldown}, nil
}

// VerifyOTP redeems a passcode. On success the challenge is consumed and a
// fresh token pair is minted in the same transaction.
func (s *UserService) VerifyOTP(ctx context.Context, email, code string) (res *VerifyResult, err error) {
	defer func() { observability.RecordOTPEvent(observability.OTPVerify, err) }()

	email = normalizeEmail(email)
	otpRepo := s.repomanager.OTP(s.db)

	ch, err := otpRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrOTPInvalid
		}
		return nil, fmt.Errorf("error loading challenge: %w", err)
	}

	now := s.now()
	switch {
	case ch.Expired(now):
		return nil, common.ErrOTPExpired
	case ch.Locked(s.otpMaxAttempts):
		return nil, common.ErrOTPLocked
	}

	sum := sha256.Sum256([]byte(code))
	if subtle.ConstantTimeCompare(sum[:], ch.CodeHash) != 1 {
		attempts, err := otpRepo.IncrementAttempts(ctx, ch.ID)
		if err != nil {
			return nil, fmt.Errorf("error recording attempt: %w", err)
		}
		if attempts >= s.otpMaxAttempts {
			s.log.Warn(ctx, "otp challenge locked", "email", email, "attempts", attempts)
			return nil, common.ErrOTPLocked
		}
		return nil, common.ErrOTPInvalid
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.OTP(tx).Consume(ctx, ch.ID, now); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrOTPExpired
			}
			return fmt.Errorf("error consuming challenge: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, ch.UserID)
		if err != nil {
			return fmt.Errorf("error loading user: %w", err)
		}
		pair, err := s.generateTokenPair(ctx, user, tx)
		if err != nil {
			return err
		}
		res = &VerifyResult{Tokens: pair, User: user}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user signed in", "user_id", res.User.ID)
	return res, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		if _, err := repoTx.DeleteExpired(ctx, token.UserID, s.now()); err != nil {
			return fmt.Errorf("error pruning refresh tokens: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return fmt.Errorf("error loading user: %w", err)
		}
		pair, err = s.generateTokenPair(ctx, user, tx)
		return err
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// --- helpers below ---

func (s *UserService) checkCooldown(ctx context.Context, email string) error {
	ch, err := s.repomanager.OTP(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return fmt.Errorf("error loading challenge: %w", err)
	}
	now := s.now()
	if ch.Expired(now) {
		return nil
	}
	if ch.Locked(s.otpMaxAttempts) {
		return common.ErrOTPLocked
	}
	if wait := ch.ResendAfter(now, s.otpResendCooldown); wait > 0 {
		return &CooldownError{Remaining: wait}
	}
	return nil
}

func (s *UserService) dispatch(ctx context.Context, userID, email string) error {
	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("error generating otp: %w", err)
	}
	sum := sha256.Sum256([]byte(code))
	now := s.now()

	ch := &models.OTPChallenge{
		UserID:     userID,
		Email:      email,
		CodeHash:   sum[:],
		ExpiresAt:  now.Add(s.otpValidity),
		LastSentAt: now,
	}
	if err := s.repomanager.OTP(s.db).Upsert(ctx, ch); err != nil {
		return fmt.Errorf("error storing challenge: %w", err)
	}
	if err := s.mailer.SendOTP(ctx, email, code, s.otpValidity); err != nil {
		return fmt.Errorf("error sending otp: %w", err)
	}
	s.log.Debug(ctx, "otp dispatched", "email", email, "challenge_id", ch.ID)
	return nil
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(auth.Identity{UserID: user.ID, AccountType: user.AccountType},
		s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if _, err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
