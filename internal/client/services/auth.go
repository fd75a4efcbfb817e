// Package services contains the client-side collaborators the flows talk
// to. This file holds authentication: online sign-in with passcode
// verification, the offline fallback, registration and logout.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/smehub/internal/api"
	"github.com/dmitrijs2005/smehub/internal/client/client"
	"github.com/dmitrijs2005/smehub/internal/client/repositories/assessments"
	"github.com/dmitrijs2005/smehub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/smehub/internal/client/session"
	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/dmitrijs2005/smehub/internal/cryptox"
	"github.com/dmitrijs2005/smehub/internal/dbx"
	"github.com/dmitrijs2005/smehub/internal/logging"
)

// Metadata keys for the offline sign-in material.
const (
	keyEmail       = "email"
	keyUserID      = "user_id"
	keyAccountType = "account_type"
	keySalt        = "salt"
	keyVerifier    = "verifier"
)

const (
	msgInvalidCredentials = "Invalid login credentials"
	msgNoOfflineData      = "Server is unavailable and this account has not signed in on this device yet"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - InitiateSignIn: check credentials online (the server then sends a
//     passcode); when the server is unreachable, resolve the session from
//     the offline cache instead and report Offline.
//   - VerifyOTP: exchange the passcode for a session and refresh the
//     offline cache.
//   - ResendOTP: ask for a new passcode.
//   - Register, Ping, Logout, Close.
type AuthService interface {
	InitiateSignIn(ctx context.Context, email, password string) (session.SignInResult, error)
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
	Register(ctx context.Context, email, password, accountType string) error
	Ping(ctx context.Context) error
	Logout(ctx context.Context) error
	Close(ctx context.Context) error
}

// offlineMaterial is derived from the password during InitiateSignIn and
// persisted only once the passcode is verified.
type offlineMaterial struct {
	salt      []byte
	verifier  []byte
	masterKey []byte
}

type authService struct {
	client   client.Client
	db       *sql.DB
	sessions *session.Store
	log      logging.Logger

	mu      sync.Mutex
	pending map[string]*offlineMaterial
}

// NewAuthService constructs an AuthService bound to the API client, the
// local cache database and the session store.
func NewAuthService(c client.Client, db *sql.DB, sessions *session.Store, log logging.Logger) AuthService {
	return &authService{
		client:   c,
		db:       db,
		sessions: sessions,
		log:      log.With("module", "auth_service"),
		pending:  make(map[string]*offlineMaterial),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *authService) InitiateSignIn(ctx context.Context, email, password string) (session.SignInResult, error) {
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	_, err := a.client.InitiateSignIn(ctx, email, password)
	if err == nil {
		salt := common.GenerateRandByteArray(32)
		key := cryptox.DeriveMasterKey(pw, salt)
		a.setPending(email, &offlineMaterial{salt: salt, verifier: cryptox.MakeVerifier(key), masterKey: key})
		return session.SignInResult{}, nil
	}

	if !errors.Is(err, client.ErrUnavailable) {
		return session.SignInResult{}, err
	}

	a.log.Warn(ctx, "server unavailable, trying offline sign-in")
	if err := a.offlineSignIn(ctx, email, pw); err != nil {
		return session.SignInResult{}, err
	}
	a.log.Info(ctx, "offline sign-in successful")
	return session.SignInResult{Offline: true}, nil
}

// offlineSignIn derives the master key from the cached salt and compares
// its verifier with the cached one.
func (a *authService) offlineSignIn(ctx context.Context, email string, password []byte) error {
	meta, err := metadata.NewSQLiteRepository(a.db).List(ctx)
	if err != nil {
		return fmt.Errorf("offline sign-in: %w", err)
	}

	savedEmail, salt, verifier, userID := meta[keyEmail], meta[keySalt], meta[keyVerifier], meta[keyUserID]
	if savedEmail == nil || salt == nil || verifier == nil || userID == nil {
		return client.NewError(client.ErrLocalDataNotAvailable, msgNoOfflineData)
	}
	if string(savedEmail) != normalizeEmail(email) {
		return client.NewError(client.ErrLocalDataNotAvailable, msgNoOfflineData)
	}

	key := cryptox.DeriveMasterKey(password, salt)
	if subtle.ConstantTimeCompare(verifier, cryptox.MakeVerifier(key)) == 0 {
		common.WipeByteArray(key)
		return client.NewError(client.ErrUnauthorized, msgInvalidCredentials)
	}

	a.sessions.Set(session.Session{
		UserID:      string(userID),
		Email:       string(savedEmail),
		AccountType: string(meta[keyAccountType]),
		Offline:     true,
		MasterKey:   key,
	})
	return nil
}

func (a *authService) VerifyOTP(ctx context.Context, email, code string) error {
	u, err := a.client.VerifyOTP(ctx, email, code)
	if err != nil {
		return err
	}

	sess := session.Session{UserID: u.ID, Email: u.Email, AccountType: u.AccountType}
	if m := a.takePending(email); m != nil {
		sess.MasterKey = m.masterKey
		if err := a.saveOfflineData(ctx, u, m); err != nil {
			a.log.Warn(ctx, "offline data not saved", "error", err)
		}
	}
	a.sessions.Set(sess)
	return nil
}

// saveOfflineData persists what offline sign-in needs, in one transaction.
func (a *authService) saveOfflineData(ctx context.Context, u *api.User, m *offlineMaterial) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).SetMany(ctx, map[string][]byte{
			keyEmail:       []byte(normalizeEmail(u.Email)),
			keyUserID:      []byte(u.ID),
			keyAccountType: []byte(u.AccountType),
			keySalt:        m.salt,
			keyVerifier:    m.verifier,
		})
	})
}

func (a *authService) ResendOTP(ctx context.Context, email string) error {
	_, err := a.client.ResendOTP(ctx, email)
	return err
}

func (a *authService) Register(ctx context.Context, email, password, accountType string) error {
	if _, err := a.client.Register(ctx, email, password, accountType); err != nil {
		return err
	}
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Logout forgets the session and tokens and wipes the offline cache.
func (a *authService) Logout(ctx context.Context) error {
	a.client.Logout()
	a.sessions.Clear()

	a.mu.Lock()
	a.pending = make(map[string]*offlineMaterial)
	a.mu.Unlock()

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := metadata.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return assessments.NewSQLiteRepository(tx).Clear(ctx)
	})
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

func (a *authService) setPending(email string, m *offlineMaterial) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending[normalizeEmail(email)] = m
}

func (a *authService) takePending(email string) *offlineMaterial {
	a.mu.Lock()
	defer a.mu.Unlock()
	k := normalizeEmail(email)
	m := a.pending[k]
	delete(a.pending, k)
	return m
}
