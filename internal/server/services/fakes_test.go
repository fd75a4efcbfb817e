package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/dmitrijs2005/smehub/internal/dbx"
	"github.com/dmitrijs2005/smehub/internal/server/models"
	assessmentsrepo "github.com/dmitrijs2005/smehub/internal/server/repositories/assessments"
	otprepo "github.com/dmitrijs2005/smehub/internal/server/repositories/otp"
	refreshtokensrepo "github.com/dmitrijs2005/smehub/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/smehub/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	getErr  error

	createErr error
	created   *models.User
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-new"
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

// --- otp ---

type fakeOTPRepo struct {
	challenges map[string]*models.OTPChallenge
	getErr     error
	upsertErr  error
	consumeErr error
	upserts    int
}

func (f *fakeOTPRepo) Upsert(_ context.Context, c *models.OTPChallenge) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.challenges == nil {
		f.challenges = map[string]*models.OTPChallenge{}
	}
	f.upserts++
	c.ID = "c-" + c.Email
	c.Attempts = 0
	if prev, ok := f.challenges[c.Email]; ok && prev.ConsumedAt == nil && prev.ExpiresAt.After(c.LastSentAt) {
		c.Attempts = prev.Attempts
	}
	c.ConsumedAt = nil
	cp := *c
	f.challenges[c.Email] = &cp
	return nil
}

func (f *fakeOTPRepo) GetByEmail(_ context.Context, email string) (*models.OTPChallenge, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.challenges[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeOTPRepo) find(id string) *models.OTPChallenge {
	for _, c := range f.challenges {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f *fakeOTPRepo) IncrementAttempts(_ context.Context, id string) (int, error) {
	c := f.find(id)
	if c == nil {
		return 0, common.ErrorNotFound
	}
	c.Attempts++
	return c.Attempts, nil
}

func (f *fakeOTPRepo) Consume(_ context.Context, id string, at time.Time) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	c := f.find(id)
	if c == nil || c.ConsumedAt != nil {
		return common.ErrorNotFound
	}
	c.ConsumedAt = &at
	return nil
}

// --- refresh tokens ---

type fakeRefreshRepo struct {
	findOut   *models.RefreshToken
	findErr   error
	delErr    error
	createErr error
	created   []string
	deleted   []string
}

func (f *fakeRefreshRepo) Create(_ context.Context, userID string, token string, validity time.Duration) (*models.RefreshToken, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, token)
	return &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}, nil
}

func (f *fakeRefreshRepo) Find(context.Context, string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}

// --- assessments ---

type fakeAssessmentsRepo struct {
	rows      map[string]*assessment.Assessment
	latestErr error
	insertErr error
}

func (f *fakeAssessmentsRepo) Latest(_ context.Context, kind assessment.Kind, userID string) (*assessment.Assessment, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	var best *assessment.Assessment
	for _, a := range f.rows {
		if a.Kind == kind && a.OwnerID == userID && (best == nil || a.CompletedAt.After(best.CompletedAt)) {
			best = a
		}
	}
	if best == nil {
		return nil, common.ErrorNotFound
	}
	return best, nil
}

func (f *fakeAssessmentsRepo) Get(_ context.Context, kind assessment.Kind, id string) (*assessment.Assessment, error) {
	a, ok := f.rows[id]
	if !ok || a.Kind != kind {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (f *fakeAssessmentsRepo) Insert(_ context.Context, a *assessment.Assessment) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.rows == nil {
		f.rows = map[string]*assessment.Assessment{}
	}
	a.ID = "00000000-0000-0000-0000-00000000000" + string(rune('0'+len(f.rows)))
	a.CompletedAt = time.Now()
	f.rows[a.ID] = a
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	o *fakeOTPRepo
	a *fakeAssessmentsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) OTP(dbx.DBTX) otprepo.Repository                     { return m.o }
func (m *fakeRepoManager) Assessments(dbx.DBTX) assessmentsrepo.Repository     { return m.a }

// --- collaborators ---

type fakeMailer struct {
	err   error
	codes []string
}

func (m *fakeMailer) SendOTP(_ context.Context, _ string, code string, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.codes = append(m.codes, code)
	return nil
}

type fakeReportStore struct {
	putErr     error
	presignErr error
	puts       map[string][]byte
	lastKey    string
}

func (s *fakeReportStore) Put(_ context.Context, key string, data []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	if s.puts == nil {
		s.puts = map[string][]byte{}
	}
	s.puts[key] = data
	return nil
}

func (s *fakeReportStore) PresignGet(_ context.Context, key string) (string, error) {
	s.lastKey = key
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://s3.local/" + key + "?sig=1", nil
}
