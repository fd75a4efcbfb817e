package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/client/config"
	"github.com/dmitrijs2005/smehub/internal/client/flows"
	"github.com/dmitrijs2005/smehub/internal/client/session"
	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/dmitrijs2005/smehub/internal/logging"
)

type fakeAuth struct {
	sessions *session.Store

	mu sync.Mutex

	regEmail, regPass, regType string
	regErr                     error

	signInEmail, signInPass string
	signInRes               session.SignInResult
	signInErr               error

	verifyCode string
	verifyErr  error

	resendCalls int
	resendErr   error

	pingErr   error
	pingCalls int

	logoutCalled bool
	logoutErr    error
}

func (f *fakeAuth) InitiateSignIn(_ context.Context, email, password string) (session.SignInResult, error) {
	f.signInEmail, f.signInPass = email, password
	if f.signInErr == nil && f.signInRes.Offline {
		f.sessions.Set(session.Session{UserID: "u1", Email: email, AccountType: "sme", Offline: true})
	}
	return f.signInRes, f.signInErr
}

func (f *fakeAuth) VerifyOTP(_ context.Context, email, code string) error {
	f.verifyCode = code
	if f.verifyErr == nil {
		f.sessions.Set(session.Session{UserID: "u1", Email: email, AccountType: "sme"})
	}
	return f.verifyErr
}

func (f *fakeAuth) ResendOTP(context.Context, string) error {
	f.resendCalls++
	return f.resendErr
}

func (f *fakeAuth) Register(_ context.Context, email, password, accountType string) error {
	f.regEmail, f.regPass, f.regType = email, password, accountType
	return f.regErr
}

func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingCalls++
	return f.pingErr
}

func (f *fakeAuth) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	if f.logoutErr == nil {
		f.sessions.Clear()
	}
	return f.logoutErr
}

func (f *fakeAuth) Close(context.Context) error { return nil }

type fakeAssess struct {
	latest    *assessment.Assessment
	latestErr error

	submitted  assessment.Answers
	submitRet  *assessment.Assessment
	submitErr  error
	submitKind assessment.Kind

	recs []assessment.Recommendation

	reportURL    string
	downloadURL  string
	downloadName string
	downloadDir  string
	downloadPath string
	downloadErr  error
}

func (f *fakeAssess) FetchLatestCompleted(context.Context, string, assessment.Kind) (*assessment.Assessment, error) {
	if f.latest == nil && f.latestErr == nil {
		return nil, common.ErrorNotFound
	}
	return f.latest, f.latestErr
}

func (f *fakeAssess) Submit(_ context.Context, _ string, kind assessment.Kind, answers assessment.Answers) (*assessment.Assessment, error) {
	f.submitKind, f.submitted = kind, answers
	return f.submitRet, f.submitErr
}

func (f *fakeAssess) ComputeRecommendations(context.Context, assessment.Kind, string, assessment.Answers) ([]assessment.Recommendation, error) {
	return f.recs, nil
}

func (f *fakeAssess) ReportURL(context.Context, assessment.Kind, string) (string, error) {
	return f.reportURL, nil
}

func (f *fakeAssess) DownloadReport(_ context.Context, url, fileName, dir string) (string, error) {
	f.downloadURL, f.downloadName, f.downloadDir = url, fileName, dir
	return f.downloadPath, f.downloadErr
}

// manualTicker never fires; the sign-in countdown stays where it started.
type manualTicker struct{ ch chan time.Time }

func (t manualTicker) C() <-chan time.Time { return t.ch }
func (t manualTicker) Stop()               {}

type testApp struct {
	*App
	auth   *fakeAuth
	assess *fakeAssess
	buf    *bytes.Buffer
}

// newTestApp builds an App whose stdin is the given lines.
func newTestApp(t *testing.T, lines ...string) *testApp {
	t.Helper()
	sessions := session.NewStore()
	fa := &fakeAuth{sessions: sessions}
	fs := &fakeAssess{}
	out := &bytes.Buffer{}
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))

	cfg := &config.Config{}
	cfg.LoadDefaults()

	app := newApp(cfg, logging.Nop{}, fa, fs, sessions, in, out)
	app.authFlowOpts = []flows.AuthOption{
		flows.WithTicker(func(time.Duration) flows.Ticker { return manualTicker{ch: make(chan time.Time)} }),
	}
	t.Cleanup(app.closePage)
	return &testApp{App: app, auth: fa, assess: fs, buf: out}
}

func (ta *testApp) signIn(t *testing.T) {
	t.Helper()
	ta.sessions.Set(session.Session{UserID: "u1", Email: "jane@x.com", AccountType: "sme"})
}

// stubPassword makes getPassword return pw without touching the terminal.
func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func silenceREPL(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}
