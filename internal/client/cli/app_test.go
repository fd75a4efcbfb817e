package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/smehub/internal/client/config"
	"github.com/dmitrijs2005/smehub/internal/client/session"
	"github.com/dmitrijs2005/smehub/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLoggedIn(t *testing.T) {
	ta := newTestApp(t)
	assert.False(t, ta.isLoggedIn())

	ta.signIn(t)
	assert.True(t, ta.isLoggedIn())
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	app := newApp(&config.Config{}, logging.New(logging.FormatJSON, &buf), &fakeAuth{}, &fakeAssess{},
		session.NewStore(), nil, &bytes.Buffer{})
	ctx := context.Background()

	app.setMode(ctx, ModeOnline)
	assert.Equal(t, ModeOnline, app.Mode())
	assert.Contains(t, buf.String(), `"mode":"online"`)

	buf.Reset()
	app.setMode(ctx, ModeOnline)
	assert.Empty(t, buf.String(), "no log when mode does not change")

	app.setMode(ctx, ModeOffline)
	assert.Equal(t, ModeOffline, app.Mode())
	assert.Contains(t, buf.String(), `"mode":"offline"`)
}

func TestGetStatus(t *testing.T) {
	ta := newTestApp(t)
	assert.Equal(t, "", ta.getStatus())

	ta.setMode(context.Background(), ModeOnline)
	assert.Equal(t, "(online)", ta.getStatus())

	ta.sessions.Set(session.Session{UserID: "u1", Email: "jane@x.com", Offline: true})
	assert.Equal(t, "(jane@x.com offline-session online)", ta.getStatus())

	ta.signIn(t)
	ta.setPage(&dashboardPage{})
	assert.Equal(t, "(dashboard jane@x.com online)", ta.getStatus())
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	ta := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		ta.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return ta.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)

	ta.auth.setPingErr(errors.New("unavailable"))
	require.Eventually(t, func() bool { return ta.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)

	ta.auth.setPingErr(nil)
	require.Eventually(t, func() bool { return ta.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_EndToEnd(t *testing.T) {
	lines := silenceREPL(t)
	stubPassword(t, "secret1")
	ta := newTestApp(t,
		"jane@x.com",
		"otp 123456",
		"assess sme",
		"start",
		"fintech",
		"growth",
		"250000",
		"finance, legal",
		"exit",
	)
	ta.assess.submitRet = sampleAssessment(t)

	require.NoError(t, ta.Run(context.Background()))

	assert.Equal(t, "jane@x.com", ta.auth.signInEmail)
	assert.Equal(t, "secret1", ta.auth.signInPass)
	assert.Equal(t, "123456", ta.auth.verifyCode)

	assert.Equal(t, "fintech", ta.assess.submitted.Text("sector"))
	assert.Equal(t, "growth", ta.assess.submitted.Text("stage"))
	n, ok := ta.assess.submitted.Number("funding_need")
	assert.True(t, ok)
	assert.Equal(t, 250000.0, n)
	assert.Equal(t, []string{"finance", "legal"}, ta.assess.submitted.Strings("skills_needed"))

	out := ta.buf.String()
	assert.Contains(t, out, "A 6-digit code was sent to jane@x.com")
	assert.Contains(t, out, "Signed in as jane@x.com (sme)")
	assert.Contains(t, out, "* Assessment completed")
	assert.Contains(t, strings.Join(*lines, "\n"), "Bye!")
	assert.Nil(t, ta.currentPage())
}
