package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/smehub/internal/client/client"
	"github.com/dmitrijs2005/smehub/internal/client/flows"
	"github.com/dmitrijs2005/smehub/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignIn_OTPThenDashboard(t *testing.T) {
	stubPassword(t, "secret1")
	ta := newTestApp(t, "jane@x.com")
	ctx := context.Background()

	require.NoError(t, ta.open(ctx, flows.RouteSignIn, nil))
	assert.Equal(t, "signin:otp resend in 30s", ta.currentPage().Name())
	assert.Equal(t, ModeOnline, ta.Mode())
	assert.Contains(t, ta.buf.String(), "A 6-digit code was sent to jane@x.com")
	assert.Equal(t, "otp <code>, resend, change", ta.pageHelp())

	handled, err := ta.dispatch(ctx, "otp", []string{"123456"})
	require.True(t, handled)
	require.NoError(t, err)
	assert.Equal(t, "123456", ta.auth.verifyCode)

	ta.followNavigation(ctx)
	assert.Equal(t, "dashboard", ta.currentPage().Name())
	assert.Contains(t, ta.buf.String(), "Signed in as jane@x.com (sme)")
}

func TestSignIn_OTPPromptsWhenCodeMissing(t *testing.T) {
	stubPassword(t, "secret1")
	ta := newTestApp(t, "jane@x.com", "654321")
	ctx := context.Background()
	require.NoError(t, ta.open(ctx, flows.RouteSignIn, nil))

	_, err := ta.dispatch(ctx, "otp", nil)
	require.NoError(t, err)
	assert.Equal(t, "654321", ta.auth.verifyCode)
}

func TestSignIn_WrongCodeStaysOnPage(t *testing.T) {
	stubPassword(t, "secret1")
	ta := newTestApp(t, "jane@x.com")
	ta.auth.verifyErr = errors.New("Token has expired or is invalid")
	ctx := context.Background()
	require.NoError(t, ta.open(ctx, flows.RouteSignIn, nil))

	_, err := ta.dispatch(ctx, "otp", []string{"000000"})
	assert.EqualError(t, err, "Token has expired or is invalid")

	ta.followNavigation(ctx)
	assert.Equal(t, "signin:otp resend in 30s", ta.currentPage().Name())
}

func TestSignIn_ResendDuringCooldown(t *testing.T) {
	stubPassword(t, "secret1")
	ta := newTestApp(t, "jane@x.com")
	ctx := context.Background()
	require.NoError(t, ta.open(ctx, flows.RouteSignIn, nil))

	_, err := ta.dispatch(ctx, "resend", nil)
	assert.EqualError(t, err, "you can request a new code in 30 seconds")
	assert.Zero(t, ta.auth.resendCalls)
}

func TestSignIn_ChangeEmail(t *testing.T) {
	stubPassword(t, "secret1")
	ta := newTestApp(t, "jane@x.com", "john@x.com")
	ctx := context.Background()
	require.NoError(t, ta.open(ctx, flows.RouteSignIn, nil))

	_, err := ta.dispatch(ctx, "change", nil)
	require.NoError(t, err)
	assert.Equal(t, "john@x.com", ta.auth.signInEmail)
	assert.Contains(t, ta.buf.String(), "A 6-digit code was sent to john@x.com")
}

func TestSignIn_Offline(t *testing.T) {
	stubPassword(t, "secret1")
	ta := newTestApp(t, "jane@x.com")
	ta.auth.signInRes = session.SignInResult{Offline: true}
	ctx := context.Background()

	require.NoError(t, ta.open(ctx, flows.RouteSignIn, nil))
	assert.Equal(t, ModeOffline, ta.Mode())
	assert.Contains(t, ta.buf.String(), "Server unavailable, signed in offline")

	ta.followNavigation(ctx)
	assert.Equal(t, "dashboard", ta.currentPage().Name())
}

func TestSignIn_NoOfflineData(t *testing.T) {
	stubPassword(t, "secret1")
	ta := newTestApp(t, "jane@x.com")
	ta.auth.signInErr = client.NewError(client.ErrLocalDataNotAvailable, "no offline data")

	err := ta.open(context.Background(), flows.RouteSignIn, nil)
	assert.ErrorIs(t, err, client.ErrLocalDataNotAvailable)
	assert.Equal(t, ModeDisabled, ta.Mode())
	assert.Equal(t, "retry", ta.pageHelp())
}

func TestSignIn_ValidationErrorThenRetry(t *testing.T) {
	stubPassword(t, "secret1")
	ta := newTestApp(t, "not-an-email", "jane@x.com")
	ctx := context.Background()

	err := ta.open(ctx, flows.RouteSignIn, nil)
	require.ErrorIs(t, err, flows.ErrValidation)
	assert.Empty(t, ta.auth.signInEmail)

	_, err = ta.dispatch(ctx, "retry", nil)
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", ta.auth.signInEmail)
}
