package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smehub/internal/client/client"
	"github.com/dmitrijs2005/smehub/internal/client/flows"
	"github.com/dmitrijs2005/smehub/internal/common"
)

// signinPage presents the AuthFlow.
type signinPage struct {
	app  *App
	flow *flows.AuthFlow
}

func (a *App) openSignIn(ctx context.Context) error {
	p := &signinPage{
		app:  a,
		flow: flows.NewAuthFlow(a.authService, a, a.log, a.authFlowOpts...),
	}
	a.setPage(p)
	return p.credentials(ctx)
}

func (p *signinPage) Name() string {
	st := p.flow.State()
	if st.Step == flows.StepOTP {
		if n := st.CooldownRemaining(); n > 0 {
			return fmt.Sprintf("signin:otp resend in %ds", n)
		}
		return "signin:otp"
	}
	return "signin"
}

func (p *signinPage) Help() string {
	if p.flow.State().Step == flows.StepOTP {
		return "otp <code>, resend, change"
	}
	return "retry"
}

func (p *signinPage) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	switch cmd {
	case "retry":
		return true, p.credentials(ctx)
	case "otp":
		code := ""
		if len(args) > 0 {
			code = args[0]
		} else {
			var err error
			if code, err = getSimpleText(p.app.reader, "Enter the 6-digit code", p.app.out); err != nil {
				return true, err
			}
		}
		return true, p.otp(ctx, code)
	case "resend":
		return true, p.resend(ctx)
	case "change":
		p.flow.UseDifferentEmail()
		return true, p.credentials(ctx)
	}
	return false, nil
}

func (p *signinPage) Close() {
	p.flow.Close()
}

func (p *signinPage) credentials(ctx context.Context) error {
	email, err := getSimpleText(p.app.reader, "Enter email", p.app.out)
	if err != nil {
		return err
	}
	password, err := getPassword(p.app.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = p.flow.SubmitCredentials(ctx, email, string(password))
	switch {
	case err == nil:
	case errors.Is(err, client.ErrLocalDataNotAvailable):
		p.app.setMode(ctx, ModeDisabled)
		return err
	default:
		return err
	}

	if st := p.flow.State(); st.Step == flows.StepOTP {
		fmt.Fprintf(p.app.out, "A 6-digit code was sent to %s. Enter it with: otp <code>\n", st.Pending.Email)
		p.app.setMode(ctx, ModeOnline)
	} else {
		p.app.setMode(ctx, ModeOffline)
		fmt.Fprintln(p.app.out, "Server unavailable, signed in offline")
	}
	return nil
}

func (p *signinPage) otp(ctx context.Context, code string) error {
	if err := p.flow.SubmitOTP(ctx, code); err != nil {
		return err
	}
	fmt.Fprintln(p.app.out, "Signed in")
	return nil
}

func (p *signinPage) resend(ctx context.Context) error {
	err := p.flow.Resend(ctx)
	if errors.Is(err, flows.ErrCooldownActive) {
		return fmt.Errorf("you can request a new code in %d seconds", p.flow.State().CooldownRemaining())
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(p.app.out, "A new code was sent")
	return nil
}
