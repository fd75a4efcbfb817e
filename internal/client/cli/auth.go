package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/client/flows"
	"github.com/dmitrijs2005/smehub/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, a password and an account type and creates
// the account. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	kinds := make([]string, 0, 4)
	for _, s := range assessment.All() {
		kinds = append(kinds, string(s.Kind))
	}
	accountType, err := GetChoice(a.reader, "Account type", kinds, "", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Register(ctx, email, string(password), accountType); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created. Use 'signin' to continue.")
	return nil
}

// SignIn opens the sign-in page.
func (a *App) SignIn(ctx context.Context) error {
	a.Navigate(flows.RouteSignIn, nil)
	return nil
}

// Logout forgets the session and clears the offline cache.
func (a *App) Logout(ctx context.Context) error {
	a.closePage()
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}
