package cli

import (
	"context"
	"fmt"

	"github.com/q42jaap/opvault/internal/randx"
)

// Login prompts for the account secret and opens a session.
func (a *App) Login(ctx context.Context) error {
	secret, err := GetSecret(fmt.Sprintf("Secret for %s", a.config.AccountID), a.out)
	if err != nil {
		fmt.Fprintln(a.out, "input error:", err)
		return err
	}
	defer randx.WipeByteArray(secret)

	if err := a.client.Login(ctx, a.config.AccountID, string(secret)); err != nil {
		fmt.Fprintln(a.out, "login failed:", err)
		return err
	}

	fmt.Fprintln(a.out, "Logged in.")
	return nil
}

// Logout drops the session token.
func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
