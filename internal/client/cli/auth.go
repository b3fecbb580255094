package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophsnap/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates the account. The new
// account starts with the welcome balance reported back by the server.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	realName, err := getSimpleText(a.reader, "Enter real name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	u, err := a.client.Register(ctx, email, userName, realName, string(password))
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Registered %s, balance %d\n", u.Username, u.Balance)
	return nil
}

// Login prompts for a username or email plus password. Input containing '@'
// is sent as the email.
func (a *App) Login(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	var userName, email string
	if strings.Contains(id, "@") {
		email = id
	} else {
		userName = id
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	s, err := a.client.Login(ctx, userName, email, string(password))
	if err != nil {
		return a.report(err)
	}

	a.setUser(s.User.Username)
	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Welcome, %s! Balance %d\n", s.User.Username, s.User.Balance)
	return nil
}

// Logout ends the session. Local state is cleared even when the server
// cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	defer a.setUser("")

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Logout(ctx); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Me prints the current account.
func (a *App) Me(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	u, err := a.client.Me(ctx)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "%s <%s> (%s)\n", u.Username, u.Email, u.RealName)
	fmt.Fprintf(a.out, "status:     %s\n", u.Status)
	fmt.Fprintf(a.out, "balance:    %d\n", u.Balance)
	fmt.Fprintf(a.out, "created:    %s\n", u.CreatedAt)
	if u.LastLogin != "" {
		fmt.Fprintf(a.out, "last login: %s\n", u.LastLogin)
	}
	return nil
}
