package cli

import (
	"bytes"
	"context"
	"errors"

	"github.com/dmitrijs2005/promptmanager/internal/client/guard"
	"github.com/dmitrijs2005/promptmanager/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errEmptyField       = errors.New("all fields are required")
)

// Login asks for credentials and signs in. Signed-in users are sent to the
// dashboard instead.
func (a *App) Login(ctx context.Context) error {
	return a.guarded(ctx, guard.Public, a.loginView)
}

func (a *App) loginView(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Username or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if identifier == "" || len(password) == 0 {
		a.fail(errEmptyField)
		return errEmptyField
	}

	id, err := a.session.Login(ctx, identifier, password)
	if err != nil {
		a.fail(err)
		return err
	}

	a.success("Welcome back, %s!", id.Name())
	return nil
}

// Register creates an account and signs in with it.
func (a *App) Register(ctx context.Context) error {
	return a.guarded(ctx, guard.Public, a.registerView)
}

func (a *App) registerView(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	displayName, err := getSimpleText(a.reader, "Display name (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := a.readNewPassword("Password")
	if err != nil {
		a.fail(err)
		return err
	}
	defer common.WipeByteArray(password)

	if username == "" || email == "" {
		a.fail(errEmptyField)
		return errEmptyField
	}

	id, err := a.session.Register(ctx, username, email, password, displayName)
	if err != nil {
		a.fail(err)
		return err
	}

	a.success("Account created. Welcome, %s!", id.Name())
	return nil
}

// Logout never fails and never contacts the server.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.muted("Logged out.")
	return nil
}

// ChangePassword asks for the current and a new password.
func (a *App) ChangePassword(ctx context.Context) error {
	return a.guarded(ctx, guard.Protected, a.changePasswordView)
}

func (a *App) changePasswordView(ctx context.Context) error {
	oldPassword, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := a.readNewPassword("New password")
	if err != nil {
		a.fail(err)
		return err
	}
	defer common.WipeByteArray(newPassword)

	if err := a.session.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		a.fail(err)
		return err
	}

	a.success("Password changed.")
	return nil
}

// readNewPassword asks twice and returns the password when both match.
func (a *App) readNewPassword(prompt string) ([]byte, error) {
	first, err := getPassword(prompt, a.out)
	if err != nil {
		return nil, err
	}
	second, err := getPassword("Repeat "+prompt, a.out)
	if err != nil {
		common.WipeByteArray(first)
		return nil, err
	}
	defer common.WipeByteArray(second)

	if len(first) == 0 {
		common.WipeByteArray(first)
		return nil, errEmptyField
	}
	if !bytes.Equal(first, second) {
		common.WipeByteArray(first)
		return nil, errPasswordMismatch
	}
	return first, nil
}
