package services

import "errors"

// Domain failures of the users service. The HTTP layer maps each to an
// error code; anything else is an internal error.
var (
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidOldPassword = errors.New("old password is incorrect")
	ErrInvalidPreferences = errors.New("invalid preferences")
)
