package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/promptmanager/internal/server/services"
)

// Error codes carried in the envelope's "error" field.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountDisabled    = "ACCOUNT_DISABLED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidOldPassword = "INVALID_OLD_PASSWORD"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Success: false, Error: code, Message: message})
}

// serviceErrors maps service sentinels to status and code. The message is
// the error text itself.
var serviceErrors = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrUsernameExists, http.StatusBadRequest, CodeUsernameExists},
	{services.ErrEmailExists, http.StatusBadRequest, CodeEmailExists},
	{services.ErrPasswordTooShort, http.StatusBadRequest, CodePasswordTooShort},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{services.ErrAccountDisabled, http.StatusForbidden, CodeAccountDisabled},
	{services.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound},
	{services.ErrInvalidOldPassword, http.StatusBadRequest, CodeInvalidOldPassword},
	{services.ErrInvalidPreferences, http.StatusBadRequest, CodeInvalidRequest},
}

// classify reports the status and code for err; ok is false for errors
// that are not part of the service contract.
func classify(err error) (status int, code string, ok bool) {
	for _, se := range serviceErrors {
		if errors.Is(err, se.err) {
			return se.status, se.code, true
		}
	}
	return http.StatusInternalServerError, CodeInternalError, false
}
