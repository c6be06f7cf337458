package services

import (
	"errors"

	"github.com/dmitrijs2005/promptmanager/internal/client/client"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrSuperseded  = errors.New("superseded by a newer session change")
)

// OperationError is the failure outcome of a session operation. Error()
// is the human-readable message shown to the user.
type OperationError struct {
	Op      string
	Message string
	Err     error
}

func (e *OperationError) Error() string { return e.Message }

func (e *OperationError) Unwrap() error { return e.Err }

// failure turns a transport or server error into an OperationError, using the
// server's message when it sent one.
func failure(op, fallback string, err error) *OperationError {
	msg := fallback
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return &OperationError{Op: op, Message: msg, Err: err}
}
