package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the wire shape shared by every backend response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// decodeEnvelope turns a raw response body into either out (on success) or
// an error. out may be nil for operations that return no payload.
func decodeEnvelope(status int, body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: status %d: %v", ErrBadResponse, status, err)
	}

	if !env.Success {
		return &APIError{Status: status, Code: env.Error, Message: env.Message}
	}

	if out == nil {
		return nil
	}

	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return fmt.Errorf("%w: missing data", ErrBadResponse)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	return nil
}
