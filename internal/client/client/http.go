package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/client/models"
	"github.com/dmitrijs2005/promptmanager/internal/common"
	"github.com/dmitrijs2005/promptmanager/internal/logging"
	"github.com/google/uuid"
)

const maxResponseSize = 1 << 20

type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// NewHTTPClient builds a client for the backend at baseURL. A zero timeout
// leaves requests bounded only by their context.
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("module", "api_client"),
	}, nil
}

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (c *HTTPClient) Login(ctx context.Context, identifier string, password []byte) (*models.Identity, error) {
	req := loginRequest{UsernameOrEmail: identifier, Password: string(password)}
	identity := &models.Identity{}
	if err := c.do(ctx, http.MethodPost, "/users/login", req, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

func (c *HTTPClient) Register(ctx context.Context, r models.Registration) (*models.Identity, error) {
	req := registerRequest{
		Username:    r.Username,
		Email:       r.Email,
		Password:    string(r.Password),
		DisplayName: r.DisplayName,
	}
	identity := &models.Identity{}
	if err := c.do(ctx, http.MethodPost, "/users/", req, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id int64, u models.ProfileUpdate) (*models.Identity, error) {
	identity := &models.Identity{}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), u, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword []byte) error {
	req := changePasswordRequest{OldPassword: string(oldPassword), NewPassword: string(newPassword)}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/change-password", id), req, nil)
}

// Ping checks that the backend answers its health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	c.logger.Debug(ctx, "request done", "method", method, "path", path, "request_id", requestID, "status", resp.StatusCode)

	return decodeEnvelope(resp.StatusCode, raw, out)
}
