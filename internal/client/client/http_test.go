package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/client/models"
	"github.com/dmitrijs2005/promptmanager/internal/common"
	"github.com/dmitrijs2005/promptmanager/internal/logging"
	"github.com/stretchr/testify/require"
)

/*************
 * Fake backend
 *************/

type fakeBackend struct {
	lastMethod    string
	lastPath      string
	lastBody      map[string]any
	lastRequestID string

	status int
	reply  string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.lastMethod = r.Method
	f.lastPath = r.URL.Path
	f.lastRequestID = r.Header.Get(common.RequestIDHeader)
	f.lastBody = nil
	if b, _ := io.ReadAll(r.Body); len(b) > 0 {
		_ = json.Unmarshal(b, &f.lastBody)
	}

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, f.reply)
}

func newTestClient(t *testing.T, f *fakeBackend) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	c, err := NewHTTPClient(srv.URL+"/", 0, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

const aliceJSON = `{"id":1,"username":"alice","email":"alice@example.com","display_name":"Alice"}`

/*************
 * Constructor
 *************/

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient("localhost:5000", time.Second, logging.Discard())
	require.Error(t, err)

	_, err = NewHTTPClient("://", time.Second, logging.Discard())
	require.Error(t, err)
}

/*************
 * Login / Register
 *************/

func TestLogin_Success(t *testing.T) {
	f := &fakeBackend{reply: `{"success":true,"data":` + aliceJSON + `,"message":"ok"}`}
	c := newTestClient(t, f)

	id, err := c.Login(context.Background(), "alice", []byte("secret123"))
	require.NoError(t, err)
	require.Equal(t, &models.Identity{ID: 1, Username: "alice", Email: "alice@example.com", DisplayName: "Alice"}, id)

	require.Equal(t, http.MethodPost, f.lastMethod)
	require.Equal(t, "/users/login", f.lastPath)
	require.Equal(t, "alice", f.lastBody["username_or_email"])
	require.Equal(t, "secret123", f.lastBody["password"])
	require.NotEmpty(t, f.lastRequestID)
}

func TestLogin_Rejected(t *testing.T) {
	f := &fakeBackend{status: http.StatusUnauthorized, reply: `{"success":false,"error":"INVALID_CREDENTIALS","message":"bad credentials"}`}
	c := newTestClient(t, f)

	_, err := c.Login(context.Background(), "alice", []byte("wrong"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
	require.EqualError(t, err, "bad credentials")
}

func TestRegister_SendsAllFields(t *testing.T) {
	f := &fakeBackend{status: http.StatusCreated, reply: `{"success":true,"data":` + aliceJSON + `}`}
	c := newTestClient(t, f)

	id, err := c.Register(context.Background(), models.Registration{
		Username: "alice", Email: "alice@example.com", Password: []byte("secret123"), DisplayName: "Alice",
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, id.ID)

	require.Equal(t, "/users/", f.lastPath)
	require.Equal(t, "alice", f.lastBody["username"])
	require.Equal(t, "alice@example.com", f.lastBody["email"])
	require.Equal(t, "secret123", f.lastBody["password"])
	require.Equal(t, "Alice", f.lastBody["display_name"])
}

/*************
 * UpdateUser / ChangePassword
 *************/

func TestUpdateUser_SendsOnlySetFields(t *testing.T) {
	f := &fakeBackend{reply: `{"success":true,"data":{"id":1,"username":"alice","display_name":"Al"}}`}
	c := newTestClient(t, f)

	name := "Al"
	id, err := c.UpdateUser(context.Background(), 1, models.ProfileUpdate{DisplayName: &name})
	require.NoError(t, err)
	require.Equal(t, "Al", id.DisplayName)

	require.Equal(t, http.MethodPut, f.lastMethod)
	require.Equal(t, "/users/1", f.lastPath)
	require.Equal(t, map[string]any{"display_name": "Al"}, f.lastBody)
}

func TestChangePassword_NoPayloadExpected(t *testing.T) {
	f := &fakeBackend{reply: `{"success":true,"message":"password changed"}`}
	c := newTestClient(t, f)

	require.NoError(t, c.ChangePassword(context.Background(), 42, []byte("old-pass"), []byte("new-pass")))
	require.Equal(t, "/users/42/change-password", f.lastPath)
	require.Equal(t, "old-pass", f.lastBody["old_password"])
	require.Equal(t, "new-pass", f.lastBody["new_password"])
}

/*************
 * Transport / decoding failures
 *************/

func TestPing(t *testing.T) {
	f := &fakeBackend{reply: `{"success":true,"data":{"status":"ok"}}`}
	c := newTestClient(t, f)

	require.NoError(t, c.Ping(context.Background()))
	require.Equal(t, http.MethodGet, f.lastMethod)
	require.Equal(t, "/health", f.lastPath)
}

func TestDo_ServerDown_ReturnsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url, time.Second, logging.Discard())
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "alice", []byte("x"))
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_NonJSONBody_ReturnsBadResponse(t *testing.T) {
	f := &fakeBackend{status: http.StatusBadGateway, reply: `<html>bad gateway</html>`}
	c := newTestClient(t, f)

	_, err := c.Login(context.Background(), "alice", []byte("x"))
	require.ErrorIs(t, err, ErrBadResponse)
}

func TestDo_SuccessWithoutData_ReturnsBadResponse(t *testing.T) {
	f := &fakeBackend{reply: `{"success":true,"data":null}`}
	c := newTestClient(t, f)

	_, err := c.Login(context.Background(), "alice", []byte("x"))
	require.ErrorIs(t, err, ErrBadResponse)
}

func TestDo_CancelledContext(t *testing.T) {
	f := &fakeBackend{reply: `{"success":true}`}
	c := newTestClient(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Ping(ctx)
	require.True(t, errors.Is(err, ErrUnavailable))
}
