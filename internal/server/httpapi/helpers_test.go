package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/logging"
	"github.com/dmitrijs2005/promptmanager/internal/server/models"
	"github.com/dmitrijs2005/promptmanager/internal/server/services"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	RegisterFn       func(ctx context.Context, in services.RegisterInput) (*models.User, error)
	LoginFn          func(ctx context.Context, identifier, password string) (*models.User, error)
	ListFn           func(ctx context.Context, filter models.UserFilter) (models.UserPage, error)
	UpdateProfileFn  func(ctx context.Context, id int64, changes models.ProfileChanges) (*models.User, error)
	ChangePasswordFn func(ctx context.Context, id int64, oldPassword, newPassword string) error
	GetFn            func(ctx context.Context, id int64) (*models.User, error)
	DeactivateFn     func(ctx context.Context, id int64) (*models.User, error)
	ActivateFn       func(ctx context.Context, id int64) (*models.User, error)
	PreferencesFn    func(ctx context.Context, id int64) (models.Preferences, error)
	UpdatePrefsFn    func(ctx context.Context, id int64, prefs models.Preferences) (models.Preferences, error)
	StatisticsFn     func(ctx context.Context, id int64) (models.UserStatistics, error)
}

func (f *fakeUserService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	return f.RegisterFn(ctx, in)
}

func (f *fakeUserService) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	return f.LoginFn(ctx, identifier, password)
}

func (f *fakeUserService) List(ctx context.Context, filter models.UserFilter) (models.UserPage, error) {
	return f.ListFn(ctx, filter)
}

func (f *fakeUserService) UpdateProfile(ctx context.Context, id int64, changes models.ProfileChanges) (*models.User, error) {
	return f.UpdateProfileFn(ctx, id, changes)
}

func (f *fakeUserService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	return f.ChangePasswordFn(ctx, id, oldPassword, newPassword)
}

func (f *fakeUserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return f.GetFn(ctx, id)
}

func (f *fakeUserService) Deactivate(ctx context.Context, id int64) (*models.User, error) {
	return f.DeactivateFn(ctx, id)
}

func (f *fakeUserService) Activate(ctx context.Context, id int64) (*models.User, error) {
	return f.ActivateFn(ctx, id)
}

func (f *fakeUserService) Preferences(ctx context.Context, id int64) (models.Preferences, error) {
	return f.PreferencesFn(ctx, id)
}

func (f *fakeUserService) UpdatePreferences(ctx context.Context, id int64, prefs models.Preferences) (models.Preferences, error) {
	return f.UpdatePrefsFn(ctx, id, prefs)
}

func (f *fakeUserService) Statistics(ctx context.Context, id int64) (models.UserStatistics, error) {
	return f.StatisticsFn(ctx, id)
}

func alice() *models.User {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &models.User{
		ID: 7, Username: "alice", Email: "alice@example.com", PasswordHash: "secret-hash",
		DisplayName: "Alice", Status: models.StatusActive, CreatedAt: created, UpdatedAt: created,
	}
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func newTestRouter(svc UserService) http.Handler {
	return NewRouter(RouterDeps{Users: svc, Logger: logging.Discard()})
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env testEnvelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}
