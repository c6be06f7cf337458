package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/promptmanager/internal/logging"
	"github.com/dmitrijs2005/promptmanager/internal/server/metrics"
	"github.com/dmitrijs2005/promptmanager/internal/server/models"
	"github.com/dmitrijs2005/promptmanager/internal/server/services"
	"github.com/go-chi/chi/v5"
)

const (
	maxBodySize        = 1 << 20
	maxDisplayNameLen  = 100
	maxAvatarURLLen    = 500
	defaultPage        = 1
	defaultPerPageList = 20
)

var errEmptyBody = errors.New("request body must not be empty")

// UserService is the part of services.UserService the handlers call.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) (models.UserPage, error)
	UpdateProfile(ctx context.Context, id int64, changes models.ProfileChanges) (*models.User, error)
	ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error
	Get(ctx context.Context, id int64) (*models.User, error)
	Deactivate(ctx context.Context, id int64) (*models.User, error)
	Activate(ctx context.Context, id int64) (*models.User, error)
	Preferences(ctx context.Context, id int64) (models.Preferences, error)
	UpdatePreferences(ctx context.Context, id int64, prefs models.Preferences) (models.Preferences, error)
	Statistics(ctx context.Context, id int64) (models.UserStatistics, error)
}

type UserHandler struct {
	service UserService
	logger  logging.Logger
	metrics metrics.Recorder
}

func NewUserHandler(service UserService, logger logging.Logger, rec metrics.Recorder) *UserHandler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &UserHandler{service: service, logger: logger.With("module", "users_api"), metrics: rec}
}

// decodeBody reads a JSON object from r into dst. An empty or non-object
// body is an error.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// fail writes the envelope for a service error. Unknown errors are logged
// and reported as INTERNAL_ERROR without their details.
func (h *UserHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code, ok := classify(err)
	if !ok {
		h.logger.Error(r.Context(), op+" failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, status, code, "internal server error")
		return
	}
	writeError(w, status, code, err.Error())
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// queryInt returns the named query parameter as an int, or def when it is
// absent or not a number.
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

// Register handles POST /users/.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	for _, f := range []struct{ name, value string }{
		{"username", req.Username},
		{"email", req.Email},
		{"password", req.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			writeError(w, http.StatusBadRequest, CodeInvalidRequest, "missing required field: "+f.name)
			return
		}
	}

	user, err := h.service.Register(r.Context(), services.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}

	h.metrics.RecordRegistration()
	writeSuccess(w, http.StatusCreated, toUserResponse(user), "user registered")
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.UsernameOrEmail) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "username/email and password are required")
		return
	}

	user, err := h.service.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountDisabled):
			h.metrics.RecordLogin(metrics.LoginDisabled)
		case errors.Is(err, services.ErrInvalidCredentials):
			h.metrics.RecordLogin(metrics.LoginFailure)
		}
		h.fail(w, r, "login", err)
		return
	}

	h.metrics.RecordLogin(metrics.LoginSuccess)
	writeSuccess(w, http.StatusOK, toUserResponse(user), "login successful")
}

// List handles GET /users/?page&per_page&status.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.UserFilter{
		Page:    queryInt(r, "page", defaultPage),
		PerPage: queryInt(r, "per_page", defaultPerPageList),
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			status := models.UserStatus(v)
			filter.Status = &status
		}
	}

	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "list users", err)
		return
	}

	writeSuccess(w, http.StatusOK, toUserListResponse(page), "")
}

// UpdateProfile handles PUT /users/{id}.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	var req updateProfileRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	if req.DisplayName != nil && utf8.RuneCountInString(*req.DisplayName) > maxDisplayNameLen {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest,
			fmt.Sprintf("display_name must be at most %d characters", maxDisplayNameLen))
		return
	}
	if req.AvatarURL != nil && utf8.RuneCountInString(*req.AvatarURL) > maxAvatarURLLen {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest,
			fmt.Sprintf("avatar_url must be at most %d characters", maxAvatarURLLen))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), id, models.ProfileChanges{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		h.fail(w, r, "update profile", err)
		return
	}

	writeSuccess(w, http.StatusOK, toUserResponse(user), "profile updated")
}

// ChangePassword handles POST /users/{id}/change-password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	var req changePasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "old_password and new_password are required")
		return
	}

	if err := h.service.ChangePassword(r.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		h.fail(w, r, "change password", err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "password changed")
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get user", err)
		return
	}

	writeSuccess(w, http.StatusOK, toUserResponse(user), "")
}

// Deactivate handles POST /users/{id}/deactivate.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "deactivate user", h.service.Deactivate, "user deactivated")
}

// Activate handles POST /users/{id}/activate.
func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "activate user", h.service.Activate, "user activated")
}

func (h *UserHandler) setStatus(w http.ResponseWriter, r *http.Request, op string,
	fn func(context.Context, int64) (*models.User, error), message string) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	user, err := fn(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}

	writeSuccess(w, http.StatusOK, toUserResponse(user), message)
}

// Preferences handles GET /users/{id}/preferences.
func (h *UserHandler) Preferences(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	prefs, err := h.service.Preferences(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get preferences", err)
		return
	}

	writeSuccess(w, http.StatusOK, prefs, "")
}

// UpdatePreferences handles PUT /users/{id}/preferences. The body is a JSON
// object whose keys are merged into the stored preferences.
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	var prefs models.Preferences
	if err := decodeBody(w, r, &prefs); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	merged, err := h.service.UpdatePreferences(r.Context(), id, prefs)
	if err != nil {
		h.fail(w, r, "update preferences", err)
		return
	}

	writeSuccess(w, http.StatusOK, merged, "preferences updated")
}

// Statistics handles GET /users/{id}/statistics.
func (h *UserHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	st, err := h.service.Statistics(r.Context(), id)
	if err != nil {
		h.fail(w, r, "user statistics", err)
		return
	}

	writeSuccess(w, http.StatusOK, toStatisticsResponse(st), "")
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"}, "")
}
