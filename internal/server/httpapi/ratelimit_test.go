package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/logging"
	"github.com/dmitrijs2005/promptmanager/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func loginFrom(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{"username_or_email":"alice","password":"pw"}`))
	req.RemoteAddr = ip + ":5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginRateLimit_PerClientIP(t *testing.T) {
	spy := &spyRecorder{}
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(1.0 / 60.0), Burst: 2}, logging.Discard(), spy)
	defer rl.Stop()

	svc := &fakeUserService{LoginFn: func(context.Context, string, string) (*models.User, error) {
		return alice(), nil
	}}
	h := NewRouter(RouterDeps{Users: svc, Logger: logging.Discard(), Metrics: spy, LoginLimiter: rl})

	assert.Equal(t, http.StatusOK, loginFrom(h, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, loginFrom(h, "10.0.0.1").Code)

	rec := loginFrom(h, "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), CodeRateLimited)

	assert.Equal(t, http.StatusOK, loginFrom(h, "10.0.0.2").Code, "other clients keep their own budget")
	assert.Equal(t, []string{"/users/login"}, spy.limited)
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, CleanupInterval: time.Minute}, logging.Discard(), nil)
	defer rl.Stop()

	rl.limiter("10.0.0.1")
	require.Equal(t, 1, rl.Len())

	rl.cleanup(time.Now().Add(time.Minute))
	assert.Equal(t, 1, rl.Len())

	rl.cleanup(time.Now().Add(3 * time.Minute))
	assert.Equal(t, 0, rl.Len())

	rl.Stop()
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 2, retryAfterSeconds(rate.Limit(0.5)))
	assert.Equal(t, 1, retryAfterSeconds(rate.Limit(5)))
	assert.Equal(t, 60, retryAfterSeconds(0))
}

func TestLoginRateLimiterConfig(t *testing.T) {
	cfg := LoginRateLimiterConfig(10)
	assert.Equal(t, 10, cfg.Burst)
	assert.InDelta(t, 10.0/60.0, float64(cfg.Rate), 1e-9)
}
