package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/common"
	"github.com/dmitrijs2005/promptmanager/internal/logging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("keeps caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(common.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(common.RequestIDHeader))
	})

	t.Run("mints uuid when absent or oversized", func(t *testing.T) {
		for _, in := range []string{"", strings.Repeat("x", maxRequestIDLen+1)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if in != "" {
				req.Header.Set(common.RequestIDHeader, in)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			_, err := uuid.Parse(seen)
			require.NoError(t, err)
			assert.Equal(t, seen, rec.Header().Get(common.RequestIDHeader))
		}
	})
}

type recordedRequest struct {
	method, route string
	status        int
}

type spyRecorder struct {
	requests []recordedRequest
	logins   []string
	limited  []string
	regs     int
}

func (s *spyRecorder) ObserveRequest(method, route string, status int, _ time.Duration) {
	s.requests = append(s.requests, recordedRequest{method, route, status})
}
func (s *spyRecorder) RecordLogin(outcome string)     { s.logins = append(s.logins, outcome) }
func (s *spyRecorder) RecordRegistration()            { s.regs++ }
func (s *spyRecorder) RecordRateLimited(route string) { s.limited = append(s.limited, route) }

func TestRouter_RecordsRoutePatternAndRecoversPanics(t *testing.T) {
	spy := &spyRecorder{}
	svc := &fakeUserService{UpdateProfileFn: nil} // nil fn panics when called
	h := NewRouter(RouterDeps{Users: svc, Logger: logging.Discard(), Metrics: spy})

	rec, env := do(t, h, http.MethodPut, "/users/42", `{"bio":"x"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeInternalError, env.Error)
	require.Len(t, spy.requests, 1)
	assert.Equal(t, recordedRequest{http.MethodPut, "/users/{id}", http.StatusInternalServerError}, spy.requests[0])
}

func TestStatusRecorder_DefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec}

	_, err := sr.Write([]byte("hi"))
	require.NoError(t, err)
	sr.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusOK, sr.statusCode)
}
