package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	loading bool
	authed  bool
	ready   chan struct{}
}

func newFakeSession(loading, authed bool) *fakeSession {
	s := &fakeSession{loading: loading, authed: authed, ready: make(chan struct{})}
	if !loading {
		close(s.ready)
	}
	return s
}

func (f *fakeSession) Loading() bool          { return f.loading }
func (f *fakeSession) Ready() <-chan struct{} { return f.ready }
func (f *fakeSession) IsAuthenticated() bool  { return f.authed }

func (f *fakeSession) finish() {
	f.loading = false
	close(f.ready)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		kind       Kind
		authed     bool
		wantState  State
		wantTarget string
	}{
		{"protected, signed in", Protected, true, Allowed, ""},
		{"protected, signed out", Protected, false, Redirected, RouteLogin},
		{"public, signed in", Public, true, Redirected, RouteDashboard},
		{"public, signed out", Public, false, Allowed, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New(tc.kind, newFakeSession(false, tc.authed))
			require.Equal(t, tc.wantState, g.Resolve())
			require.Equal(t, tc.wantTarget, g.Target())
		})
	}
}

func TestResolve_PendingWhileLoading(t *testing.T) {
	s := newFakeSession(true, true)
	g := New(Protected, s)

	require.Equal(t, Pending, g.Resolve())
	require.Empty(t, g.Target())

	s.finish()
	require.Equal(t, Allowed, g.Resolve())
}

func TestResolve_DecidesOnce(t *testing.T) {
	s := newFakeSession(false, false)
	g := New(Protected, s)
	require.Equal(t, Redirected, g.Resolve())

	// signing in afterwards does not flip an already decided guard
	s.authed = true
	require.Equal(t, Redirected, g.Resolve())
	require.Equal(t, RouteLogin, g.Target())
}

func TestWait_BlocksUntilReady(t *testing.T) {
	s := newFakeSession(true, false)
	g := New(Public, s)

	done := make(chan State, 1)
	go func() {
		st, _ := g.Wait(context.Background())
		done <- st
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before the session was ready")
	case <-time.After(20 * time.Millisecond):
	}

	s.finish()
	select {
	case st := <-done:
		require.Equal(t, Allowed, st)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after ready")
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	g := New(Protected, newFakeSession(true, false))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st, err := g.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, Pending, st)
}

func TestStrings(t *testing.T) {
	require.Equal(t, "protected", Protected.String())
	require.Equal(t, "public", Public.String())
	require.Equal(t, "redirected", Redirected.String())
	require.Equal(t, "pending", Pending.String())
}
