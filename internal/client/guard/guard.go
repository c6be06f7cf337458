// Package guard gates CLI views on the session state. A guard stays Pending
// while the session store is still restoring, then decides exactly once
// whether its view may render or must redirect.
package guard

import (
	"context"
	"sync"
)

// Kind selects the rule a guard applies.
type Kind int

const (
	// Protected views need a signed-in user.
	Protected Kind = iota
	// Public views (login, register) are for signed-out users only.
	Public
)

func (k Kind) String() string {
	switch k {
	case Protected:
		return "protected"
	case Public:
		return "public"
	default:
		return "unknown"
	}
}

type State int

const (
	Pending State = iota
	Allowed
	Redirected
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Allowed:
		return "allowed"
	case Redirected:
		return "redirected"
	default:
		return "unknown"
	}
}

// Redirect targets.
const (
	RouteLogin     = "login"
	RouteDashboard = "dashboard"
)

// Session is the part of the session store a guard reads.
type Session interface {
	Loading() bool
	Ready() <-chan struct{}
	IsAuthenticated() bool
}

// Guard is single-use: build one per view visit.
type Guard struct {
	kind    Kind
	session Session

	mu     sync.Mutex
	state  State
	target string
}

func New(kind Kind, session Session) *Guard {
	return &Guard{kind: kind, session: session}
}

// Resolve decides if the session has finished loading and returns the
// current state. Once decided the outcome never changes.
func (g *Guard) Resolve() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Pending || g.session.Loading() {
		return g.state
	}

	authed := g.session.IsAuthenticated()
	switch {
	case g.kind == Protected && !authed:
		g.state, g.target = Redirected, RouteLogin
	case g.kind == Public && authed:
		g.state, g.target = Redirected, RouteDashboard
	default:
		g.state = Allowed
	}
	return g.state
}

// Wait blocks until the session store is ready, then resolves.
func (g *Guard) Wait(ctx context.Context) (State, error) {
	select {
	case <-g.session.Ready():
		return g.Resolve(), nil
	case <-ctx.Done():
		return g.State(), ctx.Err()
	}
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Target is the route to go to when Redirected, empty otherwise.
func (g *Guard) Target() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.target
}
