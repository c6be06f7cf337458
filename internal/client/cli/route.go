package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/promptmanager/internal/client/guard"
)

// guarded renders view only when a fresh guard of the given kind allows it;
// otherwise it follows the guard's redirect.
func (a *App) guarded(ctx context.Context, kind guard.Kind, view func(context.Context) error) error {
	g := guard.New(kind, a.session)

	if g.Resolve() == guard.Pending {
		a.muted("Loading session...")
		if _, err := g.Wait(ctx); err != nil {
			return err
		}
	}

	if g.State() == guard.Redirected {
		return a.redirect(ctx, g.Target())
	}
	return view(ctx)
}

func (a *App) redirect(ctx context.Context, route string) error {
	switch route {
	case guard.RouteLogin:
		a.muted("Please log in first.")
		return a.Login(ctx)
	case guard.RouteDashboard:
		a.muted("Already signed in.")
		return a.Dashboard(ctx)
	default:
		return fmt.Errorf("unknown route %q", route)
	}
}
