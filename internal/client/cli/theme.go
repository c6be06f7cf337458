package cli

import (
	"context"

	"github.com/dmitrijs2005/promptmanager/internal/client/models"
)

// Theme prints the current theme, or changes it: "theme toggle",
// "theme light", "theme dark".
func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Theme: " + string(a.theme.Current()))
		return nil
	}

	if args[0] == "toggle" {
		a.success("Theme: %s", a.theme.Toggle(ctx))
		return nil
	}

	if err := a.theme.Set(ctx, models.Theme(args[0])); err != nil {
		a.fail(err)
		return err
	}
	a.success("Theme: %s", a.theme.Current())
	return nil
}
