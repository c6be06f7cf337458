package cli

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/client/guard"
	"github.com/dmitrijs2005/promptmanager/internal/client/models"
)

// Profile shows the signed-in identity; "profile edit" updates it.
func (a *App) Profile(ctx context.Context, args []string) error {
	return a.guarded(ctx, guard.Protected, func(ctx context.Context) error {
		if len(args) > 0 && args[0] == "edit" {
			return a.editProfileView(ctx)
		}
		a.showProfile(a.session.Identity())
		return nil
	})
}

func (a *App) showProfile(id *models.Identity) {
	if id == nil {
		return
	}
	st := a.presenter.Styles()

	lines := []string{
		st.Title.Render(id.Name()),
		st.Muted.Render("@" + id.Username),
		"Email:   " + orDash(id.Email),
		"Bio:     " + orDash(deref(id.Bio)),
		"Avatar:  " + orDash(deref(id.AvatarURL)),
	}
	if id.CreatedAt != nil {
		lines = append(lines, "Joined:  "+id.CreatedAt.Local().Format(time.DateOnly))
	}
	if id.LastLoginAt != nil {
		lines = append(lines, "Last in: "+id.LastLoginAt.Local().Format(time.DateTime))
	}

	a.println(st.Card.Render(strings.Join(lines, "\n")))
}

func (a *App) editProfileView(ctx context.Context) error {
	current := a.session.Identity()
	if current == nil {
		return nil
	}

	var u models.ProfileUpdate
	var err error

	if u.DisplayName, err = a.askField("Display name", current.DisplayName, false); err != nil {
		return err
	}
	if u.Bio, err = a.askField("Bio", deref(current.Bio), true); err != nil {
		return err
	}
	if u.AvatarURL, err = a.askField("Avatar URL", deref(current.AvatarURL), true); err != nil {
		return err
	}

	if u.Empty() {
		a.muted("Nothing to change.")
		return nil
	}

	id, err := a.session.UpdateIdentity(ctx, u)
	if err != nil {
		a.fail(err)
		return err
	}

	a.success("Profile updated.")
	a.showProfile(id)
	return nil
}

// clearField is the answer that empties a clearable field.
const clearField = "-"

// askField returns nil when the answer is empty or unchanged. For clearable
// fields clearField yields an empty value.
func (a *App) askField(label, current string, clearable bool) (*string, error) {
	prompt := label
	if current != "" {
		prompt += " [" + current + "]"
		if clearable {
			prompt += " ('" + clearField + "' clears)"
		}
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return nil, err
	}
	if clearable && v == clearField {
		v = ""
		if current == "" {
			return nil, nil
		}
		return &v, nil
	}
	if v == "" || v == current {
		return nil, nil
	}
	return &v, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
