package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/promptmanager/internal/client/guard"
	"github.com/dmitrijs2005/promptmanager/internal/client/models"
	"github.com/dmitrijs2005/promptmanager/internal/common"
)

var errUsageShow = errors.New("usage: show <id>")

// Dashboard is the default signed-in view.
func (a *App) Dashboard(ctx context.Context) error {
	return a.guarded(ctx, guard.Protected, a.dashboardView)
}

func (a *App) dashboardView(ctx context.Context) error {
	st := a.presenter.Styles()
	s := a.catalog.Summary(3)

	a.println(st.Title.Render("Hello, " + a.session.Identity().Name()))
	a.println(fmt.Sprintf("%d prompts, %d drafts, %d categories", s.Total, s.Drafts, len(s.Categories)))
	if len(s.Categories) > 0 {
		a.println(st.Muted.Render("Categories: " + strings.Join(s.Categories, ", ")))
	}
	if len(s.MostUsed) > 0 {
		a.println(st.Subtitle.Render("Most used"))
		for _, p := range s.MostUsed {
			a.println(a.promptLine(p))
		}
	}
	return nil
}

// Prompts lists the catalog, optionally filtered by category.
func (a *App) Prompts(ctx context.Context, args []string) error {
	return a.guarded(ctx, guard.Protected, func(ctx context.Context) error {
		category := ""
		if len(args) > 0 {
			category = args[0]
		}

		list := a.catalog.List(category)
		if len(list) == 0 {
			a.muted("No prompts.")
			return nil
		}
		for _, p := range list {
			a.println(a.promptLine(p))
		}
		return nil
	})
}

func (a *App) promptLine(p models.Prompt) string {
	st := a.presenter.Styles()

	line := fmt.Sprintf("#%-3d %s", p.ID, p.Title)
	if p.Category != "" {
		line += " " + st.Badge.Render("["+p.Category+"]")
	}
	if p.Draft {
		line += " " + st.Warning.Render("draft")
	}
	return line + st.Muted.Render(fmt.Sprintf("  used %d×", p.UsageCount))
}

// Show renders one prompt with a markdown preview of its content.
func (a *App) Show(ctx context.Context, args []string) error {
	return a.guarded(ctx, guard.Protected, func(ctx context.Context) error {
		if len(args) == 0 {
			a.fail(errUsageShow)
			return errUsageShow
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			a.fail(errUsageShow)
			return errUsageShow
		}

		p, err := a.catalog.Get(id)
		if errors.Is(err, common.ErrorNotFound) {
			err = fmt.Errorf("prompt #%d not found", id)
		}
		if err != nil {
			a.fail(err)
			return err
		}
		_ = a.catalog.Use(id)

		a.renderPrompt(p)
		return nil
	})
}

func (a *App) renderPrompt(p models.Prompt) {
	st := a.presenter.Styles()

	a.println(st.Title.Render(p.Title))
	if p.Description != "" {
		a.println(st.Subtitle.Render(p.Description))
	}
	meta := []string{}
	if p.Category != "" {
		meta = append(meta, "category: "+p.Category)
	}
	if p.ModelType != "" {
		meta = append(meta, "model: "+p.ModelType)
	}
	if len(p.Tags) > 0 {
		meta = append(meta, "tags: "+strings.Join(p.Tags, ", "))
	}
	if len(meta) > 0 {
		a.println(st.Muted.Render(strings.Join(meta, " · ")))
	}
	a.println(st.Divider.Render(strings.Repeat("─", 40)))
	a.println(a.presenter.Markdown(p.Content))
}

// New is the prompt editor: it collects the fields, previews the content
// and stores the prompt.
func (a *App) New(ctx context.Context) error {
	return a.guarded(ctx, guard.Protected, a.editorView)
}

func (a *App) editorView(ctx context.Context) error {
	var (
		p   models.Prompt
		err error
	)

	if p.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if p.Description, err = getSimpleText(a.reader, "Description (optional)", a.out); err != nil {
		return err
	}
	if p.Category, err = getSimpleText(a.reader, "Category (optional)", a.out); err != nil {
		return err
	}
	if p.Tags, err = GetTags(a.reader, "Tags, comma separated (optional)", a.out); err != nil {
		return err
	}
	if p.ModelType, err = getSimpleText(a.reader, "Model (optional)", a.out); err != nil {
		return err
	}
	if p.Content, err = GetMultiline(a.reader, "Prompt content (markdown)", a.out); err != nil {
		return err
	}

	if p.Content != "" {
		a.muted("Preview:")
		a.println(a.presenter.Markdown(p.Content))
	}

	if p.Draft, err = GetYesNo(a.reader, "Save as draft?", a.out); err != nil {
		return err
	}

	saved, err := a.catalog.Add(p)
	if err != nil {
		a.fail(err)
		return err
	}

	a.success("Saved prompt #%d", saved.ID)
	return nil
}
