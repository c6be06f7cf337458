package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/promptmanager/internal/client/models"
	"github.com/dmitrijs2005/promptmanager/internal/client/repositories/storage"
	"github.com/dmitrijs2005/promptmanager/internal/logging"
)

// ThemeKey is the storage key holding the chosen theme.
const ThemeKey = "theme"

// Environment reports the terminal's own light/dark preference.
type Environment interface {
	PrefersDark() bool
}

// Applier pushes a theme to the process-wide presentation layer.
type Applier interface {
	Apply(t models.Theme)
}

// ThemeService always holds exactly one theme. Storage failures are logged
// and otherwise ignored.
type ThemeService struct {
	repo    storage.Repository
	env     Environment
	applier Applier
	logger  logging.Logger

	mu    sync.RWMutex
	theme models.Theme
}

func NewThemeService(repo storage.Repository, env Environment, applier Applier, logger logging.Logger) *ThemeService {
	return &ThemeService{
		repo:    repo,
		env:     env,
		applier: applier,
		logger:  logger.With("component", "theme"),
		theme:   preferred(env),
	}
}

func preferred(env Environment) models.Theme {
	if env != nil && env.PrefersDark() {
		return models.ThemeDark
	}
	return models.ThemeLight
}

// Initialize loads the stored theme, falling back to the environment
// preference, and applies it.
func (s *ThemeService) Initialize(ctx context.Context) models.Theme {
	t := preferred(s.env)

	raw, err := s.repo.Get(ctx, ThemeKey)
	switch {
	case err != nil:
		s.logger.Warn(ctx, "cannot read stored theme", "error", err)
	case raw != nil:
		if stored, perr := models.ParseTheme(string(raw)); perr == nil {
			t = stored
		} else {
			s.logger.Warn(ctx, "ignoring invalid stored theme", "value", string(raw))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = t
	s.apply(t)
	return t
}

// Current returns the active theme.
func (s *ThemeService) Current() models.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// Toggle flips between light and dark and returns the new theme.
func (s *ThemeService) Toggle(ctx context.Context) models.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = s.theme.Opposite()
	s.persist(ctx, s.theme)
	s.apply(s.theme)
	return s.theme
}

// Set switches to t. Anything but light or dark yields models.ErrInvalidTheme
// and leaves the current theme in place.
func (s *ThemeService) Set(ctx context.Context, t models.Theme) error {
	if _, err := models.ParseTheme(string(t)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = t
	s.persist(ctx, t)
	s.apply(t)
	return nil
}

func (s *ThemeService) persist(ctx context.Context, t models.Theme) {
	if err := s.repo.Set(ctx, ThemeKey, []byte(t)); err != nil {
		s.logger.Error(ctx, "cannot store theme", "theme", string(t), "error", err)
	}
}

func (s *ThemeService) apply(t models.Theme) {
	if s.applier != nil {
		s.applier.Apply(t)
	}
}
