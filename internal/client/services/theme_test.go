package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/promptmanager/internal/client/models"
	"github.com/dmitrijs2005/promptmanager/internal/client/repositories/storage"
	"github.com/dmitrijs2005/promptmanager/internal/logging"
	"github.com/stretchr/testify/require"
)

func newTheme(t *testing.T, env Environment) (*ThemeService, *storage.MemoryRepository, *recordingApplier) {
	t.Helper()
	repo := storage.NewMemoryRepository()
	app := &recordingApplier{}
	return NewThemeService(repo, env, app, logging.Discard()), repo, app
}

func TestThemeInitialize_NoStoredValue_UsesEnvironment(t *testing.T) {
	s, repo, app := newTheme(t, fakeEnv{dark: true})

	got := s.Initialize(context.Background())

	require.Equal(t, models.ThemeDark, got)
	require.Equal(t, models.ThemeDark, s.Current())
	require.Equal(t, models.ThemeDark, app.last())

	v, err := repo.Get(context.Background(), ThemeKey)
	require.NoError(t, err)
	require.Nil(t, v, "environment preference is not persisted")
}

func TestThemeInitialize_StoredValueWins(t *testing.T) {
	s, repo, app := newTheme(t, fakeEnv{dark: true})
	require.NoError(t, repo.Set(context.Background(), ThemeKey, []byte("light")))

	require.Equal(t, models.ThemeLight, s.Initialize(context.Background()))
	require.Equal(t, models.ThemeLight, app.last())
}

func TestThemeInitialize_InvalidStoredValue_FallsBack(t *testing.T) {
	s, repo, _ := newTheme(t, fakeEnv{dark: false})
	require.NoError(t, repo.Set(context.Background(), ThemeKey, []byte("solarized")))

	require.Equal(t, models.ThemeLight, s.Initialize(context.Background()))
}

func TestThemeInitialize_NilEnvironment_IsLight(t *testing.T) {
	s, _, _ := newTheme(t, nil)
	require.Equal(t, models.ThemeLight, s.Initialize(context.Background()))
}

func TestThemeToggle_IsItsOwnInverse(t *testing.T) {
	for _, dark := range []bool{false, true} {
		s, repo, app := newTheme(t, fakeEnv{dark: dark})
		ctx := context.Background()
		start := s.Initialize(ctx)

		first := s.Toggle(ctx)
		require.Equal(t, start.Opposite(), first)
		v, _ := repo.Get(ctx, ThemeKey)
		require.Equal(t, []byte(first), v)

		require.Equal(t, start, s.Toggle(ctx))
		require.Equal(t, start, s.Current())
		require.Equal(t, start, app.last())
	}
}

func TestThemeSet(t *testing.T) {
	s, repo, app := newTheme(t, fakeEnv{})
	ctx := context.Background()
	s.Initialize(ctx)

	require.NoError(t, s.Set(ctx, models.ThemeDark))
	require.Equal(t, models.ThemeDark, s.Current())
	require.Equal(t, models.ThemeDark, app.last())
	v, _ := repo.Get(ctx, ThemeKey)
	require.Equal(t, []byte("dark"), v)

	require.ErrorIs(t, s.Set(ctx, models.Theme("sepia")), models.ErrInvalidTheme)
	require.Equal(t, models.ThemeDark, s.Current())
}

func TestTheme_StorageFailure_IsNotSurfaced(t *testing.T) {
	app := &recordingApplier{}
	s := NewThemeService(brokenRepo{storage.NewMemoryRepository()}, fakeEnv{}, app, logging.Discard())
	ctx := context.Background()

	s.Initialize(ctx)
	require.Equal(t, models.ThemeDark, s.Toggle(ctx))
	require.NoError(t, s.Set(ctx, models.ThemeLight))
	require.Equal(t, models.ThemeLight, app.last())
}
