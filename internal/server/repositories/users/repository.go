// Package users stores server accounts. PostgresRepository is the
// production backing; MemoryRepository serves tests and the -d "" mode.
package users

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/common"
	"github.com/dmitrijs2005/promptmanager/internal/server/models"
)

var (
	ErrUsernameTaken = fmt.Errorf("username %w", common.ErrorAlreadyExists)
	ErrEmailTaken    = fmt.Errorf("email %w", common.ErrorAlreadyExists)
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByUsernameOrEmail prefers a username match over an email match.
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
	// List returns one page, newest first, plus the total matching count.
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error)
	UpdateProfile(ctx context.Context, id int64, changes models.ProfileChanges) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	SetStatus(ctx context.Context, id int64, status models.UserStatus) (*models.User, error)
	GetPreferences(ctx context.Context, id int64) (models.Preferences, error)
	// MergePreferences sets the given keys and keeps the others.
	MergePreferences(ctx context.Context, id int64, prefs models.Preferences) (models.Preferences, error)
}
