// Package services holds the server's business logic.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/promptmanager/internal/common"
	"github.com/dmitrijs2005/promptmanager/internal/dbx"
	"github.com/dmitrijs2005/promptmanager/internal/logging"
	"github.com/dmitrijs2005/promptmanager/internal/server/config"
	"github.com/dmitrijs2005/promptmanager/internal/server/models"
	"github.com/dmitrijs2005/promptmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/promptmanager/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	maxPreferences = 100
)

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

type UserService struct {
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	minPasswordLength int
	hashCost          int
	logger            logging.Logger
	now               func() time.Time
}

// NewUserService builds the service. db may be nil when the manager is the
// in-memory one; transactions are skipped in that case.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                db,
		repomanager:       m,
		minPasswordLength: cfg.MinPasswordLength,
		hashCost:          bcrypt.DefaultCost,
		logger:            logger.With("module", "user_service"),
		now:               time.Now,
	}
}

func (s *UserService) users() users.Repository {
	return s.repomanager.Users(s.db)
}

func (s *UserService) withTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	if s.db == nil {
		return fn(ctx, s.repomanager.Users(nil))
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.repomanager.Users(tx))
	})
}

func (s *UserService) validatePassword(password string) error {
	if utf8.RuneCountInString(password) < s.minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooShort, s.minPasswordLength)
	}
	return nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register creates an active account. The display name defaults to the
// username.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = username
	}

	var created *models.User

	err := s.withTx(ctx, func(ctx context.Context, repo users.Repository) error {
		taken, err := repo.ExistsUsername(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameExists
		}

		taken, err = repo.ExistsEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailExists
		}

		if err := s.validatePassword(in.Password); err != nil {
			return err
		}

		hash, err := s.hashPassword(in.Password)
		if err != nil {
			return err
		}

		created, err = repo.Create(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			DisplayName:  displayName,
			Status:       models.StatusActive,
		})
		switch {
		case errors.Is(err, users.ErrUsernameTaken):
			return ErrUsernameExists
		case errors.Is(err, users.ErrEmailTaken):
			return ErrEmailExists
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID, "username", created.Username)
	return created, nil
}

// Login authenticates by username or email. A disabled account is refused
// before the password is checked.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	repo := s.users()

	user, err := repo.GetByUsernameOrEmail(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "login failed: unknown user", "identifier", identifier)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !user.Active() {
		s.logger.Warn(ctx, "login failed: account disabled", "user_id", user.ID)
		return nil, ErrAccountDisabled
	}

	if !checkPassword(user.PasswordHash, password) {
		s.logger.Warn(ctx, "login failed: wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("error updating last login: %w", err)
	}
	user.LastLoginAt = &now

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return user, nil
}

// List returns one page of users, newest first. Page defaults to 1 and
// PerPage to 20, capped at 100.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) (models.UserPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = defaultPerPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}

	items, total, err := s.users().List(ctx, filter)
	if err != nil {
		return models.UserPage{}, fmt.Errorf("error listing users: %w", err)
	}

	return models.UserPage{Items: items, Total: total, Page: filter.Page, PerPage: filter.PerPage}, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

// UpdateProfile applies display name, bio and avatar URL changes. Other
// fields are not editable here.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, changes models.ProfileChanges) (*models.User, error) {
	u, err := s.users().UpdateProfile(ctx, id, changes)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	s.logger.Info(ctx, "profile updated", "user_id", id)
	return u, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	err := s.withTx(ctx, func(ctx context.Context, repo users.Repository) error {
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if !checkPassword(u.PasswordHash, oldPassword) {
			return ErrInvalidOldPassword
		}

		if err := s.validatePassword(newPassword); err != nil {
			return err
		}

		hash, err := s.hashPassword(newPassword)
		if err != nil {
			return err
		}

		return repo.UpdatePassword(ctx, id, hash)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "password changed", "user_id", id)
	return nil
}

// Deactivate disables the account; it can no longer sign in.
func (s *UserService) Deactivate(ctx context.Context, id int64) (*models.User, error) {
	return s.setStatus(ctx, id, models.StatusDisabled, "user deactivated")
}

// Activate re-enables a disabled account.
func (s *UserService) Activate(ctx context.Context, id int64) (*models.User, error) {
	return s.setStatus(ctx, id, models.StatusActive, "user activated")
}

func (s *UserService) setStatus(ctx context.Context, id int64, status models.UserStatus, msg string) (*models.User, error) {
	u, err := s.users().SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating status: %w", err)
	}

	s.logger.Info(ctx, msg, "user_id", id, "username", u.Username)
	return u, nil
}

func (s *UserService) Preferences(ctx context.Context, id int64) (models.Preferences, error) {
	prefs, err := s.users().GetPreferences(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading preferences: %w", err)
	}
	return prefs, nil
}

// UpdatePreferences sets the given keys and keeps the others. The merged
// set may hold at most 100 keys.
func (s *UserService) UpdatePreferences(ctx context.Context, id int64, prefs models.Preferences) (models.Preferences, error) {
	if len(prefs) == 0 {
		return nil, fmt.Errorf("%w: no preferences given", ErrInvalidPreferences)
	}
	for k := range prefs {
		if strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("%w: empty key", ErrInvalidPreferences)
		}
	}

	var merged models.Preferences

	err := s.withTx(ctx, func(ctx context.Context, repo users.Repository) error {
		current, err := repo.GetPreferences(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		added := 0
		for k := range prefs {
			if _, ok := current[k]; !ok {
				added++
			}
		}
		if len(current)+added > maxPreferences {
			return fmt.Errorf("%w: at most %d keys", ErrInvalidPreferences, maxPreferences)
		}

		merged, err = repo.MergePreferences(ctx, id, prefs)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "preferences updated", "user_id", id, "keys", len(prefs))
	return merged, nil
}

// Statistics reports login and account activity for a user.
func (s *UserService) Statistics(ctx context.Context, id int64) (models.UserStatistics, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return models.UserStatistics{}, err
	}

	prefs, err := s.Preferences(ctx, id)
	if err != nil {
		return models.UserStatistics{}, err
	}

	return models.UserStatistics{
		LastLoginAt:      u.LastLoginAt,
		AccountCreatedAt: u.CreatedAt,
		IsActive:         u.Active(),
		PreferenceCount:  len(prefs),
	}, nil
}
