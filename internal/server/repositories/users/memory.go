package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/common"
	"github.com/dmitrijs2005/promptmanager/internal/server/models"
)

// MemoryRepository keeps users in a map. It ignores the DBTX it was vended
// with, so a RepositoryManager can share one instance across calls.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[int64]*models.User
	prefs  map[int64]models.Preferences
	nextID int64
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[int64]*models.User),
		prefs: make(map[int64]models.Preferences),
		now:   time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, ErrEmailTaken
		}
	}

	r.nextID++
	now := r.now().UTC()

	stored := user.Clone()
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.users[stored.ID] = stored
	r.prefs[stored.ID] = models.Preferences{}

	return stored.Clone(), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u.Clone(), nil
}

func (r *MemoryRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var byEmail *models.User
	for _, u := range r.users {
		if u.Username == identifier {
			return u.Clone(), nil
		}
		if u.Email == identifier {
			byEmail = u
		}
	}
	if byEmail == nil {
		return nil, common.ErrorNotFound
	}
	return byEmail.Clone(), nil
}

func (r *MemoryRepository) ExistsUsername(ctx context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.Status != nil && u.Status != *filter.Status {
			continue
		}
		matched = append(matched, u)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.PerPage
	if end > total || filter.PerPage <= 0 {
		end = total
	}

	items := make([]*models.User, 0, end-start)
	for _, u := range matched[start:end] {
		items = append(items, u.Clone())
	}
	return items, total, nil
}

func (r *MemoryRepository) UpdateProfile(ctx context.Context, id int64, changes models.ProfileChanges) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	if changes.DisplayName != nil {
		u.DisplayName = *changes.DisplayName
	}
	if changes.Bio != nil {
		v := *changes.Bio
		u.Bio = &v
	}
	if changes.AvatarURL != nil {
		v := *changes.AvatarURL
		u.AvatarURL = &v
	}
	u.UpdatedAt = r.now().UTC()

	return u.Clone(), nil
}

func (r *MemoryRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.now().UTC()
	return nil
}

func (r *MemoryRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	v := at
	u.LastLoginAt = &v
	return nil
}

func (r *MemoryRepository) SetStatus(ctx context.Context, id int64, status models.UserStatus) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Status = status
	u.UpdatedAt = r.now().UTC()
	return u.Clone(), nil
}

func (r *MemoryRepository) GetPreferences(ctx context.Context, id int64) (models.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.users[id]; !ok {
		return nil, common.ErrorNotFound
	}
	return r.prefs[id].Clone(), nil
}

func (r *MemoryRepository) MergePreferences(ctx context.Context, id int64, prefs models.Preferences) (models.Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	merged := r.prefs[id].Clone()
	for k, v := range prefs {
		merged[k] = v
	}
	r.prefs[id] = merged
	u.UpdatedAt = r.now().UTC()

	return merged.Clone(), nil
}
