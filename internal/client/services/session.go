package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/promptmanager/internal/client/client"
	"github.com/dmitrijs2005/promptmanager/internal/client/models"
	"github.com/dmitrijs2005/promptmanager/internal/client/repositories/storage"
	"github.com/dmitrijs2005/promptmanager/internal/logging"
)

// UserKey is the storage key holding the signed-in identity.
const UserKey = "user"

const (
	msgLoginFailed          = "login failed"
	msgRegistrationFailed   = "registration failed"
	msgProfileUpdateFailed  = "profile update failed"
	msgPasswordChangeFailed = "password change failed"
)

// SessionService owns the signed-in identity: it is the only writer of
// UserKey. Identity-changing calls are sequenced; a response is dropped with
// ErrSuperseded when a newer login, register, update or logout has already
// changed the identity. Failed calls change nothing and supersede nothing.
type SessionService struct {
	client client.Client
	repo   storage.Repository
	logger logging.Logger

	mu       sync.RWMutex
	identity *models.Identity
	loading  bool
	// seq numbers identity-changing calls as they start; applied is the seq
	// of the call that last changed the identity.
	seq     uint64
	applied uint64

	ready     chan struct{}
	readyOnce sync.Once
}

func NewSessionService(c client.Client, repo storage.Repository, logger logging.Logger) *SessionService {
	return &SessionService{
		client:  c,
		repo:    repo,
		logger:  logger.With("component", "session"),
		loading: true,
		ready:   make(chan struct{}),
	}
}

// Initialize restores the identity persisted by a previous run. A value that
// cannot be parsed is removed. Loading is false when it returns.
func (s *SessionService) Initialize(ctx context.Context) {
	defer s.finishLoading()

	s.mu.RLock()
	start := s.applied
	s.mu.RUnlock()

	raw, err := s.repo.Get(ctx, UserKey)
	if err != nil {
		s.logger.Warn(ctx, "cannot read stored session", "error", err)
		return
	}
	if raw == nil {
		return
	}

	var id models.Identity
	if err := json.Unmarshal(raw, &id); err != nil || id.Username == "" {
		s.logger.Warn(ctx, "discarding corrupt stored session")
		if err := s.repo.Delete(ctx, UserKey); err != nil {
			s.logger.Error(ctx, "cannot delete stored session", "error", err)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied != start || s.identity != nil {
		s.logger.Debug(ctx, "stored session replaced while loading")
		return
	}
	s.identity = &id

	s.logger.Debug(ctx, "session restored", "user_id", id.ID)
}

func (s *SessionService) finishLoading() {
	s.readyOnce.Do(func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		close(s.ready)
	})
}

// Loading reports whether Initialize has not finished yet.
func (s *SessionService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Ready is closed once Initialize has finished.
func (s *SessionService) Ready() <-chan struct{} {
	return s.ready
}

// Identity returns a copy of the signed-in identity, or nil.
func (s *SessionService) Identity() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

func (s *SessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

func (s *SessionService) Login(ctx context.Context, identifier string, password []byte) (*models.Identity, error) {
	seq := s.next()

	id, err := s.client.Login(ctx, identifier, password)
	if err != nil {
		s.logger.Warn(ctx, "login failed", "error", err)
		return nil, failure("login", msgLoginFailed, err)
	}

	return s.adopt(ctx, seq, id)
}

// Register creates the account and signs in as it.
func (s *SessionService) Register(ctx context.Context, username, email string, password []byte, displayName string) (*models.Identity, error) {
	seq := s.next()

	id, err := s.client.Register(ctx, models.Registration{
		Username:    username,
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	})
	if err != nil {
		s.logger.Warn(ctx, "registration failed", "error", err)
		return nil, failure("register", msgRegistrationFailed, err)
	}

	return s.adopt(ctx, seq, id)
}

// Logout forgets the identity locally. The server is not contacted.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.seq++
	s.applied = s.seq
	s.identity = nil
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, UserKey); err != nil {
		s.logger.Error(ctx, "cannot delete stored session", "error", err)
	}
}

// UpdateIdentity sends u for the signed-in user and replaces the identity
// with the server's copy.
func (s *SessionService) UpdateIdentity(ctx context.Context, u models.ProfileUpdate) (*models.Identity, error) {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return nil, ErrNotLoggedIn
	}
	s.seq++
	seq, userID := s.seq, s.identity.ID
	s.mu.Unlock()

	id, err := s.client.UpdateUser(ctx, userID, u)
	if err != nil {
		s.logger.Warn(ctx, "profile update failed", "user_id", userID, "error", err)
		return nil, failure("update", msgProfileUpdateFailed, err)
	}

	return s.adopt(ctx, seq, id)
}

// ChangePassword leaves the local identity untouched on success.
func (s *SessionService) ChangePassword(ctx context.Context, oldPassword, newPassword []byte) error {
	s.mu.RLock()
	if s.identity == nil {
		s.mu.RUnlock()
		return ErrNotLoggedIn
	}
	userID := s.identity.ID
	s.mu.RUnlock()

	if err := s.client.ChangePassword(ctx, userID, oldPassword, newPassword); err != nil {
		s.logger.Warn(ctx, "password change failed", "user_id", userID, "error", err)
		return failure("change_password", msgPasswordChangeFailed, err)
	}
	return nil
}

func (s *SessionService) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// adopt makes id the current identity unless a call started after seq has
// already changed it.
func (s *SessionService) adopt(ctx context.Context, seq uint64, id *models.Identity) (*models.Identity, error) {
	if id == nil {
		return nil, &OperationError{Op: "session", Message: "server returned no identity", Err: client.ErrBadResponse}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.applied {
		s.logger.Debug(ctx, "dropping stale session response", "seq", seq, "applied", s.applied)
		return nil, ErrSuperseded
	}

	s.applied = seq
	s.identity = id.Clone()
	s.persist(ctx, s.identity)

	return id.Clone(), nil
}

// persist is called with mu held so storage follows memory order.
func (s *SessionService) persist(ctx context.Context, id *models.Identity) {
	raw, err := json.Marshal(id)
	if err != nil {
		s.logger.Error(ctx, "cannot encode session", "error", err)
		return
	}
	if err := s.repo.Set(ctx, UserKey, raw); err != nil {
		s.logger.Error(ctx, "cannot store session", "error", err)
	}
}
