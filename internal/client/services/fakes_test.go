package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/promptmanager/internal/client/models"
	"github.com/dmitrijs2005/promptmanager/internal/client/repositories/storage"
)

// ---- fake client ----

type fakeClient struct {
	mu sync.Mutex

	LoginRet    *models.Identity
	LoginErr    error
	RegisterRet *models.Identity
	RegisterErr error
	UpdateRet   *models.Identity
	UpdateErr   error
	ChangeErr   error
	PingErr     error

	// called before the fake returns; lets tests interleave other calls
	BeforeReturn func()

	LastLoginIdentifier string
	LastLoginPassword   []byte
	LastRegistration    models.Registration
	LastUpdateID        int64
	LastUpdate          models.ProfileUpdate
	LastChangeID        int64
	LastOldPassword     []byte
	LastNewPassword     []byte

	Calls int
}

func (f *fakeClient) hook() {
	f.mu.Lock()
	f.Calls++
	h := f.BeforeReturn
	f.mu.Unlock()
	if h != nil {
		h()
	}
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Login(ctx context.Context, identifier string, password []byte) (*models.Identity, error) {
	f.LastLoginIdentifier = identifier
	f.LastLoginPassword = append([]byte(nil), password...)
	f.hook()
	return f.LoginRet.Clone(), f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, r models.Registration) (*models.Identity, error) {
	f.LastRegistration = r
	f.hook()
	return f.RegisterRet.Clone(), f.RegisterErr
}

func (f *fakeClient) UpdateUser(ctx context.Context, id int64, u models.ProfileUpdate) (*models.Identity, error) {
	f.LastUpdateID = id
	f.LastUpdate = u
	f.hook()
	return f.UpdateRet.Clone(), f.UpdateErr
}

func (f *fakeClient) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword []byte) error {
	f.LastChangeID = id
	f.LastOldPassword = append([]byte(nil), oldPassword...)
	f.LastNewPassword = append([]byte(nil), newPassword...)
	f.hook()
	return f.ChangeErr
}

// ---- failing repository ----

var errDiskFull = errors.New("disk full")

// brokenRepo reads from an inner repository but fails every write.
type brokenRepo struct {
	storage.Repository
}

func (b brokenRepo) Set(ctx context.Context, key string, value []byte) error { return errDiskFull }
func (b brokenRepo) Delete(ctx context.Context, key string) error            { return errDiskFull }

// ---- environment / applier ----

type fakeEnv struct{ dark bool }

func (e fakeEnv) PrefersDark() bool { return e.dark }

type recordingApplier struct {
	applied []models.Theme
}

func (r *recordingApplier) Apply(t models.Theme) { r.applied = append(r.applied, t) }

func (r *recordingApplier) last() models.Theme {
	if len(r.applied) == 0 {
		return ""
	}
	return r.applied[len(r.applied)-1]
}
