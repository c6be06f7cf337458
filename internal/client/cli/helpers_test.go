package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/promptmanager/internal/client/config"
	"github.com/dmitrijs2005/promptmanager/internal/client/models"
	"github.com/dmitrijs2005/promptmanager/internal/client/repositories/storage"
	"github.com/dmitrijs2005/promptmanager/internal/client/ui"
	"github.com/dmitrijs2005/promptmanager/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- fake API ----

type fakeAPI struct {
	LoginRet    *models.Identity
	LoginErr    error
	RegisterRet *models.Identity
	RegisterErr error
	UpdateRet   *models.Identity
	UpdateErr   error
	ChangeErr   error
	PingErr     error

	LoginCalls    int
	RegisterCalls int
	ChangeCalls   int

	LastIdentifier   string
	LastRegistration models.Registration
	LastUpdate       models.ProfileUpdate
	LastOld, LastNew string

	closed bool
}

func (f *fakeAPI) Close() error                   { f.closed = true; return nil }
func (f *fakeAPI) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeAPI) Login(ctx context.Context, identifier string, password []byte) (*models.Identity, error) {
	f.LoginCalls++
	f.LastIdentifier = identifier
	return f.LoginRet.Clone(), f.LoginErr
}

func (f *fakeAPI) Register(ctx context.Context, r models.Registration) (*models.Identity, error) {
	f.RegisterCalls++
	r.Password = append([]byte(nil), r.Password...)
	f.LastRegistration = r
	return f.RegisterRet.Clone(), f.RegisterErr
}

func (f *fakeAPI) UpdateUser(ctx context.Context, id int64, u models.ProfileUpdate) (*models.Identity, error) {
	f.LastUpdate = u
	return f.UpdateRet.Clone(), f.UpdateErr
}

func (f *fakeAPI) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword []byte) error {
	f.ChangeCalls++
	f.LastOld, f.LastNew = string(oldPassword), string(newPassword)
	return f.ChangeErr
}

type staticEnv struct{ dark bool }

func (e staticEnv) PrefersDark() bool { return e.dark }

func alice() *models.Identity {
	return &models.Identity{ID: 1, Username: "alice", Email: "alice@example.com", DisplayName: "Alice"}
}

// newTestApp builds an App over fakes with input as stdin. The session is
// already initialized.
func newTestApp(t *testing.T, api *fakeAPI, input string) (*App, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	a := newApp(cfg, logging.Discard(), api, storage.NewMemoryRepository(), ui.NewPresenter(80), staticEnv{})
	out := &bytes.Buffer{}
	a.reader = rdr(input)
	a.out = out
	a.session.Initialize(context.Background())
	return a, out
}

// signIn puts alice into the session directly.
func signIn(t *testing.T, a *App, api *fakeAPI) {
	t.Helper()
	api.LoginRet = alice()
	_, err := a.session.Login(context.Background(), "alice", []byte("secret123"))
	require.NoError(t, err)
	api.LoginCalls = 0
}

// stubPasswords makes getPassword return the given values in order. Each
// call gets a fresh copy since callers wipe it.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		if i >= len(pws) {
			return nil, io.EOF
		}
		pw := []byte(pws[i])
		i++
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}
