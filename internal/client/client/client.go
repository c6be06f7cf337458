package client

import (
	"context"

	"github.com/dmitrijs2005/promptmanager/internal/client/models"
)

// Client is the users backend contract the session store depends on.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Login(ctx context.Context, identifier string, password []byte) (*models.Identity, error)
	Register(ctx context.Context, r models.Registration) (*models.Identity, error)
	UpdateUser(ctx context.Context, id int64, u models.ProfileUpdate) (*models.Identity, error)
	ChangePassword(ctx context.Context, id int64, oldPassword, newPassword []byte) error
}
