// Package models holds the client-side domain types.
package models

import "time"

// Identity is the signed-in user as returned by the server. The client
// holds at most one; a nil *Identity means "logged out".
type Identity struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Bio         *string    `json:"bio,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Name is what views show for the user: display name, falling back to
// the username.
func (i *Identity) Name() string {
	if i == nil {
		return ""
	}
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Username
}

// Clone returns a deep copy so callers cannot mutate store state.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	if i.Bio != nil {
		v := *i.Bio
		c.Bio = &v
	}
	if i.AvatarURL != nil {
		v := *i.AvatarURL
		c.AvatarURL = &v
	}
	if i.CreatedAt != nil {
		v := *i.CreatedAt
		c.CreatedAt = &v
	}
	if i.LastLoginAt != nil {
		v := *i.LastLoginAt
		c.LastLoginAt = &v
	}
	return &c
}

// Registration is the payload for creating an account.
type Registration struct {
	Username    string
	Email       string
	Password    []byte
	DisplayName string
}

// ProfileUpdate carries the profile fields to change. Nil fields are left
// as they are on the server.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.DisplayName == nil && u.Bio == nil && u.AvatarURL == nil
}
