// Package models holds the server-side domain types.
package models

import (
	"maps"
	"time"
)

// UserStatus mirrors the status column: 1 active, 0 disabled, -1 deleted.
type UserStatus int

const (
	StatusDeleted  UserStatus = -1
	StatusDisabled UserStatus = 0
	StatusActive   UserStatus = 1
)

func (s UserStatus) Valid() bool {
	return s == StatusDeleted || s == StatusDisabled || s == StatusActive
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	DisplayName  string
	AvatarURL    *string
	Bio          *string
	Status       UserStatus
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the account may sign in.
func (u *User) Active() bool {
	return u.Status == StatusActive
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.AvatarURL != nil {
		v := *u.AvatarURL
		c.AvatarURL = &v
	}
	if u.Bio != nil {
		v := *u.Bio
		c.Bio = &v
	}
	if u.LastLoginAt != nil {
		v := *u.LastLoginAt
		c.LastLoginAt = &v
	}
	return &c
}

// ProfileChanges lists the profile fields a user may edit. Nil leaves the
// stored value alone.
type ProfileChanges struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

// Preferences are free-form per-user settings stored as a JSON object.
type Preferences map[string]any

// Clone copies the top-level keys. Nil clones to an empty map.
func (p Preferences) Clone() Preferences {
	if p == nil {
		return Preferences{}
	}
	return maps.Clone(p)
}

// UserStatistics summarizes an account's activity.
type UserStatistics struct {
	LastLoginAt      *time.Time
	AccountCreatedAt time.Time
	IsActive         bool
	PreferenceCount  int
}

// UserFilter narrows and pages a user listing. Page is 1-based.
type UserFilter struct {
	Status  *UserStatus
	Page    int
	PerPage int
}

// Offset is the number of rows skipped for the filter's page.
func (f UserFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}

// UserPage is one page of a user listing.
type UserPage struct {
	Items   []*User
	Total   int
	Page    int
	PerPage int
}

// Pages is the number of pages needed for Total rows.
func (p UserPage) Pages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

func (p UserPage) HasPrev() bool {
	return p.Page > 1
}

func (p UserPage) HasNext() bool {
	return p.Page < p.Pages()
}
