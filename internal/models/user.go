package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/tunestats/internal/shared"
)

// User is an authenticated end user as reported by a streaming platform.
//
// The ID and platform are fixed once the user has been created.
type User struct {
	id        string
	sequence  int
	platform  Platform
	name      string
	avatar    string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewUser creates a [User] for platform with the given display name and optional avatar URI.
func NewUser(sequence int, platform Platform, name, avatar string) *User {
	now := time.Now()
	return &User{
		sequence:  sequence,
		platform:  platform,
		name:      name,
		avatar:    avatar,
		createdAt: now,
		updatedAt: now,
	}
}

func (u *User) ID() string            { return u.id }
func (u *User) Sequence() int         { return u.sequence }
func (u *User) Platform() Platform    { return u.platform }
func (u *User) Name() string          { return u.name }
func (u *User) Avatar() string        { return u.avatar }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
func (u *User) DeletedAt() *time.Time { return u.deletedAt }

// SetID assigns the identifier. Only repositories and gateways call this, before the user is shared.
func (u *User) SetID(id string) { u.id = id }

func (u *User) SetSequence(sequence int)  { u.sequence = sequence }
func (u *User) SetName(name string)       { u.name = name }
func (u *User) SetAvatar(avatar string)   { u.avatar = avatar }
func (u *User) SetCreatedAt(t time.Time)  { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time)  { u.updatedAt = t }
func (u *User) SetDeletedAt(t *time.Time) { u.deletedAt = t }
func (u *User) IsDeleted() bool           { return u.deletedAt != nil }

// Initial returns the first letter of the display name, used when there is no avatar.
func (u *User) Initial() string {
	for _, r := range strings.TrimSpace(u.name) {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// Validate checks the user's required fields.
func (u *User) Validate() error {
	if u.id == "" {
		return fmt.Errorf("%w: user id is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(u.name) == "" {
		return fmt.Errorf("%w: user name is required", shared.ErrInvalidInput)
	}
	if !u.platform.Valid() {
		return fmt.Errorf("%w: %q", shared.ErrInvalidPlatform, u.platform)
	}
	if u.avatar != "" {
		if parsed, err := url.Parse(u.avatar); err != nil || parsed.Scheme == "" {
			return fmt.Errorf("%w: avatar must be an absolute URI", shared.ErrInvalidInput)
		}
	}
	return nil
}

// Clone returns an independent copy of u, or nil for a nil user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.deletedAt != nil {
		t := *u.deletedAt
		c.deletedAt = &t
	}
	return &c
}

type userJSON struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Avatar   string   `json:"avatar,omitempty"`
	Platform Platform `json:"platform"`
}

// MarshalJSON renders the public profile fields.
func (u *User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{ID: u.id, Name: u.name, Avatar: u.avatar, Platform: u.platform})
}

// UnmarshalJSON reads the public profile fields.
func (u *User) UnmarshalJSON(data []byte) error {
	var v userJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	u.id, u.name, u.avatar, u.platform = v.ID, v.Name, v.Avatar, v.Platform
	return nil
}
