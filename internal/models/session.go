package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/tunestats/internal/shared"
)

// SessionState is a snapshot of the client's authentication status.
//
// Authentication is derived from the presence of a user, so a state can never
// claim to be authenticated without one.
type SessionState struct {
	User      *User
	IsLoading bool
}

// NewSessionState builds a snapshot holding a private copy of user.
func NewSessionState(user *User, loading bool) SessionState {
	return SessionState{User: user.Clone(), IsLoading: loading}
}

// IsAuthenticated reports whether a user is present.
func (s SessionState) IsAuthenticated() bool {
	return s.User != nil
}

// Equal reports whether two snapshots describe the same state.
func (s SessionState) Equal(o SessionState) bool {
	if s.IsLoading != o.IsLoading || s.IsAuthenticated() != o.IsAuthenticated() {
		return false
	}
	if s.User == nil {
		return true
	}
	return s.User.ID() == o.User.ID() &&
		s.User.Platform() == o.User.Platform() &&
		s.User.Name() == o.User.Name() &&
		s.User.Avatar() == o.User.Avatar()
}

func (s SessionState) String() string {
	if s.User == nil {
		return fmt.Sprintf("unauthenticated loading=%t", s.IsLoading)
	}
	return fmt.Sprintf("authenticated user=%s platform=%s loading=%t", s.User.ID(), s.User.Platform(), s.IsLoading)
}

type sessionStateJSON struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"is_authenticated"`
	IsLoading       bool  `json:"is_loading"`
}

// MarshalJSON includes the derived is_authenticated flag.
func (s SessionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionStateJSON{User: s.User, IsAuthenticated: s.IsAuthenticated(), IsLoading: s.IsLoading})
}

// SessionRecord is the persisted sign in for a user, holding the simulated platform token.
type SessionRecord struct {
	id          string
	sequence    int
	userID      string
	platform    Platform
	accessToken string
	tokenType   string
	expiresAt   time.Time
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewSessionRecord creates a record for userID that expires at expiresAt.
func NewSessionRecord(sequence int, userID string, platform Platform, accessToken, tokenType string, expiresAt time.Time) *SessionRecord {
	now := time.Now()
	return &SessionRecord{
		sequence:    sequence,
		userID:      userID,
		platform:    platform,
		accessToken: accessToken,
		tokenType:   tokenType,
		expiresAt:   expiresAt,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (r *SessionRecord) ID() string            { return r.id }
func (r *SessionRecord) Sequence() int         { return r.sequence }
func (r *SessionRecord) UserID() string        { return r.userID }
func (r *SessionRecord) Platform() Platform    { return r.platform }
func (r *SessionRecord) AccessToken() string   { return r.accessToken }
func (r *SessionRecord) TokenType() string     { return r.tokenType }
func (r *SessionRecord) ExpiresAt() time.Time  { return r.expiresAt }
func (r *SessionRecord) CreatedAt() time.Time  { return r.createdAt }
func (r *SessionRecord) UpdatedAt() time.Time  { return r.updatedAt }
func (r *SessionRecord) DeletedAt() *time.Time { return r.deletedAt }

func (r *SessionRecord) SetID(id string)           { r.id = id }
func (r *SessionRecord) SetSequence(sequence int)  { r.sequence = sequence }
func (r *SessionRecord) SetExpiresAt(t time.Time)  { r.expiresAt = t }
func (r *SessionRecord) SetCreatedAt(t time.Time)  { r.createdAt = t }
func (r *SessionRecord) SetUpdatedAt(t time.Time)  { r.updatedAt = t }
func (r *SessionRecord) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// Validate checks the record's required fields.
func (r *SessionRecord) Validate() error {
	if r.id == "" {
		return fmt.Errorf("%w: session id is required", shared.ErrInvalidInput)
	}
	if r.userID == "" {
		return fmt.Errorf("%w: session user id is required", shared.ErrInvalidInput)
	}
	if !r.platform.Valid() {
		return fmt.Errorf("%w: %q", shared.ErrInvalidPlatform, r.platform)
	}
	if r.accessToken == "" {
		return fmt.Errorf("%w: session access token is required", shared.ErrInvalidInput)
	}
	if r.expiresAt.IsZero() {
		return fmt.Errorf("%w: session expiry is required", shared.ErrInvalidInput)
	}
	return nil
}
