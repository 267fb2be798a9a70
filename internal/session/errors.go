package session

import (
	"errors"
	"fmt"

	"github.com/desertthunder/tunestats/internal/models"
)

// ErrLoginSuperseded is returned by [Store.Login] when a later Login or Logout
// replaced the attempt before it resolved. The attempt's result was discarded.
var ErrLoginSuperseded = errors.New("login superseded by a newer session change")

// LookupError wraps a failure to read the remembered session during Initialize.
type LookupError struct {
	Err error
}

func (e *LookupError) Error() string { return fmt.Sprintf("session lookup failed: %v", e.Err) }
func (e *LookupError) Unwrap() error { return e.Err }

// LoginError wraps a failed sign in for a platform.
type LoginError struct {
	Platform models.Platform
	Err      error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("%s login failed: %v", e.Platform.Label(), e.Err)
}

func (e *LoginError) Unwrap() error { return e.Err }

// LogoutClearError wraps a failure to clear the remembered session.
type LogoutClearError struct {
	Err error
}

func (e *LogoutClearError) Error() string { return fmt.Sprintf("failed to clear session: %v", e.Err) }
func (e *LogoutClearError) Unwrap() error { return e.Err }
