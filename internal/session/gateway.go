package session

import (
	"context"

	"github.com/desertthunder/tunestats/internal/models"
)

// Gateway performs the platform sign in and remembers the signed-in user between runs.
type Gateway interface {
	// CurrentUser returns the remembered user, or nil when nobody is signed in.
	// Errors are reserved for storage failures.
	CurrentUser(ctx context.Context) (*models.User, error)

	// LoginWithPlatform signs in with platform. It may take arbitrarily long and may fail
	// (network, denied, invalid platform).
	LoginWithPlatform(ctx context.Context, platform models.Platform) (*models.User, error)

	// Logout forgets the remembered user. Best-effort.
	Logout(ctx context.Context) error
}
