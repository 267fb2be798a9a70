package main

import (
	"context"
	"time"

	"github.com/desertthunder/tunestats/internal/models"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// tokenSource is implemented by gateways that can report the credential behind the remembered session.
type tokenSource interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

type authStatus struct {
	Session   models.SessionState `json:"session"`
	ExpiresAt *time.Time          `json:"expires_at,omitempty"`
}

// AuthLogin signs in with the platform given by --platform.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	platform, err := models.ParsePlatform(cmd.String("platform"))
	if err != nil {
		return err
	}

	provider, err := r.Provider()
	if err != nil {
		return err
	}

	r.logger.Info("signing in", "platform", platform)

	user, err := provider.Login(ctx, platform)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Signed in as %s with %s\n", user.Name(), user.Platform().Label())
}

// AuthLogout forgets the remembered session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	provider, err := r.Provider()
	if err != nil {
		return err
	}

	provider.Logout(ctx)
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus restores the remembered session and reports it.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	provider, err := r.Provider()
	if err != nil {
		return err
	}

	status := authStatus{Session: provider.Start(ctx)}
	if ts, ok := r.gateway.(tokenSource); ok && status.Session.IsAuthenticated() {
		if token, err := ts.Token(ctx); err == nil {
			status.ExpiresAt = &token.Expiry
		} else {
			r.logger.Debug("no token for session", "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	user := status.Session.User
	if user == nil {
		return r.writePlain("✗ Not signed in\n")
	}

	r.writePlain("✓ Signed in\n")
	r.writePlain("User: %s\n", user.Name())
	r.writePlain("Platform: %s\n", user.Platform().Label())
	if status.ExpiresAt != nil {
		r.writePlain("Expires: %s\n", status.ExpiresAt.Format(time.RFC1123))
	}
	return nil
}
