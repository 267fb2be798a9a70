package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunestats/internal/models"
	"github.com/desertthunder/tunestats/internal/repositories"
	"github.com/desertthunder/tunestats/internal/session"
	"github.com/desertthunder/tunestats/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	tokenType          = "Bearer"
	defaultDisplayName = "Music Lover"
)

var _ session.Gateway = (*Simulated)(nil)

// Simulated signs users in with mock platform profiles stored in SQLite.
type Simulated struct {
	users    *repositories.UserRepository
	sessions *repositories.SessionRepository
	limiter  *rate.Limiter
	config   shared.AuthConfig
	logger   *log.Logger

	// mu serializes profile creation and session replacement across sign ins.
	mu sync.Mutex
}

// NewSimulated creates a gateway backed by db, which must already be migrated.
//
// A zero rate limit disables throttling.
func NewSimulated(db *sql.DB, config shared.AuthConfig, logger *log.Logger) *Simulated {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	limit := rate.Limit(config.RateLimit)
	if config.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Simulated{
		users:    repositories.NewUserRepository(db),
		sessions: repositories.NewSessionRepository(db),
		limiter:  rate.NewLimiter(limit, burst),
		config:   config,
		logger:   shared.WithLogger(logger, "component", "gateway"),
	}
}

// CurrentUser returns the user of the newest remembered session.
//
// A session whose token has expired, or whose user no longer exists, is revoked and
// reported as no session.
func (g *Simulated) CurrentUser(ctx context.Context) (*models.User, error) {
	record, token, err := g.current()
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	if !token.Valid() {
		g.logger.Info("remembered session expired", "session", record.ID(), "expired_at", token.Expiry)
		g.revoke(record)
		return nil, nil
	}

	user, err := g.users.Get(record.UserID())
	if errors.Is(err, shared.ErrNotFound) {
		g.logger.Warn("remembered session has no user", "session", record.ID())
		g.revoke(record)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return user, nil
}

// Token returns the credential of the remembered session, or [shared.ErrNotAuthenticated].
func (g *Simulated) Token(ctx context.Context) (*oauth2.Token, error) {
	record, token, err := g.current()
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, shared.ErrNotAuthenticated
	}
	if !token.Valid() {
		return nil, fmt.Errorf("%w: token expired at %s", shared.ErrSessionExpired, token.Expiry.Format(time.RFC3339))
	}
	return token, nil
}

// LoginWithPlatform simulates an OAuth sign in with platform.
//
// Attempts are checked in order: platform, rate limit, deny list. The configured latency
// is then waited out unless ctx ends first. On success the platform's profile is
// created on first use and becomes the only remembered session.
func (g *Simulated) LoginWithPlatform(ctx context.Context, platform models.Platform) (*models.User, error) {
	if !platform.Valid() {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidPlatform, platform)
	}
	if !g.limiter.Allow() {
		return nil, fmt.Errorf("%w: try again shortly", shared.ErrRateLimited)
	}
	if g.config.Denied(string(platform)) {
		return nil, fmt.Errorf("%w: %s rejected the sign in", shared.ErrAccessDenied, platform.Label())
	}

	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	user, err := g.profile(platform)
	if err != nil {
		return nil, err
	}

	token := g.issueToken()
	record := models.NewSessionRecord(0, user.ID(), platform, token.AccessToken, token.TokenType, token.Expiry)
	revoked, err := g.sessions.Replace(record)
	if err != nil {
		return nil, fmt.Errorf("failed to remember session: %w", err)
	}

	g.logger.Debug("issued session", "user", user.ID(), "platform", platform, "expires", token.Expiry, "replaced", revoked)
	return user, nil
}

// Logout revokes every remembered session.
func (g *Simulated) Logout(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, err := g.sessions.RevokeAll()
	if err != nil {
		return err
	}

	g.logger.Debug("revoked sessions", "count", n)
	return nil
}

func (g *Simulated) current() (*models.SessionRecord, *oauth2.Token, error) {
	record, err := g.sessions.Current()
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read remembered session: %w", err)
	}

	token := &oauth2.Token{
		AccessToken: record.AccessToken(),
		TokenType:   record.TokenType(),
		Expiry:      record.ExpiresAt(),
	}
	return record, token, nil
}

func (g *Simulated) revoke(record *models.SessionRecord) {
	if err := g.sessions.Delete(record.ID()); err != nil {
		g.logger.Warn("failed to revoke session", "session", record.ID(), "error", err)
	}
}

// profile returns the platform's mock user, creating it on first sign in.
func (g *Simulated) profile(platform models.Platform) (*models.User, error) {
	user, err := g.users.GetByPlatform(platform)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up %s profile: %w", platform, err)
	}

	cfg := g.config.Platform(string(platform))
	name := cfg.DisplayName
	if name == "" {
		name = defaultDisplayName
	}

	user = models.NewUser(0, platform, name, cfg.Avatar)
	if err := g.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create %s profile: %w", platform, err)
	}

	g.logger.Info("created profile", "user", user.ID(), "platform", platform)
	return user, nil
}

func (g *Simulated) issueToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: shared.GenerateID(),
		TokenType:   tokenType,
		Expiry:      time.Now().Add(g.config.SessionTTL.Duration),
	}
}

// wait blocks for the configured latency or until ctx is done.
func (g *Simulated) wait(ctx context.Context) error {
	latency := g.config.Latency.Duration
	if latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("sign in interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
