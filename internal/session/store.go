package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunestats/internal/models"
	"github.com/desertthunder/tunestats/internal/shared"
	"golang.org/x/sync/singleflight"
)

// Phase names the state machine position of a [Store].
type Phase int

const (
	Uninitialized Phase = iota
	Loading
	Authenticated
	Unauthenticated
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return ""
	}
}

// Listener receives a snapshot after each visible state change.
//
// Listeners run synchronously in change order, outside the state lock, so they may read
// [Store.State] or [Store.Phase]. They must not call Initialize, Login or Logout.
type Listener func(models.SessionState)

type listenerEntry struct {
	id int
	fn Listener
}

// Store owns the session state and serializes every change to it.
type Store struct {
	gateway Gateway
	logger  *log.Logger

	mu         sync.Mutex
	user       *models.User
	loading    bool
	started    bool
	resolved   bool
	generation uint64
	published  models.SessionState
	listeners  []listenerEntry
	nextID     int

	// notifyMu is always taken before mu and held until listeners return, so
	// listeners see changes in order.
	notifyMu sync.Mutex
	init     singleflight.Group
}

// NewStore creates a [Store] in the Uninitialized phase. The state reports loading
// until [Store.Initialize] settles it.
func NewStore(gateway Gateway, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Store{
		gateway:   gateway,
		logger:    shared.WithLogger(logger, "component", "session"),
		loading:   true,
		published: models.NewSessionState(nil, true),
	}
}

// State returns a snapshot of the current session.
func (s *Store) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.NewSessionState(s.user, s.loading)
}

// Phase returns the current state machine phase.
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case !s.started:
		return Uninitialized
	case s.loading:
		return Loading
	case s.user != nil:
		return Authenticated
	default:
		return Unauthenticated
	}
}

// Subscribe registers fn for state change notifications. The returned func removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Initialize restores the remembered session from the gateway.
//
// Concurrent calls share a single lookup and return the same settled state.
// Calls made after the state has settled, or after a Login or Logout, return the
// current state without touching the gateway.
// Lookup failures are logged and settle the store as unauthenticated.
func (s *Store) Initialize(ctx context.Context) models.SessionState {
	s.mu.Lock()
	resolved := s.resolved
	s.mu.Unlock()

	if !resolved {
		s.init.Do("initialize", func() (any, error) {
			s.restore(ctx)
			return nil, nil
		})
	}

	return s.State()
}

func (s *Store) restore(ctx context.Context) {
	s.lockForChange()
	if s.resolved {
		s.unlockUnchanged()
		return
	}
	s.generation++
	gen := s.generation
	s.started = true
	s.loading = true
	s.commitAndUnlock()

	user, err := s.gateway.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("restoring session failed, continuing signed out", "error", &LookupError{Err: err})
		user = nil
	}

	s.lockForChange()
	if gen != s.generation {
		s.unlockUnchanged()
		s.logger.Debug("discarding superseded session lookup", "generation", gen)
		return
	}
	s.user = user.Clone()
	s.loading = false
	s.resolved = true
	s.commitAndUnlock()

	if user != nil {
		s.logger.Info("session restored", "user", user.ID(), "platform", user.Platform())
	}
}

// Login signs in with platform through the gateway.
//
// While the gateway works the state reports loading and keeps the previous user.
// On success the new user is applied in a single change. On failure the previous
// user stays, loading is cleared, and a [*LoginError] is returned. If a later Login or
// Logout supersedes this call, its result is discarded and the error wraps
// [ErrLoginSuperseded].
func (s *Store) Login(ctx context.Context, platform models.Platform) (*models.User, error) {
	if !platform.Valid() {
		return nil, &LoginError{Platform: platform, Err: fmt.Errorf("%w: %q", shared.ErrInvalidPlatform, platform)}
	}

	s.lockForChange()
	s.generation++
	gen := s.generation
	s.started = true
	s.resolved = true
	s.loading = true
	s.commitAndUnlock()

	s.logger.Debug("login started", "platform", platform, "generation", gen)

	user, err := s.gateway.LoginWithPlatform(ctx, platform)
	if err == nil {
		err = checkLoginResult(user, platform)
	}

	s.lockForChange()
	if gen != s.generation {
		signedOut := s.user == nil && !s.loading
		s.unlockUnchanged()
		return nil, s.discardLogin(ctx, platform, signedOut, err)
	}

	s.loading = false
	if err != nil {
		s.commitAndUnlock()
		s.logger.Warn("login failed", "platform", platform, "error", err)
		return nil, &LoginError{Platform: platform, Err: err}
	}

	s.user = user.Clone()
	s.commitAndUnlock()

	s.logger.Info("logged in", "user", user.ID(), "platform", platform)
	return user.Clone(), nil
}

// discardLogin handles a login result that arrived after a newer change.
//
// A successful sign in the gateway already remembered is forgotten again when the
// newer change left the store signed out.
func (s *Store) discardLogin(ctx context.Context, platform models.Platform, signedOut bool, err error) error {
	s.logger.Info("discarding superseded login", "platform", platform)

	if err != nil {
		return &LoginError{Platform: platform, Err: fmt.Errorf("%w: %w", ErrLoginSuperseded, err)}
	}

	if signedOut {
		if clearErr := s.gateway.Logout(ctx); clearErr != nil {
			s.logger.Warn("could not forget superseded login", "error", &LogoutClearError{Err: clearErr})
		}
	}

	return &LoginError{Platform: platform, Err: ErrLoginSuperseded}
}

func checkLoginResult(user *models.User, platform models.Platform) error {
	if user == nil {
		return fmt.Errorf("%w: gateway returned no user", shared.ErrAuthFailed)
	}
	if user.Platform() != platform {
		return fmt.Errorf("%w: gateway returned a %s user for %s", shared.ErrAuthFailed, user.Platform(), platform)
	}
	return nil
}

// Logout signs out immediately and asks the gateway to forget the remembered user.
//
// The local change always happens; a gateway failure is only logged.
func (s *Store) Logout(ctx context.Context) {
	s.lockForChange()
	s.generation++
	hadUser := s.user != nil
	s.user = nil
	s.loading = false
	s.started = true
	s.resolved = true
	s.commitAndUnlock()

	if err := s.gateway.Logout(ctx); err != nil {
		s.logger.Warn("logout could not clear remembered session", "error", &LogoutClearError{Err: err})
	}

	if hadUser {
		s.logger.Info("logged out")
	}
}

// lockForChange takes notifyMu and then mu. Release with commitAndUnlock or unlockUnchanged.
func (s *Store) lockForChange() {
	s.notifyMu.Lock()
	s.mu.Lock()
}

func (s *Store) unlockUnchanged() {
	s.mu.Unlock()
	s.notifyMu.Unlock()
}

// commitAndUnlock publishes the current state to listeners if it changed and releases both locks.
//
// mu is released before listeners run; notifyMu is held until they return.
// Must be called after lockForChange.
func (s *Store) commitAndUnlock() {
	defer s.notifyMu.Unlock()

	snapshot := models.NewSessionState(s.user, s.loading)
	if snapshot.Equal(s.published) {
		s.mu.Unlock()
		return
	}
	s.published = snapshot

	listeners := make([]Listener, len(s.listeners))
	for i, l := range s.listeners {
		listeners[i] = l.fn
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
