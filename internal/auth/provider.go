package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunestats/internal/models"
	"github.com/desertthunder/tunestats/internal/session"
	"github.com/desertthunder/tunestats/internal/shared"
)

// ErrNoProvider is returned when a view asks for the session outside a mounted [Provider].
var ErrNoProvider = errors.New("must be used within a Provider")

type providerKey struct{}

// Provider owns the process-wide [session.Store].
type Provider struct {
	store  *session.Store
	logger *log.Logger
}

// NewProvider creates a provider whose store talks to gateway.
func NewProvider(gateway session.Gateway, logger *log.Logger) (*Provider, error) {
	if gateway == nil {
		return nil, fmt.Errorf("%w: auth gateway is required", shared.ErrServiceUnavailable)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Provider{
		store:  session.NewStore(gateway, logger),
		logger: shared.WithLogger(logger, "component", "auth"),
	}, nil
}

// Start restores the remembered session. Calling it again returns the current state.
func (p *Provider) Start(ctx context.Context) models.SessionState {
	state := p.store.Initialize(ctx)
	p.logger.Debug("provider started", "state", state)
	return state
}

// State returns the current session snapshot.
func (p *Provider) State() models.SessionState { return p.store.State() }

// Phase returns the store's state machine phase.
func (p *Provider) Phase() session.Phase { return p.store.Phase() }

// Login signs in with platform. See [session.Store.Login].
func (p *Provider) Login(ctx context.Context, platform models.Platform) (*models.User, error) {
	return p.store.Login(ctx, platform)
}

// Logout signs out. It never fails.
func (p *Provider) Logout(ctx context.Context) { p.store.Logout(ctx) }

// Subscribe registers fn for every state change. The returned func removes it.
func (p *Provider) Subscribe(fn session.Listener) func() { return p.store.Subscribe(fn) }

// Watch returns a channel holding the latest state change. Intermediate states are
// dropped when the reader falls behind. The channel is closed when ctx is done.
func (p *Provider) Watch(ctx context.Context) <-chan models.SessionState {
	ch := make(chan models.SessionState, 1)

	var mu sync.Mutex
	closed := false

	unsubscribe := p.store.Subscribe(func(state models.SessionState) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}

		select {
		case <-ch:
		default:
		}
		ch <- state
	})

	go func() {
		<-ctx.Done()
		unsubscribe()

		mu.Lock()
		defer mu.Unlock()
		closed = true
		close(ch)
	}()

	return ch
}

// RequireUser returns the signed-in user, or [shared.ErrNotAuthenticated].
func (p *Provider) RequireUser() (*models.User, error) {
	state := p.store.State()
	if state.IsLoading && !state.IsAuthenticated() {
		return nil, fmt.Errorf("%w: session is still loading", shared.ErrNotAuthenticated)
	}
	if !state.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	return state.User, nil
}

// WithProvider returns a copy of ctx carrying p.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// FromContext returns the provider mounted in ctx, or [ErrNoProvider].
func FromContext(ctx context.Context) (*Provider, error) {
	if ctx == nil {
		return nil, ErrNoProvider
	}
	p, ok := ctx.Value(providerKey{}).(*Provider)
	if !ok || p == nil {
		return nil, ErrNoProvider
	}
	return p, nil
}

// MustFromContext is like [FromContext] but panics when no provider is mounted.
func MustFromContext(ctx context.Context) *Provider {
	p, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return p
}
