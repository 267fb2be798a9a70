package auth

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunestats/internal/models"
	"github.com/desertthunder/tunestats/internal/session"
	"github.com/desertthunder/tunestats/internal/shared"
	tu "github.com/desertthunder/tunestats/internal/testing"
)

func newTestProvider(t *testing.T, gw session.Gateway) *Provider {
	t.Helper()
	p, err := NewProvider(gw, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	return p
}

func TestNewProvider(t *testing.T) {
	t.Run("requires a gateway", func(t *testing.T) {
		_, err := NewProvider(nil, nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("starts loading until started", func(t *testing.T) {
		p := newTestProvider(t, tu.NewMockGateway())
		if !p.State().IsLoading {
			t.Error("expected loading state before Start")
		}
		if p.Phase() != session.Uninitialized {
			t.Errorf("Phase() = %s, want uninitialized", p.Phase())
		}

		state := p.Start(context.Background())
		if state.IsLoading || state.IsAuthenticated() {
			t.Errorf("expected settled unauthenticated state, got %s", state)
		}
	})
}

func TestContext(t *testing.T) {
	t.Run("FromContext without provider", func(t *testing.T) {
		_, err := FromContext(context.Background())
		if !errors.Is(err, ErrNoProvider) {
			t.Errorf("expected ErrNoProvider, got %v", err)
		}
		if err.Error() != "must be used within a Provider" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("FromContext with provider", func(t *testing.T) {
		p := newTestProvider(t, tu.NewMockGateway())
		ctx := WithProvider(context.Background(), p)

		got, err := FromContext(ctx)
		if err != nil {
			t.Fatalf("FromContext() error = %v", err)
		}
		if got != p {
			t.Error("expected the mounted provider")
		}
	})

	t.Run("MustFromContext panics without provider", func(t *testing.T) {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected panic")
			}
			if err, ok := r.(error); !ok || !errors.Is(err, ErrNoProvider) {
				t.Errorf("expected ErrNoProvider panic, got %v", r)
			}
		}()
		MustFromContext(context.Background())
	})
}

func TestProvider(t *testing.T) {
	ada := tu.NewUser("u1", models.Apple, "Ada")

	t.Run("Login and Logout pass through to the store", func(t *testing.T) {
		gw := tu.NewMockGateway(ada)
		p := newTestProvider(t, gw)
		p.Start(context.Background())

		user, err := p.Login(context.Background(), models.Apple)
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if user.ID() != "u1" {
			t.Errorf("expected u1, got %s", user.ID())
		}
		if p.Phase() != session.Authenticated {
			t.Errorf("Phase() = %s, want authenticated", p.Phase())
		}

		p.Logout(context.Background())
		if p.State().IsAuthenticated() {
			t.Error("expected logout to clear the user")
		}
		if gw.Remembered() != nil {
			t.Error("expected gateway to forget the user")
		}
	})

	t.Run("RequireUser", func(t *testing.T) {
		gw := tu.NewMockGateway(ada)
		p := newTestProvider(t, gw)

		if _, err := p.RequireUser(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated while loading, got %v", err)
		}

		p.Start(context.Background())
		if _, err := p.RequireUser(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}

		p.Login(context.Background(), models.Apple)
		user, err := p.RequireUser()
		if err != nil {
			t.Fatalf("RequireUser() error = %v", err)
		}
		if user.Name() != "Ada" {
			t.Errorf("expected Ada, got %s", user.Name())
		}
	})

	t.Run("Subscribe", func(t *testing.T) {
		p := newTestProvider(t, tu.NewMockGateway(ada))
		rec := &tu.StateRecorder{}
		unsubscribe := p.Subscribe(rec.Record)
		defer unsubscribe()

		p.Start(context.Background())
		p.Login(context.Background(), models.Apple)

		if len(rec.States()) != 3 {
			t.Errorf("expected 3 notifications, got %d", len(rec.States()))
		}
	})

	t.Run("Watch delivers the latest state and closes with ctx", func(t *testing.T) {
		p := newTestProvider(t, tu.NewMockGateway(ada))
		ctx, cancel := context.WithCancel(context.Background())
		updates := p.Watch(ctx)

		p.Start(context.Background())
		p.Login(context.Background(), models.Apple)

		select {
		case state := <-updates:
			if !state.IsAuthenticated() || state.IsLoading {
				t.Errorf("expected latest authenticated state, got %s", state)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for state")
		}

		cancel()
		select {
		case _, ok := <-updates:
			if ok {
				t.Error("expected closed channel after cancel")
			}
		case <-time.After(time.Second):
			t.Fatal("channel was not closed")
		}
	})
}
