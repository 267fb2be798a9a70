// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/tunestats/internal/models"
)

// MockGateway is a test double for [session.Gateway].
//
// By default it behaves like an in-memory gateway: LoginWithPlatform remembers and returns
// the user registered for the platform, CurrentUser returns the remembered user and Logout
// forgets it. The Fn fields replace a method entirely and are used to block or fail calls.
type MockGateway struct {
	mu         sync.Mutex
	users      map[models.Platform]*models.User
	remembered *models.User

	CurrentUserFn func(ctx context.Context) (*models.User, error)
	LoginFn       func(ctx context.Context, platform models.Platform) (*models.User, error)
	LogoutFn      func(ctx context.Context) error

	lookups int
	logins  int
	logouts int
}

// NewMockGateway returns a gateway that signs in users for the given platforms.
func NewMockGateway(users ...*models.User) *MockGateway {
	g := &MockGateway{users: make(map[models.Platform]*models.User)}
	for _, u := range users {
		g.users[u.Platform()] = u
	}
	return g
}

// Remember sets the user returned by CurrentUser.
func (g *MockGateway) Remember(user *models.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.remembered = user.Clone()
}

// Remembered returns the user the gateway would restore.
func (g *MockGateway) Remembered() *models.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remembered.Clone()
}

func (g *MockGateway) CurrentUser(ctx context.Context) (*models.User, error) {
	g.mu.Lock()
	g.lookups++
	fn := g.CurrentUserFn
	remembered := g.remembered.Clone()
	g.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return remembered, nil
}

func (g *MockGateway) LoginWithPlatform(ctx context.Context, platform models.Platform) (*models.User, error) {
	g.mu.Lock()
	g.logins++
	fn := g.LoginFn
	g.mu.Unlock()

	if fn != nil {
		return fn(ctx, platform)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	user, ok := g.users[platform]
	if !ok {
		return nil, errors.New("access denied")
	}
	g.remembered = user.Clone()
	return user.Clone(), nil
}

func (g *MockGateway) Logout(ctx context.Context) error {
	g.mu.Lock()
	g.logouts++
	fn := g.LogoutFn
	g.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.remembered = nil
	return nil
}

// Lookups returns the number of CurrentUser calls.
func (g *MockGateway) Lookups() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lookups
}

// Logins returns the number of LoginWithPlatform calls.
func (g *MockGateway) Logins() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.logins
}

// Logouts returns the number of Logout calls.
func (g *MockGateway) Logouts() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.logouts
}

// NewUser builds a valid user with a fixed id.
func NewUser(id string, platform models.Platform, name string) *models.User {
	user := models.NewUser(0, platform, name, "")
	user.SetID(id)
	return user
}

// StateRecorder collects session snapshots delivered to a listener.
type StateRecorder struct {
	mu     sync.Mutex
	states []models.SessionState
}

// Record is a session listener.
func (r *StateRecorder) Record(state models.SessionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

// States returns the snapshots received so far.
func (r *StateRecorder) States() []models.SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.SessionState(nil), r.states...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
