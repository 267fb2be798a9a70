package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunestats/internal/auth"
	"github.com/desertthunder/tunestats/internal/models"
	tu "github.com/desertthunder/tunestats/internal/testing"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, gw *tu.MockGateway) (*Model, *auth.Provider) {
	t.Helper()

	provider, err := auth.NewProvider(gw, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	ctx, cancel := context.WithCancel(auth.WithProvider(context.Background(), provider))
	t.Cleanup(cancel)

	m, err := NewModel(ctx)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m, provider
}

func TestNewModel(t *testing.T) {
	t.Run("requires a provider", func(t *testing.T) {
		_, err := NewModel(context.Background())
		if !errors.Is(err, auth.ErrNoProvider) {
			t.Errorf("expected ErrNoProvider, got %v", err)
		}
	})

	t.Run("starts on the landing view", func(t *testing.T) {
		m, _ := newTestModel(t, tu.NewMockGateway())
		if m.CurrentView() != LandingView {
			t.Errorf("expected landing view, got %s", m.CurrentView())
		}
		if !strings.Contains(m.View(), "TuneStats") {
			t.Errorf("landing view missing title: %s", m.View())
		}
	})
}

func TestNavigation(t *testing.T) {
	ada := tu.NewUser("u1", models.Apple, "Ada")

	t.Run("remembered session opens the dashboard", func(t *testing.T) {
		gw := tu.NewMockGateway()
		gw.Remember(ada)
		m, _ := newTestModel(t, gw)

		m.Update(m.start()())

		if m.CurrentView() != DashboardView {
			t.Fatalf("expected dashboard view, got %s", m.CurrentView())
		}
		if !strings.Contains(m.View(), "Ada's listening stats") {
			t.Errorf("dashboard missing header: %s", m.View())
		}
	})

	t.Run("loading state stays on the landing view", func(t *testing.T) {
		m, _ := newTestModel(t, tu.NewMockGateway())

		m.Update(sessionChangedMsg(models.NewSessionState(nil, true)))
		if m.CurrentView() != LandingView {
			t.Errorf("expected landing view, got %s", m.CurrentView())
		}
		if !strings.Contains(m.View(), "Checking for a saved session") {
			t.Errorf("expected loading indicator, got: %s", m.View())
		}
	})

	t.Run("login then logout", func(t *testing.T) {
		gw := tu.NewMockGateway(ada)
		m, provider := newTestModel(t, gw)
		m.Update(m.start()())

		m.Update(runes("a"))
		if m.CurrentView() != LoginView || m.selected != models.Apple {
			t.Fatalf("expected apple login view, got %s/%s", m.CurrentView(), m.selected)
		}

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil || !m.busy {
			t.Fatal("expected connecting state and a login command")
		}
		if !strings.Contains(m.View(), "Connecting to Apple Music") {
			t.Errorf("expected connecting indicator, got: %s", m.View())
		}

		m.Update(m.login(models.Apple)())
		m.Update(sessionChangedMsg(provider.State()))

		if m.CurrentView() != DashboardView {
			t.Fatalf("expected dashboard after login, got %s", m.CurrentView())
		}
		if m.theme != models.Apple {
			t.Errorf("expected apple theme, got %s", m.theme)
		}

		m.Update(runes("l"))
		m.logout()()
		m.Update(sessionChangedMsg(provider.State()))

		if m.CurrentView() != LandingView {
			t.Errorf("expected landing view after logout, got %s", m.CurrentView())
		}
	})

	t.Run("failed login shows the error", func(t *testing.T) {
		m, _ := newTestModel(t, tu.NewMockGateway(ada))
		m.Update(m.start()())

		m.Update(runes("s"))
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m.Update(m.login(models.Spotify)())

		if m.busy {
			t.Error("expected connecting state to clear")
		}
		if m.loginErr == nil {
			t.Fatal("expected login error")
		}
		if !strings.Contains(m.View(), "Spotify login failed") {
			t.Errorf("expected error line, got: %s", m.View())
		}
		if m.CurrentView() != LoginView {
			t.Errorf("expected to stay on login view, got %s", m.CurrentView())
		}
	})

	t.Run("esc closes the login modal", func(t *testing.T) {
		m, _ := newTestModel(t, tu.NewMockGateway())

		m.Update(runes("s"))
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		if m.CurrentView() != LandingView {
			t.Errorf("expected landing view, got %s", m.CurrentView())
		}
	})
}

func TestKeys(t *testing.T) {
	ada := tu.NewUser("u1", models.Apple, "Ada")

	t.Run("theme toggle on landing", func(t *testing.T) {
		m, _ := newTestModel(t, tu.NewMockGateway())

		m.Update(runes("t"))
		if m.theme != models.Apple {
			t.Errorf("expected apple theme, got %s", m.theme)
		}
		m.Update(runes("t"))
		if m.theme != models.Spotify {
			t.Errorf("expected spotify theme, got %s", m.theme)
		}
	})

	t.Run("platform tabs in login modal", func(t *testing.T) {
		m, _ := newTestModel(t, tu.NewMockGateway())

		m.Update(runes("s"))
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
		if m.selected != models.Apple {
			t.Errorf("expected apple selected, got %s", m.selected)
		}
	})

	t.Run("dashboard tabs wrap around", func(t *testing.T) {
		gw := tu.NewMockGateway()
		gw.Remember(ada)
		m, _ := newTestModel(t, gw)
		m.Update(m.start()())

		m.Update(tea.KeyMsg{Type: tea.KeyLeft})
		if m.tab != 2 {
			t.Errorf("expected genres tab, got %d", m.tab)
		}
		if !strings.Contains(m.View(), "Pop") {
			t.Errorf("genres tab missing Pop: %s", m.View())
		}

		m.Update(tea.KeyMsg{Type: tea.KeyRight})
		if m.tab != 0 {
			t.Errorf("expected tracks tab, got %d", m.tab)
		}
	})

	t.Run("quit", func(t *testing.T) {
		m, _ := newTestModel(t, tu.NewMockGateway())

		_, cmd := m.Update(runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestBar(t *testing.T) {
	if got := bar(50, 10); got != "█████░░░░░" {
		t.Errorf("bar(50, 10) = %s", got)
	}
	if got := bar(150, 4); got != "████" {
		t.Errorf("bar(150, 4) = %s", got)
	}
}
