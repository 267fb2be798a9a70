package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunestats/internal/auth"
	"github.com/desertthunder/tunestats/internal/models"
	"github.com/desertthunder/tunestats/internal/shared"
	tu "github.com/desertthunder/tunestats/internal/testing"
)

func newTestRouter(t *testing.T, gw *tu.MockGateway) (*BasicRouter, *auth.Provider, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := log.New(&buf)
	provider, err := auth.NewProvider(gw, logger)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	provider.Start(context.Background())
	return NewRouter(provider, logger, shared.ServerConfig{}), provider, &buf
}

func do(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return rec, body
}

func TestRouter(t *testing.T) {
	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if got := strings.Join(order, ","); got != "first,second,handler" {
			t.Errorf("unexpected order %s", got)
		}
	})

	t.Run("method filtering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodGet {
			t.Errorf("expected Allow: GET, got %q", rec.Header().Get("Allow"))
		}
	})

	t.Run("several methods on one path", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/item", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		router.Handle(http.MethodDelete, "/item", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		for method, want := range map[string]int{
			http.MethodGet:    http.StatusOK,
			http.MethodDelete: http.StatusNoContent,
			http.MethodPut:    http.StatusMethodNotAllowed,
		} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(method, "/item", nil))
			if rec.Code != want {
				t.Errorf("%s: expected %d, got %d", method, want, rec.Code)
			}
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/item", nil))
		if got := rec.Header().Get("Allow"); got != "DELETE, GET" {
			t.Errorf("expected Allow: DELETE, GET, got %q", got)
		}
	})

	t.Run("recovers from panics", func(t *testing.T) {
		var buf bytes.Buffer
		router := NewBasicRouter()
		router.Use(Recover(log.New(&buf)))
		router.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if !strings.Contains(buf.String(), "handler panicked") {
			t.Errorf("expected panic to be logged, got %q", buf.String())
		}
	})
}

func TestSessionHandler(t *testing.T) {
	ada := tu.NewUser("u1", models.Apple, "Ada")

	t.Run("session starts signed out", func(t *testing.T) {
		router, _, logs := newTestRouter(t, tu.NewMockGateway())

		rec, body := do(t, router, http.MethodGet, "/api/session")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if body["is_authenticated"] != false || body["is_loading"] != false {
			t.Errorf("unexpected session %v", body)
		}
		if !strings.Contains(logs.String(), "path=/api/session") {
			t.Errorf("expected request to be logged, got %q", logs.String())
		}
	})

	t.Run("login then stats then logout", func(t *testing.T) {
		router, provider, _ := newTestRouter(t, tu.NewMockGateway(ada))

		rec, body := do(t, router, http.MethodPost, "/api/login?platform=apple")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %v", rec.Code, body)
		}
		user, _ := body["user"].(map[string]any)
		if user["name"] != "Ada" {
			t.Errorf("expected Ada, got %v", body["user"])
		}

		rec, body = do(t, router, http.MethodGet, "/api/stats")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		dashboard, _ := body["dashboard"].(map[string]any)
		if dashboard["platform"] != "apple" {
			t.Errorf("expected apple dashboard, got %v", dashboard["platform"])
		}

		rec, body = do(t, router, http.MethodPost, "/api/logout")
		if rec.Code != http.StatusOK || body["is_authenticated"] != false {
			t.Errorf("expected signed out session, got %d %v", rec.Code, body)
		}
		if provider.State().IsAuthenticated() {
			t.Error("provider still authenticated after logout")
		}
	})

	t.Run("stats requires a session", func(t *testing.T) {
		router, _, _ := newTestRouter(t, tu.NewMockGateway())

		rec, body := do(t, router, http.MethodGet, "/api/stats")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
		if body["error"] != "not authenticated" {
			t.Errorf("unexpected error %v", body["error"])
		}
	})

	t.Run("login errors", func(t *testing.T) {
		tt := []struct {
			name       string
			target     string
			gatewayErr error
			status     int
		}{
			{name: "missing platform", target: "/api/login", status: http.StatusBadRequest},
			{name: "unknown platform", target: "/api/login?platform=tidal", status: http.StatusBadRequest},
			{name: "platform unavailable", target: "/api/login?platform=spotify", status: http.StatusBadGateway},
			{
				name:       "denied by platform",
				target:     "/api/login?platform=apple",
				gatewayErr: fmt.Errorf("%w: Apple Music rejected the sign in", shared.ErrAccessDenied),
				status:     http.StatusForbidden,
			},
			{
				name:       "rate limited",
				target:     "/api/login?platform=apple",
				gatewayErr: fmt.Errorf("%w: try again shortly", shared.ErrRateLimited),
				status:     http.StatusTooManyRequests,
			},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				gw := tu.NewMockGateway(ada)
				if tc.gatewayErr != nil {
					gw.LoginFn = func(context.Context, models.Platform) (*models.User, error) {
						return nil, tc.gatewayErr
					}
				}
				router, provider, _ := newTestRouter(t, gw)

				rec, body := do(t, router, http.MethodPost, tc.target)
				if rec.Code != tc.status {
					t.Errorf("expected %d, got %d: %v", tc.status, rec.Code, body)
				}
				if _, ok := body["error"]; !ok {
					t.Errorf("expected error field, got %v", body)
				}
				if provider.State().IsAuthenticated() {
					t.Error("failed login should not authenticate")
				}
			})
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		router, _, _ := newTestRouter(t, tu.NewMockGateway())

		rec, _ := do(t, router, http.MethodGet, "/api/login?platform=apple")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("without a provider", func(t *testing.T) {
		rec, body := do(t, NewSessionHandler(log.New(io.Discard)), http.MethodGet, "/api/session")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if body["error"] != auth.ErrNoProvider.Error() {
			t.Errorf("unexpected error %v", body["error"])
		}
	})

	t.Run("sets secure headers", func(t *testing.T) {
		router, _, _ := newTestRouter(t, tu.NewMockGateway())

		rec, _ := do(t, router, http.MethodGet, "/api/session")
		if rec.Header().Get("X-Frame-Options") != "DENY" {
			t.Errorf("expected X-Frame-Options DENY, got %q", rec.Header().Get("X-Frame-Options"))
		}
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("expected nosniff, got %q", rec.Header().Get("X-Content-Type-Options"))
		}
	})

	t.Run("request limit", func(t *testing.T) {
		provider, err := auth.NewProvider(tu.NewMockGateway(), log.New(io.Discard))
		if err != nil {
			t.Fatalf("NewProvider() error = %v", err)
		}
		router := NewRouter(provider, log.New(io.Discard), shared.ServerConfig{RequestLimit: 2})

		for i := range 2 {
			if rec, _ := do(t, router, http.MethodGet, "/api/session"); rec.Code != http.StatusOK {
				t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
			}
		}

		rec, body := do(t, router, http.MethodGet, "/api/session")
		if rec.Code != http.StatusTooManyRequests {
			t.Errorf("expected 429, got %d", rec.Code)
		}
		if body["error"] != "Too Many Requests" {
			t.Errorf("unexpected error %v", body["error"])
		}
	})

	t.Run("healthz reports the phase", func(t *testing.T) {
		router, _, _ := newTestRouter(t, tu.NewMockGateway())

		_, body := do(t, router, http.MethodGet, "/healthz")
		if body["phase"] != "unauthenticated" {
			t.Errorf("unexpected phase %v", body["phase"])
		}
	})
}

func TestServe(t *testing.T) {
	t.Run("stops when ctx is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), log.New(io.Discard))
		}()

		cancel()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Serve did not return after cancel")
		}
	})

	t.Run("reports listen errors", func(t *testing.T) {
		err := Serve(context.Background(), "256.0.0.1:bad", http.NotFoundHandler(), log.New(io.Discard))
		if err == nil {
			t.Error("expected error for invalid address")
		}
	})
}
