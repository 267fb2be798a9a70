package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunestats/internal/auth"
	"github.com/desertthunder/tunestats/internal/models"
	"github.com/desertthunder/tunestats/internal/session"
	"github.com/desertthunder/tunestats/internal/shared"
	"github.com/desertthunder/tunestats/internal/stats"
)

const (
	sessionPath = "/api/session"
	loginPath   = "/api/login"
	logoutPath  = "/api/logout"
	statsPath   = "/api/stats"
)

type errorResponse struct {
	Error string `json:"error"`
}

type loginResponse struct {
	User    *models.User        `json:"user,omitempty"`
	Session models.SessionState `json:"session"`
}

type statsResponse struct {
	User      *models.User     `json:"user"`
	Dashboard models.Dashboard `json:"dashboard"`
}

// SessionHandler serves the JSON session and stats API.
type SessionHandler struct {
	logger *log.Logger
}

// NewSessionHandler creates a [SessionHandler].
func NewSessionHandler(logger *log.Logger) *SessionHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SessionHandler{logger: logger}
}

// Routes implements [Handler].
func (h *SessionHandler) Routes() []string {
	return []string{sessionPath, loginPath, logoutPath, statsPath}
}

// ServeHTTP implements [http.Handler].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	provider, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch r.URL.Path {
	case sessionPath:
		if allow(w, r, http.MethodGet) {
			writeJSON(w, http.StatusOK, provider.State())
		}
	case loginPath:
		if allow(w, r, http.MethodPost) {
			h.login(w, r, provider)
		}
	case logoutPath:
		if allow(w, r, http.MethodPost) {
			provider.Logout(r.Context())
			writeJSON(w, http.StatusOK, provider.State())
		}
	case statsPath:
		if allow(w, r, http.MethodGet) {
			h.stats(w, provider)
		}
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *SessionHandler) login(w http.ResponseWriter, r *http.Request, provider *auth.Provider) {
	platform, err := models.ParsePlatform(r.URL.Query().Get("platform"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := provider.Login(r.Context(), platform)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, loginResponse{User: user, Session: provider.State()})
	case errors.Is(err, session.ErrLoginSuperseded):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, shared.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, shared.ErrInvalidPlatform):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrAccessDenied):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		h.logger.Warn("login failed", "platform", platform, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func (h *SessionHandler) stats(w http.ResponseWriter, provider *auth.Provider) {
	user, err := provider.RequireUser()
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	d, err := stats.ForUser(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{User: user, Dashboard: d})
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
