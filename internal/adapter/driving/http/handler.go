// Package httphandler serves the JSON status API and the shared middleware
// stack wrapping every route.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/blogpanel/internal/application"
)

// Handler is the HTTP driving adapter that serves the JSON status API.
type Handler struct {
	sessions *application.SessionRegistry
	apiURL   string
	logger   *slog.Logger
	now      func() time.Time
}

// NewHandler creates a Handler. apiURL is reported by the health endpoint.
func NewHandler(sessions *application.SessionRegistry, apiURL string, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		apiURL:   apiURL,
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterAPIRoutes registers the JSON routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/session", h.Session)
}

// ApplyMiddleware wraps handler with recovery and request logging.
func ApplyMiddleware(handler http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, handler)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Time:     h.now().UTC().Format(time.RFC3339),
		API:      h.apiURL,
		Sessions: h.sessions.Len(),
	})
}

// Session reports the authentication state of the caller's browser session.
// A session known only from its persisted credential is restored first;
// anonymous callers never create one.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(application.SessionCookieName)
	if err != nil {
		writeJSON(w, http.StatusOK, SessionResponse{})
		return
	}

	cs, _ := h.sessions.Resolve(r.Context(), cookie.Value)
	writeJSON(w, http.StatusOK, toSessionResponse(cs.Store.Snapshot(), h.now()))
}
