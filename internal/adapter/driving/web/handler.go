// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/blogpanel/internal/application"
	"github.com/ericfisherdev/blogpanel/internal/domain/model"
	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

const sessionCookieMaxAge = 30 * 24 * time.Hour

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	api           driven.BlogAPI
	sessions      *application.SessionRegistry
	media         *mediaProxy
	secureCookies bool
	logger        *slog.Logger
}

// NewHandler creates a Handler. mediaURL is the origin serving uploaded
// images; it is proxied under /media/.
func NewHandler(
	api driven.BlogAPI,
	sessions *application.SessionRegistry,
	mediaURL *url.URL,
	secureCookies bool,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		api:           api,
		sessions:      sessions,
		media:         newMediaProxy(mediaURL, nil, logger),
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// pageHandler is an HTTP handler that receives the caller's browser session.
type pageHandler func(w http.ResponseWriter, r *http.Request, cs *application.ClientSession)

// public resolves the browser session and runs fn.
func (h *Handler) public(fn pageHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, h.clientSession(w, r))
	}
}

// private is public for signed-in sessions and a redirect to /login for
// everyone else.
func (h *Handler) private(fn pageHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs := h.clientSession(w, r)
		if !cs.Store.IsAuthenticated() {
			seeOther(w, r, "/login")
			return
		}
		fn(w, r, cs)
	}
}

// clientSession returns the session named by the request cookie. Page views
// only resolve a known or restorable session and otherwise run on a
// detached, signed-out one. Other methods register the session, issuing a
// new cookie when the request has none or an unknown format.
func (h *Handler) clientSession(w http.ResponseWriter, r *http.Request) *application.ClientSession {
	var id string
	if cookie, err := r.Cookie(application.SessionCookieName); err == nil {
		id = cookie.Value
	}

	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		cs, _ := h.sessions.Resolve(r.Context(), id)
		return cs
	}

	cs := h.sessions.Get(r.Context(), id)
	if cs.ID != id {
		h.setSessionCookie(w, cs.ID)
	}
	return cs
}

// rotateSession moves a signed-in session to a fresh id unless the id was
// minted by this request.
func (h *Handler) rotateSession(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) *application.ClientSession {
	cookie, err := r.Cookie(application.SessionCookieName)
	if err != nil || cookie.Value != cs.ID {
		return cs
	}
	moved := h.sessions.Rotate(r.Context(), cs)
	h.setSessionCookie(w, moved.ID)
	return moved
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     application.SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
}

// render writes content inside the layout. Pending toasts are drained into
// the page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, cs *application.ClientSession, title string, status int, content templ.Component) {
	token := h.csrfToken(w, r)
	session := cs.Store.Snapshot()

	layout := vm.LayoutViewModel{
		Title:         title,
		CSRFToken:     token,
		Authenticated: session.Authenticated(),
		Username:      viewerName(session),
		Nav:           navLinks(session.Authenticated(), r.URL.Path),
		Toasts:        toToasts(cs.Notifications.Drain()),
	}

	ctx := templates.WithCSRFToken(r.Context(), token)
	var buf bytes.Buffer
	if err := templates.Layout(layout, content).Render(ctx, &buf); err != nil {
		h.logger.Error("failed to render page", "title", title, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, cs *application.ClientSession, status int, msg string) {
	h.render(w, r, cs, http.StatusText(status), status, pages.Error(vm.ErrorViewModel{Status: status, Message: msg}))
}

// NotFound renders the 404 page for unmatched paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	h.renderError(w, r, cs, http.StatusNotFound, "Page not found.")
}

func navLinks(authenticated bool, current string) []vm.NavLink {
	links := []vm.NavLink{{Label: "Home", Href: "/dashboard"}}
	if authenticated {
		links = append(links,
			vm.NavLink{Label: "Category", Href: "/categories"},
			vm.NavLink{Label: "Users", Href: "/users"},
			vm.NavLink{Label: "Profile", Href: "/profile"},
		)
	} else {
		links = append(links,
			vm.NavLink{Label: "Login", Href: "/login"},
			vm.NavLink{Label: "Register", Href: "/register"},
		)
	}
	for i := range links {
		links[i].Active = current == links[i].Href || strings.HasPrefix(current, links[i].Href+"/")
	}
	return links
}

func viewerName(s model.Session) string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.DisplayName()
}

func viewerProfile(cs *application.ClientSession) model.Profile {
	if p := cs.Store.Snapshot().Profile; p != nil {
		return *p
	}
	return model.Profile{}
}

func notify(ctx context.Context, cs *application.ClientSession, level model.NotificationLevel, msg string) {
	cs.Notifications.Notify(ctx, model.Notification{Level: level, Message: msg})
}

func seeOther(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// startFetch begins a request-scoped read. Callers Close the fetcher when the
// response is written.
func startFetch[T any](ctx context.Context, logger *slog.Logger, locator string, read application.ReadFunc[T]) *application.Fetcher[T] {
	f := application.NewFetcherWithContext(ctx, read, logger)
	f.SetLocator(locator)
	return f
}

// settle waits for f and logs a failed read.
func settle[T any](ctx context.Context, logger *slog.Logger, f *application.Fetcher[T], what string) application.Result[T] {
	res := f.Await(ctx)
	if res.Err != nil && !errors.Is(res.Err, context.Canceled) {
		logger.Warn("loading page section failed", "section", what, "locator", res.Locator, "error", res.Err)
	}
	return res
}

// detailOr returns the server-reported detail of err, or fallback.
func detailOr(err error, fallback string) string {
	if d := driven.Detail(err); d != "" {
		return d
	}
	return fallback
}
