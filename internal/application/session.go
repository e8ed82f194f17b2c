// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

// User-facing notification texts.
const (
	MsgLoggedIn           = "Logged in successfully!"
	MsgInvalidCredentials = "Invalid credentials!"
	MsgRegistered         = "Registered successfully! You can now log in."
	MsgRegistrationFailed = "Registration failed"
	MsgLoggedOut          = "Logged out!"
	MsgProfileUpdated     = "Profile updated successfully!"
	MsgProfileFailed      = "Failed to update profile."
	MsgProfileFetchFailed = "Failed to fetch user data. Please log in again."
)

// errCredentialExpired marks a credential whose decoded expiry has passed.
var errCredentialExpired = errors.New("credential expired")

// SessionStore holds the authentication state of one client: the access
// credential and the profile it belongs to. One store exists per browser
// session or CLI invocation.
//
// Network calls run without the locks held. Results are applied through
// sessionState, which discards anything issued for an earlier credential.
type SessionStore struct {
	api      driven.AuthAPI
	tokens   driven.TokenStore
	notifier driven.Notifier
	logger   *slog.Logger
	now      func() time.Time

	// persistMu is held across every credential transition and its token
	// store write, and guards key. It is always taken before mu.
	persistMu sync.Mutex
	key       string

	mu    sync.Mutex
	state sessionState
}

// NewSessionStore creates a store persisting its credential in tokens under key.
func NewSessionStore(api driven.AuthAPI, tokens driven.TokenStore, notifier driven.Notifier, key string, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		api:      api,
		tokens:   tokens,
		notifier: notifier,
		key:      key,
		logger:   logger,
		now:      time.Now,
	}
}

// Restore adopts the persisted credential, if any, and fetches its profile.
// A successful fetch rewrites the persisted credential, renewing its age.
func (s *SessionStore) Restore(ctx context.Context) error {
	s.persistMu.Lock()
	credential, err := s.tokens.Get(ctx, s.key)
	if err != nil {
		s.persistMu.Unlock()
		return fmt.Errorf("restoring session credential: %w", err)
	}
	if credential == "" {
		s.persistMu.Unlock()
		return nil
	}

	s.mu.Lock()
	if s.state.credential == credential {
		s.mu.Unlock()
		s.persistMu.Unlock()
		return nil
	}
	var ticket fetchTicket
	s.state, ticket = s.state.adopt(credential, nil)
	s.mu.Unlock()
	s.persistMu.Unlock()

	s.refreshProfile(ctx, ticket, true)
	return nil
}

// Login exchanges creds for a credential. On failure the session is left
// exactly as it was.
func (s *SessionStore) Login(ctx context.Context, creds model.Credentials) error {
	res, err := s.api.Login(ctx, creds)
	if err != nil {
		s.notify(ctx, model.NotificationError, MsgInvalidCredentials)
		return fmt.Errorf("logging in: %w", err)
	}

	s.persistMu.Lock()
	s.storeCredential(ctx, res.Access)
	s.mu.Lock()
	var ticket fetchTicket
	s.state, ticket = s.state.adopt(res.Access, provisionalProfile(res.User))
	s.mu.Unlock()
	s.persistMu.Unlock()

	s.logger.Info("session logged in", "username", creds.Username)
	s.notify(ctx, model.NotificationSuccess, MsgLoggedIn)

	s.refreshProfile(ctx, ticket, false)
	return nil
}

// Register creates an account. It never authenticates the session.
func (s *SessionStore) Register(ctx context.Context, reg model.Registration) error {
	if err := s.api.Register(ctx, reg); err != nil {
		msg := MsgRegistrationFailed + "!"
		if detail := driven.Detail(err); detail != "" {
			msg = MsgRegistrationFailed + ": " + detail
		}
		s.notify(ctx, model.NotificationError, msg)
		return fmt.Errorf("registering: %w", err)
	}

	s.notify(ctx, model.NotificationSuccess, MsgRegistered)
	return nil
}

// Logout clears the session and its persisted credential. The in-memory
// state is cleared even when the persisted copy cannot be removed.
func (s *SessionStore) Logout(ctx context.Context) {
	s.persistMu.Lock()
	s.mu.Lock()
	s.state = s.state.cleared()
	s.mu.Unlock()
	s.forget(ctx)
	s.persistMu.Unlock()

	s.notify(ctx, model.NotificationInfo, MsgLoggedOut)
}

// UpdateUser applies a partial profile update and replaces the session
// profile with the server's copy.
func (s *SessionStore) UpdateUser(ctx context.Context, update model.ProfileUpdate) error {
	credential := s.Credential()
	if credential == "" {
		s.notify(ctx, model.NotificationError, MsgProfileFailed)
		return fmt.Errorf("updating profile: %w", driven.ErrUnauthorized)
	}

	profile, err := s.api.UpdateProfile(ctx, credential, update)
	if err != nil {
		s.notify(ctx, model.NotificationError, MsgProfileFailed)
		return fmt.Errorf("updating profile: %w", err)
	}

	s.mu.Lock()
	if s.state.credential == credential {
		s.state = s.state.withProfile(profile)
	}
	s.mu.Unlock()

	s.notify(ctx, model.NotificationSuccess, MsgProfileUpdated)
	return nil
}

// Snapshot returns a copy of the current session.
func (s *SessionStore) Snapshot() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.snapshot()
}

// Credential returns the current access credential, or "".
func (s *SessionStore) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.credential
}

// IsAuthenticated reports whether the session holds a credential.
func (s *SessionStore) IsAuthenticated() bool {
	return s.Credential() != ""
}

// refreshProfile runs the profile fetch for ticket. A failure for the current
// credential logs the session out. On success the credential is written
// back when rewrite is set.
func (s *SessionStore) refreshProfile(ctx context.Context, ticket fetchTicket, rewrite bool) {
	profile, err := s.fetchProfile(ctx, ticket.credential)

	// An abandoned request says nothing about the credential.
	if err != nil && ctx.Err() != nil {
		s.logger.Debug("profile fetch abandoned", "error", err)
		return
	}

	s.persistMu.Lock()
	s.mu.Lock()
	var applied bool
	if err == nil {
		s.state, applied = s.state.withFetchedProfile(ticket, profile)
	} else {
		s.state, applied = s.state.withFetchFailure(ticket)
	}
	s.mu.Unlock()

	if applied && err != nil {
		s.forget(ctx)
	} else if applied && rewrite {
		s.storeCredential(ctx, ticket.credential)
	}
	s.persistMu.Unlock()

	if !applied {
		s.logger.Debug("discarding stale profile fetch", "generation", ticket.generation)
		return
	}
	if err == nil {
		return
	}

	s.logger.Warn("profile fetch failed, logging out", "error", err)
	s.notify(ctx, model.NotificationError, MsgProfileFetchFailed)
	s.notify(ctx, model.NotificationInfo, MsgLoggedOut)
}

func (s *SessionStore) fetchProfile(ctx context.Context, credential string) (model.Profile, error) {
	if info, err := InspectCredential(credential); err == nil && info.Expired(s.now()) {
		return model.Profile{}, fmt.Errorf("fetching profile: %w (expired %s)", errCredentialExpired, info.ExpiresAt.Format(time.RFC3339))
	}
	return s.api.FetchProfile(ctx, credential)
}

// rekey moves the persisted credential to key. Later writes use key.
func (s *SessionStore) rekey(ctx context.Context, key string) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	old := s.key
	s.key = key
	credential := s.Credential()
	if credential != "" {
		if err := s.tokens.Set(ctx, key, credential); err != nil {
			return fmt.Errorf("persisting credential under new key: %w", err)
		}
	}
	if err := s.tokens.Delete(context.WithoutCancel(ctx), old); err != nil {
		return fmt.Errorf("removing credential under old key: %w", err)
	}
	return nil
}

// storeCredential persists credential. The caller holds persistMu. Failures
// are logged only.
func (s *SessionStore) storeCredential(ctx context.Context, credential string) {
	if err := s.tokens.Set(ctx, s.key, credential); err != nil {
		s.logger.Warn("persisting session credential failed", "error", err)
	}
}

// forget removes the persisted credential. The caller holds persistMu.
// Failures are logged only.
func (s *SessionStore) forget(ctx context.Context) {
	if err := s.tokens.Delete(context.WithoutCancel(ctx), s.key); err != nil {
		s.logger.Warn("removing persisted credential failed", "error", err)
	}
}

func (s *SessionStore) notify(ctx context.Context, level model.NotificationLevel, msg string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, model.Notification{Level: level, Message: msg})
}
