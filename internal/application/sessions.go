package application

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Notifier = (*NotificationQueue)(nil)

// SessionCookieName is the cookie carrying the browser session id.
const SessionCookieName = "blogpanel_session"

// maxPendingNotifications bounds a queue nobody drains.
const maxPendingNotifications = 20

// NotificationQueue collects notifications until the next page render.
type NotificationQueue struct {
	mu      sync.Mutex
	pending []model.Notification
}

// Notify appends n, dropping the oldest entry when the queue is full.
func (q *NotificationQueue) Notify(_ context.Context, n model.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) >= maxPendingNotifications {
		q.pending = q.pending[1:]
	}
	q.pending = append(q.pending, n)
}

// Drain returns the pending notifications in order and empties the queue.
func (q *NotificationQueue) Drain() []model.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// ClientSession is one browser session's state.
type ClientSession struct {
	ID            string
	Store         *SessionStore
	Notifications *NotificationQueue

	lastSeen atomic.Int64
}

func (cs *ClientSession) touch(now time.Time) {
	cs.lastSeen.Store(now.UnixNano())
}

// SessionRegistry maps browser session ids to their ClientSession. Entries
// are created lazily and restored from the token store on first use.
type SessionRegistry struct {
	api    driven.AuthAPI
	tokens driven.TokenStore
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*ClientSession
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry(api driven.AuthAPI, tokens driven.TokenStore, logger *slog.Logger) *SessionRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionRegistry{
		api:      api,
		tokens:   tokens,
		logger:   logger,
		sessions: make(map[string]*ClientSession),
	}
}

// NewID returns a fresh browser session id.
func (r *SessionRegistry) NewID() string {
	return uuid.NewString()
}

// Lookup returns the session for id without creating it.
func (r *SessionRegistry) Lookup(id string) (*ClientSession, bool) {
	r.mu.RLock()
	cs, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		cs.touch(time.Now())
	}
	return cs, ok
}

// Get returns the session for id, creating and restoring it if needed.
// Invalid ids are replaced by a new one; callers must use the returned ID.
func (r *SessionRegistry) Get(ctx context.Context, id string) *ClientSession {
	if _, err := uuid.Parse(id); err != nil {
		id = r.NewID()
	}

	if cs, ok := r.Lookup(id); ok {
		return cs
	}

	r.mu.Lock()
	if cs, ok := r.sessions[id]; ok {
		r.mu.Unlock()
		return cs
	}
	cs := r.newClientSession(id)
	cs.touch(time.Now())
	r.sessions[id] = cs
	r.mu.Unlock()

	if err := cs.Store.Restore(ctx); err != nil {
		r.logger.Warn("restoring browser session failed", "session", shortID(id), "error", err)
	}
	return cs
}

// Resolve returns the session for id without registering anonymous
// visitors. Known ids and ids with a persisted credential resolve to their
// registered session and report true. Anything else gets a detached,
// signed-out session with an empty ID that is dropped after the request.
func (r *SessionRegistry) Resolve(ctx context.Context, id string) (*ClientSession, bool) {
	if cs, ok := r.Lookup(id); ok {
		return cs, true
	}
	if _, err := uuid.Parse(id); err == nil {
		credential, err := r.tokens.Get(ctx, tokenKey(id))
		if err != nil {
			r.logger.Warn("looking up persisted session failed", "session", shortID(id), "error", err)
		}
		if credential != "" {
			return r.Get(ctx, id), true
		}
	}
	return r.newClientSession(""), false
}

// Rotate moves cs under a fresh id, carrying its state, notifications and
// persisted credential, and returns the moved session. The old id no longer
// resolves.
func (r *SessionRegistry) Rotate(ctx context.Context, cs *ClientSession) *ClientSession {
	id := r.NewID()
	moved := &ClientSession{ID: id, Store: cs.Store, Notifications: cs.Notifications}
	moved.touch(time.Now())

	if err := cs.Store.rekey(ctx, tokenKey(id)); err != nil {
		r.logger.Warn("moving persisted credential failed", "session", shortID(id), "error", err)
	}

	r.mu.Lock()
	delete(r.sessions, cs.ID)
	r.sessions[id] = moved
	r.mu.Unlock()

	r.logger.Debug("browser session rotated", "from", shortID(cs.ID), "to", shortID(id))
	return moved
}

// Sweep drops sessions last used before cutoff and returns how many were
// dropped. A dropped session holding a persisted credential is restored on
// its next request.
func (r *SessionRegistry) Sweep(cutoff time.Time) int {
	limit := cutoff.UnixNano()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, cs := range r.sessions {
		if cs.lastSeen.Load() < limit {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// StartSweeper runs Sweep every interval for sessions idle longer than idle.
// It blocks until the context is canceled.
func (r *SessionRegistry) StartSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("session sweeper stopped")
			return
		case now := <-ticker.C:
			if n := r.Sweep(now.Add(-idle)); n > 0 {
				r.logger.Info("evicted idle browser sessions", "count", n, "remaining", r.Len())
			}
		}
	}
}

func (r *SessionRegistry) newClientSession(id string) *ClientSession {
	queue := &NotificationQueue{}
	return &ClientSession{
		ID:            id,
		Store:         NewSessionStore(r.api, r.tokens, queue, tokenKey(id), r.logger.With("session", shortID(id))),
		Notifications: queue,
	}
}

// Forget drops the in-memory entry for id. The persisted credential is left
// to the store's own logout path.
func (r *SessionRegistry) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func tokenKey(id string) string {
	return "session:" + id
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
