// Package session identifies visitors with a signed cookie and keeps each
// visitor's in-memory navigation.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/ziadkadry99/studyhub/internal/logging"
	"github.com/ziadkadry99/studyhub/internal/navigator"
)

const (
	cookieName = "studyhub"
	visitorKey = "visitor_id"

	// cookieMaxAge keeps the visitor id, and with it bookmarks and theme,
	// for a year.
	cookieMaxAge = 86400 * 365
)

type ctxKey struct{}

// Visitor is one browser's in-memory state.
type Visitor struct {
	ID        string
	Navigator *navigator.Navigator

	lastSeen time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithIdleTimeout sets how long an unused visitor is kept in memory.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) { m.idle = d }
}

// WithLogger sets the manager logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = logging.OrNop(l) }
}

// WithSecureCookie marks the visitor cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(m *Manager) { m.store.Options.Secure = secure }
}

// OnEvict registers fn to run for every visitor dropped by Prune.
func OnEvict(fn func(visitor string)) Option {
	return func(m *Manager) { m.onEvict = append(m.onEvict, fn) }
}

// Manager issues visitor ids and owns the per-visitor navigators.
type Manager struct {
	store   *sessions.CookieStore
	src     navigator.Source
	logger  *zap.Logger
	idle    time.Duration
	now     func() time.Time
	onEvict []func(string)

	mu       sync.Mutex
	visitors map[string]*Visitor
}

// NewManager creates a Manager whose cookies are signed with key. An empty
// key gets a random one, so visitor ids do not survive a restart.
func NewManager(key []byte, src navigator.Source, opts ...Option) *Manager {
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	m := &Manager{
		store:    store,
		src:      src,
		logger:   zap.NewNop(),
		idle:     2 * time.Hour,
		now:      time.Now,
		visitors: make(map[string]*Visitor),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Middleware makes sure every request carries a visitor id, issuing a new
// cookie when the request has none or its cookie does not verify.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.store.Get(r, cookieName)
		if err != nil {
			m.logger.Debug("discarding invalid visitor cookie", zap.Error(err))
		}

		id, _ := sess.Values[visitorKey].(string)
		if _, perr := uuid.Parse(id); perr != nil {
			id = uuid.New().String()
			sess.Values[visitorKey] = id
			if err := sess.Save(r, w); err != nil {
				m.logger.Error("saving visitor cookie", zap.Error(err))
			}
			m.logger.Debug("new visitor", zap.String("visitor", id))
		}

		m.Visitor(id)
		next.ServeHTTP(w, r.WithContext(WithVisitorID(r.Context(), id)))
	})
}

// WithVisitorID returns a copy of ctx carrying the visitor id.
func WithVisitorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// VisitorID returns the visitor id stored by Middleware, or "".
func VisitorID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromRequest returns the visitor id of r.
func FromRequest(r *http.Request) string {
	return VisitorID(r.Context())
}

// Visitor returns the visitor with id, creating it at the course level on
// first use.
func (m *Manager) Visitor(id string) *Visitor {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.visitors[id]
	if !ok {
		v = &Visitor{ID: id, Navigator: navigator.New(m.src, m.logger.With(zap.String("visitor", id)))}
		m.visitors[id] = v
	}
	v.lastSeen = m.now()
	return v
}

// Navigator returns the navigator of visitor id.
func (m *Manager) Navigator(id string) *navigator.Navigator {
	return m.Visitor(id).Navigator
}

// Len returns the number of visitors in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.visitors)
}

// Prune drops visitors idle for longer than the idle timeout and returns
// how many were dropped.
func (m *Manager) Prune() int {
	cutoff := m.now().Add(-m.idle)

	m.mu.Lock()
	var evicted []string
	for id, v := range m.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(m.visitors, id)
			evicted = append(evicted, id)
		}
	}
	m.mu.Unlock()

	for _, id := range evicted {
		for _, fn := range m.onEvict {
			fn(id)
		}
	}
	if len(evicted) > 0 {
		m.logger.Debug("pruned idle visitors", zap.Int("count", len(evicted)))
	}
	return len(evicted)
}

// Run prunes idle visitors every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Prune()
		}
	}
}
