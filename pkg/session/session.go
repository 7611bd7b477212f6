// Package session provides cookie sessions backed by the cache store
// (Redis in production, memory in tests).
//
// The session deliberately carries only the authenticated user's ID. Role,
// wallet balance and school assignment are re-read from the user collection
// on every request, so authorization and monetary decisions never act on
// stale session data.
//
// Usage (middleware):
//
//	r.Use(session.Middleware(session.DefaultOptions()))
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.SetUserID(id)
//	sess.Save(w)
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/boofino/boofino/config"
	"github.com/boofino/boofino/pkg/cache"
)

const userIDKey = "user_id"

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		CookieName: "boofino_session",
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     config.AppEnv() == "production" || config.AppEnv() == "prod",
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

type ctxKey struct{}

// Session is an in-request session handle.
type Session struct {
	id      string
	data    map[string]interface{}
	opts    Options
	changed bool
}

// newID generates a cryptographically random 32-byte hex session ID.
func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func storeKey(id string) string { return "boofino:session:" + id }

func load(id string) map[string]interface{} {
	var data map[string]interface{}
	if cache.Get(storeKey(id), &data) {
		return data
	}
	return map[string]interface{}{}
}

// SetUserID records the authenticated user on the session.
func (s *Session) SetUserID(id string) {
	s.data[userIDKey] = id
	s.changed = true
}

// UserID returns the authenticated user's ID, or "" for anonymous sessions.
func (s *Session) UserID() string {
	v, ok := s.data[userIDKey]
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// Set stores an arbitrary value under key in the session.
func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Delete removes a key from the session.
func (s *Session) Delete(key string) {
	delete(s.data, key)
	s.changed = true
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Regenerate swaps the session onto a fresh ID and drops the old store entry.
// Called on privilege changes (login, register) so a cookie planted before
// authentication can never name an authenticated session.
func (s *Session) Regenerate() error {
	id, err := newID()
	if err != nil {
		return fmt.Errorf("session: regenerate: %w", err)
	}
	if err := cache.Del(storeKey(s.id)); err != nil {
		return fmt.Errorf("session: regenerate: %w", err)
	}
	s.id = id
	s.changed = true
	return nil
}

// Save persists the session to the store and writes the cookie.
func (s *Session) Save(w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	if err := cache.Set(storeKey(s.id), json.RawMessage(raw), s.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    s.id,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})

	s.changed = false
	return nil
}

// Destroy removes the session from the store and expires the cookie (logout).
func (s *Session) Destroy(w http.ResponseWriter) error {
	s.data = map[string]interface{}{}
	s.changed = false

	if err := cache.Del(storeKey(s.id)); err != nil {
		return fmt.Errorf("session: destroy: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     s.opts.Path,
		MaxAge:   -1,
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})
	return nil
}

// Middleware loads (or creates) the session for every request and injects it
// into the request context. Handlers call session.FromCtx(r) to access it.
func Middleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{opts: opts}

			if cookie, err := r.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				sess.id = cookie.Value
				sess.data = load(sess.id)
			} else {
				id, _ := newID()
				sess.id = id
				sess.data = map[string]interface{}{}
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromCtx retrieves the session from the request context.
// Returns an empty (unsaved) session if none is present.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	id, _ := newID()
	return &Session{id: id, data: map[string]interface{}{}, opts: DefaultOptions()}
}
