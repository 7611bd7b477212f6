// Package guard holds the auth middleware. It sits above pkg/session because
// resolving a session into a user needs the user store: the session carries
// only the user ID, and the full record is re-read on every request so that
// wallet balance, admin flag, and school link are never stale.
package guard

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/boofino/boofino/app/lang"
	"github.com/boofino/boofino/app/models"
	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/pkg/auth"
	"github.com/boofino/boofino/pkg/logger"
	"github.com/boofino/boofino/pkg/response"
	"github.com/boofino/boofino/pkg/session"
)

type userKey struct{}

type serviceKey struct{}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(userKey{}).(*models.User)
	return u
}

// ServiceName returns the backend service name attached by ServiceAuth.
func ServiceName(r *http.Request) string {
	s, _ := r.Context().Value(serviceKey{}).(string)
	return s
}

// WithUser attaches a user to the request context. Exported for tests that
// need to pre-seed an authenticated request.
func WithUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey{}, u))
}

// Resolve loads the user referenced by the session, if any, and stores it in
// the request context. It never rejects: anonymous requests pass through so
// public routes work. A session that points at a deleted user is destroyed.
func Resolve(users repositories.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromCtx(r)
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			oid, err := primitive.ObjectIDFromHex(sess.UserID())
			if err != nil {
				if sess.UserID() != "" {
					sess.Destroy(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindByID(r.Context(), oid)
			if err != nil {
				if err == repositories.ErrUserNotFound {
					sess.Destroy(w)
				} else {
					logger.WithCtx(r.Context()).Error("resolve session user", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, WithUser(r, user))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r) == nil {
			response.Error(w, http.StatusUnauthorized, lang.NotLoggedIn)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects non-admin users with 403 (and anonymous with 401).
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := CurrentUser(r)
		if u == nil {
			response.Error(w, http.StatusUnauthorized, lang.NotLoggedIn)
			return
		}
		if !u.IsAdmin {
			response.Error(w, http.StatusForbidden, lang.NoPermission)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireGuest rejects already-authenticated users. Register and login are
// guest-only: a logged-in client must log out first.
func RequireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r) != nil {
			response.Error(w, http.StatusForbidden, lang.AlreadyLoggedIn)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ServiceAuth authenticates backend services by Bearer token. Used by the
// fulfillment integration to push order status updates.
func ServiceAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Error(w, http.StatusUnauthorized, lang.NotLoggedIn)
			return
		}

		claims, err := auth.ValidateServiceToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, lang.NotLoggedIn)
			return
		}

		ctx := context.WithValue(r.Context(), serviceKey{}, claims.Service)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
