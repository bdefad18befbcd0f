// Package api implements the yeargoals REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"
)

// TokenCookie is the cookie carrying the session token for browser clients.
const TokenCookie = "token"

// TokenParser verifies a session token and returns its user id.
type TokenParser interface {
	Parse(raw string) (string, error)
}

type ctxKey struct{}

// UserID returns the authenticated user id stored in ctx.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// AuthMiddleware resolves the calling user.
// If tokens is nil, all requests act as devUserID (disabled mode).
// Otherwise requests must carry a valid "Authorization: Bearer <token>" header
// or a token cookie.
func AuthMiddleware(tokens TokenParser, devUserID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokens == nil {
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), devUserID)))
				return
			}
			raw := bearerToken(r)
			if raw == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			userID, err := tokens.Parse(raw)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}
