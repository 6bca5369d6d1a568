// Package session resolves the customer session id of a request.
package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	HeaderName = "X-Session-ID"
	CookieName = "kitchen_session"

	maxIDLength = 64
)

type ctxKey struct{}

// NewSessionMiddleware takes the session id from the X-Session-ID header or
// the kitchen_session cookie and issues a new one when neither is present.
func NewSessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderName)
		if id == "" {
			if c, err := r.Cookie(CookieName); err == nil {
				id = c.Value
			}
		}

		if id == "" || len(id) > maxIDLength {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(HeaderName, id)

		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// WithID stores id in ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// ID returns the session id stored by the middleware.
func ID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)

	return id
}
