// Package requestid assigns every HTTP request an id that is echoed in the
// X-Request-ID response header and attached to log entries.
package requestid

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

type contextKey struct{}

// Header is the HTTP header carrying the request id.
const Header = "X-Request-ID"

// validID limits client-supplied ids to a safe charset so they can be logged verbatim.
var validID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// FromContext returns the request id stored in ctx, or "".
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// Middleware reuses a well-formed X-Request-ID from the client or generates a UUID v4.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !validID.MatchString(id) {
			id = uuid.NewString()
		}

		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
