package auth

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const bearerPrefix = "Bearer "

// Middleware returns the authentication gate. It runs before routing on
// every request, extracts an optional bearer credential, and binds the
// verified identity to the request context. It never rejects: a missing or
// invalid credential leaves the request anonymous and the route policy
// decides later whether anonymous access is acceptable.
func Middleware(codec *TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := codec.Verify(strings.TrimPrefix(header, bearerPrefix), time.Now())
			if err != nil {
				slog.Debug("bearer token rejected",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
