package middleware

import (
	"net/http"

	"github.com/frahmantamala/feedback-collector/internal"
	"github.com/frahmantamala/feedback-collector/pkg/logger"
)

// UserContext tags the request logger with the dashboard user set by the session gate.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := internal.UsernameFromContext(r.Context())
		if username == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "username", username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
