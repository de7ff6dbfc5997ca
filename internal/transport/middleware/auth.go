package middleware

import (
	"net/http"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/frahmantamala/hr-portal/pkg/logger"
)

// IdentifyFunc resolves a bearer token to a user id.
type IdentifyFunc func(token string) (int64, error)

// IdentifyUser attaches the caller's user id to the request context when a
// valid bearer token is present. Requests without a usable token pass
// through anonymously; no route is refused here.
func IdentifyUser(identify IdentifyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := transport.ExtractTokenFromHeader(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := identify(token)
			if err != nil {
				logger.From(r.Context()).Debug("ignoring unusable bearer token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := internal.ContextWithUserID(r.Context(), userID)
			ctx = logger.With(ctx, "user_id", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
