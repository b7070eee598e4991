package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	dErrors "threecs/pkg/domain-errors"
	"threecs/pkg/platform/httputil"
	"threecs/pkg/requestcontext"
)

// RequireBearerSecret rejects requests whose Authorization header does not
// carry "Bearer <secret>". An empty secret disables the check.
func RequireBearerSecret(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - invalid bearer secret",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
