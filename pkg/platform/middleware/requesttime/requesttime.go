// Package requesttime pins a single "now" for each request so created_at
// values, email timestamps and PDF dates agree within one submission.
package requesttime

import (
	"net/http"
	"time"

	"threecs/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
