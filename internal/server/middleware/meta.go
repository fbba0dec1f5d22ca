package middleware

import (
	"net/http"

	"github.com/gosuda/backoffice/internal/auditlog"
)

// RequestMeta copies the client address and user agent into the request
// context for the audit trail.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auditlog.WithMeta(r.Context(), auditlog.MetaFromHeaders(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
