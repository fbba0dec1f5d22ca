package middleware

import (
	"net/http"

	"github.com/gosuda/backoffice/internal/domain"
)

// RequireUserType returns middleware that checks if the authenticated user has
// one of the allowed user types. It must be chained after the Auth middleware.
//
// Returns 401 Unauthorized when no user is found in context and 403 Forbidden
// when the user type does not match.
func RequireUserType(types ...domain.UserType) func(http.Handler) http.Handler {
	allowed := make(map[domain.UserType]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ut, ok := UserTypeFromContext(r.Context())
			if !ok || ut == "" {
				writeJSONError(w, http.StatusUnauthorized, unauthorizedBody)
				return
			}

			if _, match := allowed[ut]; !match {
				writeJSONError(w, http.StatusForbidden, unauthorizedBody)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience wrapper for RequireUserType(domain.UserTypeAdmin).
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireUserType(domain.UserTypeAdmin)
}
