package httpx

import (
	"net/http"
	"slices"

	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

// RequireRole admits callers whose token role is one of roles. It must run
// after AuthnMiddleware.
func RequireRole(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			if !slices.Contains(roles, claims.Role) {
				slogx.FromContext(r.Context()).Warn("role not permitted",
					"have", claims.Role,
					"want", roles,
				)
				WriteError(w, http.StatusForbidden, "forbidden", "insufficient role for this operation")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
