package middleware

import (
	"net/http"
	"slices"

	"github.com/shopsphere/marketplace-api/internal/errors"
	"github.com/shopsphere/marketplace-api/internal/models"
	"github.com/shopsphere/marketplace-api/internal/utils/response"
)

// RequireRoles gates a route to callers whose token carries one of the
// given roles. Must run after Authenticate.
func RequireRoles(roles ...models.Role) func(http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				response.Error(w, errors.UnauthorizedError("Authentication required"))

				return
			}

			if !slices.Contains(roles, claims.Role) {
				LoggerFromContext(r.Context()).Warn("Role not allowed for route")
				response.Error(w, errors.ForbiddenError("You do not have permission to access this resource"))

				return
			}

			next.ServeHTTP(w, r)
		}
	}
}
