package middleware

import (
	"net/http"

	"github.com/ekurtal/havale/handlers"
	"github.com/ekurtal/havale/models"
	"github.com/ekurtal/havale/pkg"
)

// RequireRole, context'teki kimliğin rolünü kontrol eden middleware.
// Auth middleware'dan SONRA zincirlenmelidir:
//
//	auth.Require(RequireRole(models.RoleEmployee, handler))
//
// Fail-closed: context'te kimlik yoksa (zincir yanlış kurulmuşsa) istek
// 403 değil 401 ile reddedilir — asla sessizce geçirilmez.
func RequireRole(role models.Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := handlers.IdentityFromContext(r.Context())
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		if identity.Role != role {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}
