package middleware

import (
	"net/http"

	"cyber-incident-desk/pkg/response"
)

// Staff roles known to the help desk. A token carrying anything else is
// treated as having no role at all.
const (
	RoleSuperAdmin   = "super_admin"
	RoleCyberAdmin   = "cyber_admin"
	RoleSupportAgent = "support_agent"
	RoleAuditor      = "auditor"
)

var knownRoles = map[string]bool{
	RoleSuperAdmin:   true,
	RoleCyberAdmin:   true,
	RoleSupportAgent: true,
	RoleAuditor:      true,
}

// RequireStaff ensures the authenticated user carries one of the known staff
// roles. A valid session without a role is denied, not merely unauthenticated.
func RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(UserContextKey).(*StaffClaims)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}

		if !knownRoles[claims.Role] {
			response.Error(w, http.StatusForbidden, "Access denied", "No staff role assigned")
			return
		}

		next(w, r)
	}
}

// RequireRole ensures the authenticated user has one of the allowed roles.
func RequireRole(allowedRoles ...string) func(http.HandlerFunc) http.HandlerFunc {
	allowed := make(map[string]bool, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = true
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(UserContextKey).(*StaffClaims)
			if !ok {
				response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}

			if !allowed[claims.Role] {
				response.Error(w, http.StatusForbidden, "Forbidden", "Insufficient role")
				return
			}

			next(w, r)
		}
	}
}

// RequireWriter allows every staff role except auditor, which is read-only.
func RequireWriter(next http.HandlerFunc) http.HandlerFunc {
	return RequireRole(RoleSuperAdmin, RoleCyberAdmin, RoleSupportAgent)(next)
}
