package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/macracrm/macra-crm/internal/store"
)

// RequirePermission gates a route on the session store's role allow-list:
// 401 for anonymous callers, 403 for authenticated callers whose role lacks
// the permission.
func RequirePermission(session *store.SessionStore, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.IsAuthenticated() {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !session.HasPermission(permission) {
				writeAuthError(w, http.StatusForbidden, "permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
