package middleware

import (
	"net/http"

	"posledger/internal/models"
)

// RequireOwner gates administrative routes on the role carried by the token.
// The ledger core never authenticates; it trusts the role established here.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		role, ok := RoleFromContext(r.Context())
		if !ok || role != models.RoleOwner {
			http.Error(w, "owner privileges required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
