package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AdminUser is the Basic-auth user name for the office API.
const AdminUser = "admin"

// HashPassword returns a bcrypt hash suitable for CHURCH_ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// requiresAdmin reports whether r writes through the JSON API or downloads an export.
// Exports carry member contact details.
func requiresAdmin(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/export/") {
		return true
	}
	if !strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// AdminAuth returns middleware that requires HTTP Basic credentials on every
// mutating /api/ request and every /export/ download. API reads and HTML pages pass through.
// PRE: passwordHash is a bcrypt hash, or empty to leave the API open (development only)
// POST: Unauthenticated writes get 401 with a Basic challenge
func AdminAuth(passwordHash string) func(http.Handler) http.Handler {
	hash := []byte(passwordHash)
	return func(next http.Handler) http.Handler {
		if len(hash) == 0 {
			slog.Warn("auth_event", "event", "admin_auth_disabled")
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresAdmin(r) {
				next.ServeHTTP(w, r)
				return
			}
			user, pass, ok := r.BasicAuth()
			if ok && subtle.ConstantTimeCompare([]byte(user), []byte(AdminUser)) == 1 &&
				bcrypt.CompareHashAndPassword(hash, []byte(pass)) == nil {
				next.ServeHTTP(w, r)
				return
			}
			slog.Warn("auth_event", "event", "admin_auth_failed", "method", r.Method, "path", r.URL.Path, "ip", clientIP(r))
			w.Header().Set("WWW-Authenticate", `Basic realm="churchdesk", charset="UTF-8"`)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
		})
	}
}
