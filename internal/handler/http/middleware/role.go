package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-activity-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequirePermission lets the request through only when the caller's role holds
// every listed permission.
func RequirePermission(permissions ...user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, user.ErrInvalidToken)
				return
			}

			roleStr, _ := claims["role"].(string)
			role := user.Role(roleStr)
			for _, p := range permissions {
				if !user.HasPermission(role, p) {
					slog.DebugContext(r.Context(), "Permission denied", "role", role, "permission", p, "path", r.URL.Path)
					response.Forbidden(w, "Insufficient permissions: required '"+string(p)+"'")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
