package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-activity-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts only verified access tokens that carry a company and
// employee. It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}
		if companyID, ok := claims["company_id"].(string); !ok || companyID == "" {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}
		if employeeID, ok := claims["employee_id"].(string); !ok || employeeID == "" {
			response.HandleError(w, user.ErrEmployeeIDRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
