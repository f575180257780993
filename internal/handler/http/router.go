package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-activity-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-activity-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, activityHandler ActivityHandler, streamHandler StreamHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot send an Authorization header; Stream checks its own token.
		r.Get("/stream", streamHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/clock", activityHandler.Clock)
			r.Get("/stream/token", streamHandler.Token)

			r.Route("/activities", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionActivityViewOwn))
					r.Get("/slots", activityHandler.MySlots)
					r.Get("/stats", activityHandler.MyStats)
					r.Get("/my", activityHandler.MyList)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionActivityCreate))
					r.With(chiMiddleware.AllowContentType("application/json")).Post("/", activityHandler.Create)
					r.With(chiMiddleware.AllowContentType("application/json")).Put("/{id}", activityHandler.Update)
					r.Delete("/{id}", activityHandler.Delete)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionActivityViewTeam))
					r.Get("/", activityHandler.List)
					r.With(middleware.RequirePermission(user.PermissionActivityExport)).Get("/export", activityHandler.Export)
				})
			})

			r.Route("/employees/{employeeID}", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionActivityViewTeam))
				r.Get("/slots", activityHandler.EmployeeSlots)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
