package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/handler/http/middleware"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/jwt"
)

type Handlers struct {
	Records       RecordHandler
	Approvals     ApprovalHandler
	Notifications NotificationHandler
	Employees     EmployeeHandler
	Audit         AuditHandler
}

func NewRouter(cfg config.AppConfig, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ponto-backend"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/records", func(r chi.Router) {
				r.With(middleware.RequireRole(jwt.RoleAdmin)).Get("/", h.Records.ListByDate)
				r.With(middleware.RequireRole(jwt.RoleLeader, jwt.RoleAdmin)).Get("/team", h.Records.ListTeam)
				r.Get("/{id}", h.Records.GetByID)
				r.With(middleware.RequireRole(jwt.RoleLeader, jwt.RoleAdmin)).Post("/{id}/decision", h.Records.Decide)
			})

			r.Route("/justifications", func(r chi.Router) {
				r.Post("/", h.Approvals.CreateJustification)
				r.With(middleware.RequireRole(jwt.RoleLeader, jwt.RoleAdmin)).Group(func(r chi.Router) {
					r.Get("/pending", h.Approvals.PendingJustifications)
					r.Post("/{id}/approve", h.Approvals.ApproveJustification)
					r.Post("/{id}/reject", h.Approvals.RejectJustification)
				})
			})

			r.Route("/adjustments", func(r chi.Router) {
				r.Post("/", h.Approvals.CreateAdjustment)
				r.With(middleware.RequireRole(jwt.RoleLeader, jwt.RoleAdmin)).Group(func(r chi.Router) {
					r.Get("/pending", h.Approvals.PendingAdjustments)
					r.Post("/{id}/approve", h.Approvals.ApproveAdjustment)
					r.Post("/{id}/reject", h.Approvals.RejectAdjustment)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notifications.List)
				r.Get("/unread-count", h.Notifications.UnreadCount)
				r.Post("/read", h.Notifications.MarkAsRead)
			})

			r.With(middleware.RequireRole(jwt.RoleAdmin)).Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employees.List)
				r.Get("/{id}", h.Employees.GetByID)
				r.Patch("/{id}", h.Employees.Update)
			})

			r.With(middleware.RequireRole(jwt.RoleAdmin)).Route("/audit", func(r chi.Router) {
				r.Get("/", h.Audit.ListByDateRange)
				r.Get("/{entityType}/{entityID}", h.Audit.ListByEntity)
			})
		})
	})

	return r
}
