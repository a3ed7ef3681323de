package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/user"
	"github.com/khoa-hris/chamcong-backend-go/internal/handler/http/middleware"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/jwt"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Attendance   AttendanceHandler
	Correction   CorrectionHandler
	Notification NotificationHandler
	Symbol       SymbolHandler
	Settings     SettingsHandler
	Employee     EmployeeHandler
	Backup       BackupHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
		// the stream stays open for hours
		Skip: func(req *http.Request, respStatus int) bool {
			return req.URL.Path == "/api/v1/events/stream"
		},
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot set headers, the stream authenticates with its own short-lived token
		r.Get("/events/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/events/token", h.Notification.GetSSEToken)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceView))
					r.Get("/", h.Attendance.Grid)
					r.Get("/absent", h.Attendance.Absent)
					r.Get("/totals", h.Attendance.DepartmentTotals)
					r.Get("/totals/{employeeID}", h.Attendance.EmployeeTotals)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceEdit))
					r.Put("/", h.Attendance.SetStatus)
					r.Post("/bulk", h.Attendance.BulkMark)
				})
			})

			r.Route("/requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionRequestSubmit)).Post("/", h.Correction.Submit)
				r.With(middleware.RequirePermission(user.PermissionAttendanceView)).Get("/pending-keys", h.Correction.PendingKeys)

				// Reviewer only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRequestReview))
					r.Get("/pending", h.Correction.ListPending)
					r.Post("/reconcile", h.Correction.Reconcile)
					r.Post("/{id}/approve", h.Correction.Approve)
					r.Post("/{id}/reject", h.Correction.Reject)
					r.Post("/{id}/reapply", h.Correction.Reapply)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionFeedView))
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/read-all", h.Notification.MarkAllRead)
			})

			r.Route("/symbols", func(r chi.Router) {
				r.Get("/", h.Symbol.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionCatalogManage))
					r.Put("/", h.Symbol.Save)
					r.Post("/ops", h.Symbol.ApplyOperations)
					r.Post("/reset", h.Symbol.Reset)
				})
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", h.Settings.Get)
				r.With(middleware.RequirePermission(user.PermissionSettingsManage)).Put("/", h.Settings.Update)
			})

			r.Route("/policy", func(r chi.Router) {
				r.Get("/classify", h.Settings.Classify)
				r.Get("/lock", h.Settings.LockStatus)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeView))
					r.Get("/", h.Employee.List)
					r.Get("/departments", h.Employee.Departments)
					r.Get("/{id}", h.Employee.Get)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.Create)
					r.Put("/{id}", h.Employee.Update)
					r.Delete("/{id}", h.Employee.Delete)
				})
			})

			r.Route("/admin/backup", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionBackupCreate))
				r.Post("/", h.Backup.Create)
				r.Get("/{name}", h.Backup.Download)
			})
		})
	})
	return r
}
