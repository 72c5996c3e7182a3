package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"coaching-backend/internal/ctxkeys"
	"coaching-backend/internal/middleware"
	"coaching-backend/internal/notifier"
	"coaching-backend/internal/repository"
	"coaching-backend/internal/storage"
	"coaching-backend/internal/tenant"
)

// Deps holds everything the router wires into handlers.
type Deps struct {
	Backend  repository.Backend
	Notifier *notifier.Service
	Verifier middleware.Verifier
	Tenants  tenant.Resolver
	Files    storage.Store

	// JWTSecret enables local register/login when non-empty.
	JWTSecret   string
	CORSOrigins []string
	Health      func() map[string]string
	// Now drives expiry and upload timestamps. Tokens use the wall clock.
	Now func() time.Time
}

// NewRouter builds the full API.
func NewRouter(d Deps) http.Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := NewAuthHandler(d.Backend, d.Tenants, d.JWTSecret)
	clientHandler := NewClientHandler(d.Backend, now)
	dashboardHandler := NewDashboardHandler(d.Notifier)
	notificationHandler := NewNotificationHandler(d.Backend)
	tenantHandler := NewTenantHandler(d.Backend)

	// Public routes
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Coaching Panel API"))
	})
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "up"}
		if d.Health != nil {
			status = d.Health()
		}
		JSON(w, http.StatusOK, status)
	})

	if d.JWTSecret != "" {
		r.Group(func(r chi.Router) {
			// about five attempts a minute per IP
			r.Use(middleware.RateLimit(rate.Every(12*time.Second), 5))
			r.Post("/api/auth/register", authHandler.Register)
			r.Post("/api/auth/login", authHandler.Login)
		})
	}

	var uploadHandler *UploadHandler
	if d.Files != nil {
		uploadHandler = NewUploadHandler(d.Files)
		uploadHandler.now = now
	}

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(d.Verifier, d.Tenants))

		r.Get("/api/auth/me", authHandler.GetMe)

		if uploadHandler != nil {
			r.Post("/api/upload", uploadHandler.Upload)
			r.Get("/api/files/*", uploadHandler.ServeFile)
			r.Delete("/api/files/*", uploadHandler.Delete)
		}

		// Dashboard
		r.Get("/api/dashboard/stats", dashboardHandler.GetStats)
		r.Get("/api/dashboard/alerts", dashboardHandler.GetAlerts)
		r.Get("/api/dashboard/expiring", dashboardHandler.GetExpiring)
		r.Get("/api/dashboard/missing-checkins", dashboardHandler.GetMissingCheckIns)

		// Notifications (user-scoped)
		r.Get("/api/notifications", notificationHandler.List)
		r.Get("/api/notifications/count", notificationHandler.UnreadCount)
		r.Patch("/api/notifications/read-all", notificationHandler.MarkAllRead)
		r.Patch("/api/notifications/{id}/read", notificationHandler.MarkRead)

		// Clients
		r.Get("/api/clients", clientHandler.List)
		r.Post("/api/clients", clientHandler.Create)
		r.Get("/api/clients/calendar", clientHandler.Calendar)
		r.Route("/api/clients/{id}", func(r chi.Router) {
			r.Get("/", clientHandler.GetByID)
			r.Put("/", clientHandler.Update)
			r.With(middleware.RequireMinRole(ctxkeys.RoleAdmin)).Delete("/", clientHandler.Delete)
			r.Patch("/archive", clientHandler.Archive)
			r.Post("/renew", clientHandler.Renew)

			r.Get("/checks", clientHandler.ListChecks)
			r.Post("/checks", clientHandler.CreateCheck)
			r.Get("/payments", clientHandler.ListPayments)
			r.Post("/payments", clientHandler.CreatePayment)
			r.Get("/anamnesis", clientHandler.ListAnamnesis)
			r.Post("/anamnesis", clientHandler.CreateAnamnesis)
		})

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireMinRole(ctxkeys.RoleAdmin))

			r.Post("/api/dashboard/run-daily", dashboardHandler.RunDaily)
			r.Get("/api/tenants", tenantHandler.List)
			r.Delete("/api/tenants/{id}/roles/{role}/{uid}", tenantHandler.RevokeRole)
		})
	})

	return r
}
