package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/civicworks/grievance-management/internal/auth"
	"github.com/civicworks/grievance-management/internal/category"
	"github.com/civicworks/grievance-management/internal/grievance"
	"github.com/civicworks/grievance-management/internal/transport/metrics"
	"github.com/civicworks/grievance-management/internal/transport/middleware"
	"github.com/civicworks/grievance-management/internal/transport/swagger"
	"github.com/civicworks/grievance-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, grievanceHandler *grievance.Handler, categoryHandler *category.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(metrics.Instrument)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())
	// Prometheus scrape endpoint
	router.Handle("/metrics", metrics.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/signup", authHandler.Signup)
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		// Public categories route (no auth required)
		if categoryHandler != nil {
			r.Get("/categories", categoryHandler.GetCategories)
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
				}

				// Grievance routes
				if grievanceHandler != nil {
					pr.Route("/grievances", func(gr chi.Router) {
						// Citizen routes
						gr.Post("/", grievanceHandler.Submit)           // POST /grievances
						gr.Get("/", grievanceHandler.List)              // GET /grievances
						gr.Get("/{trackingID}", grievanceHandler.Get)   // GET /grievances/:trackingID

						// Admin routes
						gr.Group(func(ar chi.Router) {
							ar.Use(auth.RequireAdmin)
							ar.Patch("/{trackingID}/status", grievanceHandler.UpdateStatus) // PATCH /grievances/:trackingID/status
						})
					})
				}
			})
		}
	})
}
