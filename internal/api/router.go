package api

import (
	"net/http"
	"time"
	"dsa_tracker/internal/api/handler"
	"dsa_tracker/internal/app/service"
	"dsa_tracker/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	catalogService *service.CatalogService,
	progressService *service.ProgressService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// JWT Auth Middleware Setup
	// Verifies a token from "Authorization: Bearer T" and puts claims in
	// context; the Authenticator middleware enforces them per route group.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		// Catalog routes (listing public, mutation admin)
		catalogHandler := handler.NewCatalogHandler(catalogService)
		v1.Group(func(catalog chi.Router) {
			catalogHandler.RegisterRoutes(catalog)
		})

		// Progress routes (authenticated)
		progressHandler := handler.NewProgressHandler(progressService)
		v1.Group(func(progress chi.Router) {
			progressHandler.RegisterRoutes(progress)
		})
	})

	return r
}
