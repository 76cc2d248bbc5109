package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hugh/orghub/internal/api/handlers"
	"github.com/hugh/orghub/internal/api/middleware"
	"github.com/hugh/orghub/internal/auth"
	"github.com/hugh/orghub/internal/org"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	OrgService     *org.Service
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting per organization (per IP before login)
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.Redis, cfg.JWTService, cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	orgHandler := handlers.NewOrganizationHandler(cfg.OrgService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoint
		r.Post("/auth/login", authHandler.Login)

		r.Route("/organizations", func(r chi.Router) {
			// Registration and reads are public; an organization has no
			// admin before it exists.
			r.Post("/", orgHandler.Create)
			r.Get("/", orgHandler.List)
			r.Get("/{id}", orgHandler.Get)

			// Mutations require the owning admin's token
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWTService))
				r.Put("/{id}", orgHandler.Update)
				r.Delete("/{id}", orgHandler.Delete)
			})
		})
	})

	return &Router{r}
}
