package api

import (
	"net/http"
	"time"

	"shopify-bundle-upsell/docs"
	"shopify-bundle-upsell/internal/infrastructure/metrics"
	securitymiddleware "shopify-bundle-upsell/internal/infrastructure/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterDeps collects what the HTTP surface is built from
type RouterDeps struct {
	Auth    Authenticator
	Bundles BundleStore
	Cookies *SessionCookie
	Metrics *metrics.Metrics
	Logger  zerolog.Logger

	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
}

// NewRouter wires middleware and routes
func NewRouter(deps RouterDeps) http.Handler {
	authHandler := NewAuthHandler(deps.Auth, deps.Cookies, deps.Metrics, deps.Logger)
	bundleHandler := NewBundleHandler(deps.Bundles, deps.Metrics, deps.Logger)

	origins := deps.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(securitymiddleware.SecurityHeadersMiddleware())
	r.Use(securitymiddleware.AuditLoggingMiddleware(deps.Logger))
	r.Use(deps.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, deps.Logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(docs.SwaggerJSON)
	})

	// OAuth routes
	r.Get("/auth", authHandler.Begin)
	r.Get("/auth/callback", authHandler.Callback)
	r.Get("/products", authHandler.Products)

	// Bundle routes
	r.Post("/create-bundle", bundleHandler.Create)
	r.Get("/bundles", bundleHandler.List)
	r.Put("/update-bundle/{id}", bundleHandler.Update)
	r.Delete("/delete-bundle/{id}", bundleHandler.Delete)
	r.Get("/dashboard", bundleHandler.Dashboard)

	return r
}
