package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/renderdragon/backend/internal/auth"
	loggerMiddleware "github.com/renderdragon/backend/internal/logger/middleware"
	"github.com/renderdragon/backend/internal/middlewares"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// maxRequestSize bounds request bodies; the API only accepts small JSON payloads
const maxRequestSize = 1 << 20

// RouterOptions holds everything the HTTP router is assembled from.
// Favorites and Account are only mounted when Verifier is set.
type RouterOptions struct {
	Resources *ResourceHandler
	Downloads *DownloadHandler
	Favorites *FavoriteHandler
	Account   *AccountHandler
	Cache     *CacheHandler
	Health    *HealthHandler

	Verifier       *auth.TokenVerifier
	APIKey         string
	AllowedOrigins []string
	RateLimit      int
	SwaggerURL     string
	Logger         *zap.Logger
}

// NewRouter builds the API router with the shared middleware chain
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(middlewares.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(opts.Logger))
	r.Use(middlewares.RecoveryMiddleware(opts.Logger))
	r.Use(middlewares.CORSMiddleware(opts.AllowedOrigins))
	if opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
	}
	r.Use(middlewares.RequestSizeLimitMiddleware(maxRequestSize))

	if opts.SwaggerURL != "" {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(opts.SwaggerURL)))
	}
	if opts.Health != nil {
		opts.Health.RegisterRoutes(r)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints, signed-in users get their stored favorites merged into listings
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuthMiddleware(opts.Verifier))
			opts.Resources.RegisterRoutes(r)
			opts.Downloads.RegisterRoutes(r)
		})

		if opts.Verifier != nil {
			r.Group(func(r chi.Router) {
				r.Use(auth.AuthMiddleware(opts.Verifier))
				if opts.Favorites != nil {
					opts.Favorites.RegisterRoutes(r)
				}
				if opts.Account != nil {
					opts.Account.RegisterRoutes(r)
				}
			})
		}

		// Maintenance endpoints (API key protected)
		if opts.Cache != nil {
			r.Group(func(r chi.Router) {
				r.Use(middlewares.APIKeyMiddleware(opts.APIKey))
				opts.Cache.RegisterRoutes(r)
			})
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		base := BaseHandler{logger: opts.Logger}
		base.respondError(w, http.StatusNotFound, "not found")
	})

	return r
}
