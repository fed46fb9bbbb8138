// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, identity resolution, logging, panic recovery,
// metrics, compression, CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-recipe-backend/docs"
	"github.com/tbourn/go-recipe-backend/internal/config"
	"github.com/tbourn/go-recipe-backend/internal/http/handlers"
	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
	"github.com/tbourn/go-recipe-backend/internal/images"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), identity
// resolution, rate limiting, compression, CORS and security headers, health
// and metrics endpoints, static media serving, and then mounts the
// versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Identity: resolve the viewer (X-User-ID; empty = anonymous)
//  4. Logger: structured logs with sensitive header masking
//  5. Recovery: capture panics after logger
//  6. Body size limiter (large: payloads embed base64 images)
//  7. Gzip compression
//  8. Metrics
//  9. Rate limiter (per viewer/IP)
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, store *images.Store, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Resolve the viewer before logging so access logs carry it
	r.Use(middleware.Identity())

	// 4) Structured logging with header masking
	r.Use(middleware.Logger(middleware.LogOptions{
		MaskHeaders: []string{
			"Authorization",
		},
	}))

	// 5) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 6) Global body size limit; recipe payloads carry base64 images
	r.Use(limitBody(cfg.MaxBodyBytes))

	// 7) Compress responses (ingredient catalogue and recipe pages gain most)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 8) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 9) Token-bucket rate limiter per viewer/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByViewerOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Content-Disposition"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// OpenAPI UI (behind a flag; off in production by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Uploaded recipe images
	r.Static(store.URLPrefix(), store.Dir())

	// Dependency injection: services ← db/store
	recipeSvc := services.NewRecipeService(db)
	viewSvc := services.NewViewService(db)
	memberSvc := services.NewMembershipService(db)
	shopSvc := services.NewShoppingListService(db)
	subSvc := services.NewSubscriptionService(db)
	h := handlers.New(recipeSvc, viewSvc, memberSvc, shopSvc, subSvc, store, db)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Reference data (anonymous reads)
		api.GET("/tags", h.ListTags)
		api.GET("/tags/:id", h.GetTag)
		api.GET("/ingredients", h.ListIngredients)
		api.GET("/ingredients/:id", h.GetIngredient)

		// Recipes (anonymous reads, authenticated writes)
		api.GET("/recipes", h.ListRecipes)
		api.GET("/recipes/:id", h.GetRecipe)

		// Users (anonymous reads)
		api.GET("/users", h.ListUsers)
		api.GET("/users/:id", h.GetUser)

		auth := api.Group("", middleware.RequireViewer())
		{
			auth.POST("/recipes", h.CreateRecipe)
			auth.PATCH("/recipes/:id", h.UpdateRecipe)
			auth.DELETE("/recipes/:id", h.DeleteRecipe)

			// Favorites and shopping cart
			auth.POST("/recipes/:id/favorite", h.AddFavorite)
			auth.DELETE("/recipes/:id/favorite", h.RemoveFavorite)
			auth.POST("/recipes/:id/shopping_cart", h.AddToCart)
			auth.DELETE("/recipes/:id/shopping_cart", h.RemoveFromCart)
			auth.GET("/recipes/download_shopping_cart", h.DownloadShoppingCart)

			// Subscriptions
			auth.GET("/users/me", h.GetMe)
			auth.GET("/users/subscriptions", h.ListSubscriptions)
			auth.POST("/users/:id/subscribe", h.Subscribe)
			auth.DELETE("/users/:id/subscribe", h.Unsubscribe)
		}
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the
// cap will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
