package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/profitum/platform-api/internal/api/handler"
	"github.com/profitum/platform-api/internal/api/middleware"
	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
	"github.com/profitum/platform-api/internal/infrastructure/http/handlers"
)

// Resource mounts one owned record kind under Path.
type Resource struct {
	Path    string
	Service ports.ResourceService
	Schema  handler.ResourceSchema
}

// Options carries everything NewRouter wires. Redis, Revoked and Access may
// be nil.
type Options struct {
	APIPrefix          string
	CORSAllowedOrigins []string
	Debug              bool
	Logger             zerolog.Logger

	Store       ports.RecordStore
	Redis       *redis.Client
	Tokens      ports.TokenService
	Auth        ports.AuthService
	Preferences ports.PreferenceService
	Resources   []Resource
	Revoked     ports.RevocationList
	Access      ports.AccessLogger

	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	registerer := opts.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: opts.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "platform",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
		},
	}))

	// --- Ops (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(opts.Store, opts.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	api := e.Group(opts.APIPrefix)
	guard := middleware.Guard(middleware.GuardConfig{
		Tokens:     opts.Tokens,
		Identities: opts.Auth,
		Revoked:    opts.Revoked,
		Access:     opts.Access,
		Debug:      opts.Debug,
		Logger:     opts.Logger,
	})

	authHandler := handler.NewAuthHandler(opts.Auth)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/check", authHandler.Check, guard)
	auth.POST("/logout", authHandler.Logout, guard)

	api.GET("/clients", authHandler.ListClients, guard, middleware.RequireRole(domain.RoleExpert))

	for _, r := range opts.Resources {
		h := handler.NewResourceHandler(r.Service, r.Schema)
		g := api.Group(r.Path, guard)
		g.POST("", h.Create)
		g.GET("/client/:clientId", h.ListByClient, middleware.RequireOwnerParam("clientId"))
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}

	prefHandler := handler.NewPreferenceHandler(opts.Preferences)
	prefs := api.Group("/preferences", guard)
	prefs.GET("", prefHandler.Get)
	prefs.PUT("", prefHandler.Update)

	return e
}
