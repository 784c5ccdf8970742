package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/labpush/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr            string
	webhookSecret   string
	asyncDispatch   bool
	metricsHandler  http.Handler
	transportStatus func() string
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithWebhookSecret sets the shared secret expected in X-Gitlab-Token.
// An empty secret disables the check.
func WithWebhookSecret(secret string) Option {
	return func(c *config) {
		c.webhookSecret = secret
	}
}

// WithAsyncDispatch makes the webhook endpoint respond 202 before delivery completes
func WithAsyncDispatch(enabled bool) Option {
	return func(c *config) {
		c.asyncDispatch = enabled
	}
}

// WithMetricsHandler exposes the handler at /metrics
func WithMetricsHandler(h http.Handler) Option {
	return func(c *config) {
		c.metricsHandler = h
	}
}

// WithTransportStatus sets a function reporting the active push transport for /health
func WithTransportStatus(f func() string) Option {
	return func(c *config) {
		c.transportStatus = f
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	webhookUC interfaces.WebhookUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:            "localhost:3000",
		transportStatus: func() string { return "none" },
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	apiSpec, err := loadAPISpec(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load OpenAPI document")
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	router.Use(corsHandler())

	// Status
	router.Get("/", handleRoot)
	router.Post("/", handleRoot)
	router.Get("/health", newHealthHandler(cfg.transportStatus))
	router.Get("/openapi.yaml", apiSpec.ServeDocument)
	if cfg.metricsHandler != nil {
		router.Handle("/metrics", cfg.metricsHandler)
	}

	// Webhook endpoints
	webhookHandler := NewWebhookHandler(cfg.webhookSecret, webhookUC, cfg.asyncDispatch)
	router.Route("/webhooks/gitlab", func(r chi.Router) {
		r.Use(apiSpec.ValidationMiddleware)
		r.Post("/", webhookHandler.Handle)
		r.Post("/validate-token", webhookHandler.ValidateToken)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}

// corsHandler reflects any request origin and allows credentials
func corsHandler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return true
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
