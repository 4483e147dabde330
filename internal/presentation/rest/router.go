package rest

import (
	"log/slog"
	"net/http"

	"github.com/bibbank/mortgageflex/pkg/auth"
)

// RouterConfig assembles the HTTP surface of the service.
type RouterConfig struct {
	Adjustments *AdjustmentHandler
	Health      *HealthHandler
	Metrics     http.Handler

	// Validator enables bearer authentication on the API routes when set.
	Validator auth.TokenValidator
	RateLimit int
	Logger    *slog.Logger
}

var publicPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// NewRouter registers every route and wraps the mux in logging, rate
// limiting and, when configured, authentication.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	cfg.Health.RegisterRoutes(mux)
	cfg.Adjustments.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	middleware := []func(http.Handler) http.Handler{
		Logging(cfg.Logger),
		RateLimit(cfg.RateLimit),
	}
	if cfg.Validator != nil {
		middleware = append(middleware, auth.Middleware(cfg.Validator, func(r *http.Request) bool {
			return publicPaths[r.URL.Path]
		}))
	}
	return Chain(mux, middleware...)
}
