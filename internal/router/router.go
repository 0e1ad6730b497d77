package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/handlers"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/middleware"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/websocket"
)

type Options struct {
	// Auth is nil when the hosting platform verifies tokens itself.
	Auth           *middleware.PlatformAuth
	CORSOrigin     string
	RoutePrefix    string
	AIRateLimit    int
	MaxBodyBytes   int64
	RequestLogging bool
}

// New builds the HTTP surface. ctx bounds the rate limiter's cleanup goroutine.
func New(
	ctx context.Context,
	relayHandler *handlers.RelayHandler,
	catalogHandler *handlers.CatalogHandler,
	wsHub *websocket.Hub,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	if opts.RequestLogging {
		r.Use(chimiddleware.Logger)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(opts.CORSOrigin))
	r.Use(middleware.BodyLimit(opts.MaxBodyBytes))

	limit := opts.AIRateLimit
	if limit <= 0 {
		limit = 30
	}
	aiLimiter := middleware.NewRateLimiter(ctx, limit, time.Minute)

	routes := func(r chi.Router) {
		r.Get("/health", relayHandler.Health)

		r.Group(func(r chi.Router) {
			if opts.Auth != nil {
				r.Use(opts.Auth.Middleware)
			}

			// ──── Relay Routes ────
			r.Group(func(r chi.Router) {
				r.Use(aiLimiter.Middleware)
				r.Post("/ai-chat", relayHandler.Chat)
				r.Post("/ai-diagnose", relayHandler.Diagnose)
			})

			// ──── Catalog Routes ────
			r.Route("/catalog", func(r chi.Router) {
				r.Get("/crops", catalogHandler.Crops)
				r.Get("/prices", catalogHandler.Prices)
				r.Get("/pest-alerts", catalogHandler.PestAlerts)
				r.Get("/experts", catalogHandler.Experts)
			})
		})

		// ──── WebSocket ────
		// Browsers cannot set headers on the upgrade, so the hub checks ?token= itself.
		r.Get("/ws/notifications", wsHub.HandleWebSocket)
	}

	if opts.RoutePrefix != "" {
		r.Route(opts.RoutePrefix, routes)
	} else {
		routes(r)
	}

	return r
}
