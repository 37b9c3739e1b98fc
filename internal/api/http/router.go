package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/hiddenpiece/roadmap-service/internal/api/http/handlers"
	"github.com/hiddenpiece/roadmap-service/internal/auth"
	"github.com/hiddenpiece/roadmap-service/internal/observability"
	"github.com/hiddenpiece/roadmap-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Roadmaps       *handlers.RoadmapHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    ratelimit.Checker
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	public := ratelimit.Middleware(cfg.RateLimiter)
	authn := cfg.AuthMiddleware.Handle

	users := app.Group("/api/v1/users")
	users.Post("/join", public, cfg.Users.Join)
	users.Post("/login", public, cfg.Users.Login)

	// Static paths must be registered before /:id.
	roadmaps := app.Group("/api/v1/roadmaps")
	roadmaps.Get("/count", public, cfg.Roadmaps.Count)
	roadmaps.Get("/top5", public, cfg.Roadmaps.Top5)
	roadmaps.Get("/total-search", public, cfg.Roadmaps.TotalSearch)
	roadmaps.Get("/search", public, cfg.Roadmaps.Search)
	roadmaps.Get("/userProfile/:userId", public, cfg.Roadmaps.UserProfile)
	roadmaps.Get("/following", authn, cfg.Roadmaps.Following)
	roadmaps.Get("/my-page", authn, cfg.Roadmaps.MyPage)

	roadmaps.Post("/", authn, cfg.Roadmaps.Create)
	roadmaps.Get("/", authn, cfg.Roadmaps.ReadMine)
	roadmaps.Get("/:id", authn, cfg.Roadmaps.ReadOne)
	roadmaps.Put("/:id", authn, cfg.Roadmaps.Update)
	roadmaps.Delete("/:id", authn, cfg.Roadmaps.Delete)
}
