package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/winkingcatstudios/video-streaming-backend/internal/api/http/handlers"
	"github.com/winkingcatstudios/video-streaming-backend/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Lists          *handlers.ListsHandler
	Videos         *handlers.VideosHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	UploadsDir     string
	UploadsPrefix  string
}

// RegisterRoutes wires HTTP routes. Unmatched paths end in NotFound.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.UploadsDir != "" && cfg.UploadsPrefix != "" {
		app.Static(cfg.UploadsPrefix, cfg.UploadsDir)
	}

	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
		app.Get("/health/metrics", cfg.Health.Metrics)
	}

	authenticate := cfg.AuthMiddleware.Authenticate
	admin := auth.RequireAdmin()
	api := app.Group("/api")

	lists := api.Group("/lists")
	lists.Get("/find/:id", cfg.Lists.Find)
	lists.Get("/random", cfg.Lists.Random)
	lists.Get("/user/:uid", cfg.Lists.ByCreator)
	lists.Get("/", authenticate, admin, cfg.Lists.Index)
	lists.Post("/", authenticate, cfg.Lists.Create)
	lists.Patch("/:id", authenticate, cfg.Lists.Update)
	lists.Delete("/:id", authenticate, cfg.Lists.Delete)

	videos := api.Group("/videos")
	videos.Get("/find/:id", cfg.Videos.Find)
	videos.Get("/random", cfg.Videos.Random)
	videos.Get("/", authenticate, admin, cfg.Videos.Index)
	videos.Post("/", authenticate, admin, cfg.Videos.Create)
	videos.Patch("/:id", authenticate, admin, cfg.Videos.Update)
	videos.Delete("/:id", authenticate, admin, cfg.Videos.Delete)

	users := api.Group("/users")
	users.Post("/signup", cfg.Users.Signup)
	users.Post("/login", cfg.Users.Login)
	users.Get("/", authenticate, admin, cfg.Users.Index)
	users.Get("/stats", authenticate, admin, cfg.Users.Stats)
	users.Get("/find/:id", authenticate, admin, cfg.Users.Find)
	users.Patch("/:id", authenticate, admin, cfg.Users.Update)
	users.Delete("/:id", authenticate, admin, cfg.Users.Delete)

	app.Use(NotFound)
}

// NewApp builds a fiber app with the pipeline's fallback error handler.
func NewApp(name string, bodyLimit int, errorHandler fiber.ErrorHandler) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		BodyLimit:             bodyLimit,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
}
