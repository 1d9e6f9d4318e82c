package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/maubinnav/maubinnav/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(recover.New())

	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	allowOrigins := deps.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language",
	}))

	app.Use(requestid.New())
	app.Use(TracingMiddleware())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		c.Vary(fiber.HeaderAcceptLanguage)
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())
	app.Use(DeprecationMiddleware(legacyRoutes))

	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Get("/cities", timeout.NewWithContext(ListCitiesHandler(deps), requestTimeout))
	v1.Get("/cities/:id", timeout.NewWithContext(GetCityHandler(deps), requestTimeout))
	v1.Get("/cities/:id/details", timeout.NewWithContext(CityDetailsHandler(deps), requestTimeout))
	v1.Get("/city-details", timeout.NewWithContext(LegacyCityDetailsHandler(deps), requestTimeout))
	v1.Get("/locations", timeout.NewWithContext(ListLocationsHandler(deps), requestTimeout))
	v1.Get("/locations/:id", timeout.NewWithContext(GetLocationHandler(deps), requestTimeout))
	v1.Get("/roads", timeout.NewWithContext(ListRoadsHandler(deps), requestTimeout))
	v1.Get("/roads/:id", timeout.NewWithContext(GetRoadHandler(deps), requestTimeout))
	v1.Get("/categories", CategoriesHandler(deps))
	v1.Get("/classify", ClassifyHandler(deps))
	v1.Post("/paths/measure", timeout.NewWithContext(MeasurePathHandler(deps), requestTimeout))

	app.Post("/graphql", GraphQLHandler(deps))

	docsPath := deps.DocsPath
	if docsPath == "" {
		docsPath = "api/openapi.yaml"
	}
	SetupDocs(app, docsPath)

	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
