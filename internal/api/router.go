package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	"voicefaq/docs"
	"voicefaq/internal/api/handlers"
	"voicefaq/pkg/auth"
	"voicefaq/pkg/config"
	"voicefaq/pkg/middleware"
)

// SetupRouter wires the public query API and, when adminHandler is not nil,
// the JWT-protected admin routes.
func SetupRouter(
	queryHandler *handlers.QueryHandler,
	adminHandler *handlers.AdminHandler,
	jwtManager *auth.JWTManager,
	serverCfg *config.ServerConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             serverCfg.BodyLimit,
		ReadTimeout:           serverCfg.ReadTimeout,
		WriteTimeout:          serverCfg.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// importing docs registers the OpenAPI document with swag
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", queryHandler.Health)
	app.Post("/query", queryHandler.Query)

	if adminHandler != nil {
		admin := app.Group("/admin", middleware.AdminAuth(jwtManager, appLogger))
		admin.Get("/queries", adminHandler.ListQueries)
		admin.Post("/index-cache/purge", adminHandler.PurgeIndexCache)
	} else {
		appLogger.Info("Admin routes disabled, query log is off")
	}

	return app
}
