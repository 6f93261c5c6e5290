package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMW "github.com/presbond/congreso-back/internals/middlewares/logger"
)

// SetupMiddlewares registra el stack base en orden.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(loggerMW.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
