package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"voicefaq/pkg/auth"
)

// AdminAuth accepts only bearer tokens carrying the admin role.
func AdminAuth(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("Authorization")
		if token == "" {
			logger.Warn("Missing authorization token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization token required",
			})
		}

		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Invalid token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		if claims.Role != auth.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin role required",
			})
		}

		c.Locals("subject", claims.Subject)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}
