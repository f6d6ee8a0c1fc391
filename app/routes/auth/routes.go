package auth

import (
	"strings"

	"career-compass/app/services"
	"career-compass/app/storage"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes mounts registration, verification and login endpoints.
func SetupAuthRoutes(app *fiber.App, users storage.UserStore, mailer services.Mailer) {
	app.Post("/register", func(c *fiber.Ctx) error {
		return RegisterAPI(c, users, mailer)
	})

	app.Get("/verify-email", func(c *fiber.Ctx) error {
		return VerifyEmailAPI(c, users)
	})

	app.Post("/login", func(c *fiber.Ctx) error {
		return LoginAPI(c, users)
	})

	app.Get("/validate-token", ValidateTokenAPI)
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// AuthMiddleware validates the session token and puts the owner identity
// into the request context. Every owner-scoped handler reads the id from
// Locals; there is no process-global current user.
func AuthMiddleware(c *fiber.Ctx) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"error": "No token found"})
	}

	claims, err := ValidateSessionToken(tokenString)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token"})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("username", claims.Username)
	return c.Next()
}
