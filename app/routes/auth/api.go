package auth

import (
	"context"
	"errors"
	"fmt"

	"career-compass/app/config"
	"career-compass/app/models"
	"career-compass/app/services"
	"career-compass/app/storage"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func RegisterAPI(c *fiber.Ctx, users storage.UserStore, mailer services.Mailer) error {
	type RegisterRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing required fields"})
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Registration failed"})
	}

	user := &models.User{
		Username: req.Username,
		Password: hashedPassword,
		Email:    req.Email,
		Role:     req.Role,
		Verified: false,
	}
	if err := users.CreateUser(c.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicateUsername) {
			return c.Status(400).JSON(fiber.Map{"error": "Username already taken"})
		}
		log.WithError(err).Error("Registration failed")
		return c.Status(500).JSON(fiber.Map{"error": "Registration failed"})
	}

	token, err := GenerateVerificationToken(user.Email)
	if err != nil {
		log.WithError(err).Error("Failed to generate verification token")
		return c.Status(500).JSON(fiber.Map{"error": "Registration failed"})
	}

	// Verification mail is fire-and-forget; registration does not wait on SMTP.
	link := fmt.Sprintf("%s/verify-email?token=%s", config.AppConfig.BaseURL, token)
	institute := config.AppConfig.InstituteName
	go func() {
		_ = services.SendVerificationEmail(context.Background(), mailer, institute, user.Username, user.Email, link)
	}()

	return c.Status(201).JSON(fiber.Map{"message": "Registration successful! Please verify your email."})
}

func VerifyEmailAPI(c *fiber.Ctx, users storage.UserStore) error {
	tokenString := c.Query("token")

	claims, err := ValidateVerificationToken(tokenString)
	if err != nil {
		return c.Status(400).SendString("Invalid or expired verification link")
	}

	user, err := users.GetUserByEmail(c.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return c.Status(404).SendString("User not found")
		}
		return c.Status(500).SendString("Verification failed")
	}

	if user.Verified {
		return c.SendString("Email already verified. You can now login.")
	}

	if err := users.MarkUserVerified(c.Context(), claims.Email); err != nil {
		return c.Status(500).SendString("Verification failed")
	}
	return c.SendString("Email verified successfully! You can now login.")
}

func LoginAPI(c *fiber.Ctx, users storage.UserStore) error {
	type LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	user, err := users.GetUserByUsername(c.Context(), req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid username or password"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Login failed"})
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid username or password"})
	}
	if !user.Verified {
		return c.Status(403).JSON(fiber.Map{"error": "Please verify your email first."})
	}

	token, err := GenerateSessionToken(user.ID, user.Username)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"role":    user.Role,
	})
}

func ValidateTokenAPI(c *fiber.Ctx) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"valid": false})
	}

	claims, err := ValidateSessionToken(tokenString)
	if err != nil {
		return c.Status(403).JSON(fiber.Map{"valid": false})
	}

	return c.JSON(fiber.Map{
		"valid": true,
		"user": fiber.Map{
			"_id":      claims.UserID,
			"username": claims.Username,
		},
	})
}
