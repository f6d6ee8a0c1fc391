package main

import (
	"career-compass/app/config"
	"career-compass/app/routes/auth"
	"career-compass/app/routes/dashboard"
	"career-compass/app/routes/fees"
	"career-compass/app/routes/students"
	"career-compass/app/services"
	"career-compass/app/storage/postgres"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	log "github.com/sirupsen/logrus"
)

// errorHandler turns unhandled errors into JSON responses.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	cfg := config.Load()

	// Initialize database
	config.InitDB()
	defer config.GetDB().Close()

	store := postgres.NewStore(config.GetDB())

	// Run database migrations
	if err := postgres.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	mailer := services.NewSMTPMailer(cfg.SMTP, cfg.MailTimeout)
	renderer := services.NewReceiptRenderer(cfg.InstituteName)
	payments := services.NewPaymentService(store, renderer, mailer, cfg.InstituteName)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Setup auth routes
	auth.SetupAuthRoutes(app, store, mailer)

	// Setup students routes
	students.SetupStudentsRoutes(app, store)

	// Setup fees routes
	fees.SetupFeesRoutes(app, payments)

	// Setup dashboard routes
	dashboard.SetupDashboardRoutes(app, store)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	// Start server
	log.Info("Server starting on :", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
