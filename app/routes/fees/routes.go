package fees

import (
	"career-compass/app/routes/auth"
	"career-compass/app/services"

	"github.com/gofiber/fiber/v2"
)

// SetupFeesRoutes mounts the payment endpoint.
func SetupFeesRoutes(app *fiber.App, payments *services.PaymentService) {
	feesGroup := app.Group("/fees")
	feesGroup.Use(auth.AuthMiddleware)

	feesGroup.Post("/", func(c *fiber.Ctx) error {
		return RecordFeePaymentAPI(c, payments)
	})
}
