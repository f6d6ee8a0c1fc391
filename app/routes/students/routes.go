package students

import (
	"career-compass/app/routes/auth"
	"career-compass/app/storage"

	"github.com/gofiber/fiber/v2"
)

// SetupStudentsRoutes mounts the student ledger endpoints.
func SetupStudentsRoutes(app *fiber.App, ledger storage.LedgerStore) {
	students := app.Group("/students")
	students.Use(auth.AuthMiddleware)

	students.Post("/", func(c *fiber.Ctx) error {
		return CreateStudentAPI(c, ledger)
	})

	students.Get("/", func(c *fiber.Ctx) error {
		return GetStudentsAPI(c, ledger)
	})
}
