package dashboard

import (
	"career-compass/app/routes/auth"
	"career-compass/app/storage"

	"github.com/gofiber/fiber/v2"
)

// SetupDashboardRoutes mounts the analytics endpoints. All of them require a
// token; the owner scope comes from the authenticated identity.
func SetupDashboardRoutes(app *fiber.App, ledger storage.LedgerStore) {
	app.Get("/dashboard-stats", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		return GetDashboardStatsAPI(c, ledger)
	})

	app.Get("/monthly-growth", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		return GetMonthlyGrowthAPI(c, ledger)
	})

	app.Get("/monthly-revenue", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		return GetMonthlyRevenueAPI(c, ledger)
	})
}
