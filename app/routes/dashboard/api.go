package dashboard

import (
	"career-compass/app/models"
	"career-compass/app/storage"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// GetDashboardStatsAPI returns the headline counters for the caller's
// dashboard. "remaining" is the count of students not yet fully paid, not a
// currency amount; the frontend was written against that contract. A student
// who overpaid counts as fully paid, never as remaining.
func GetDashboardStatsAPI(c *fiber.Ctx, ledger storage.LedgerStore) error {
	ownerID := c.Locals("user_id").(string)

	stats, err := ledger.DashboardStats(c.Context(), ownerID)
	if err != nil {
		log.WithError(err).Error("Failed to compute dashboard stats")
		return c.Status(500).JSON(fiber.Map{"error": "Server Error"})
	}
	return c.JSON(stats)
}

// GetMonthlyGrowthAPI returns admissions per calendar month, month ascending.
func GetMonthlyGrowthAPI(c *fiber.Ctx, ledger storage.LedgerStore) error {
	ownerID := c.Locals("user_id").(string)

	points, err := ledger.MonthlyGrowth(c.Context(), ownerID)
	if err != nil {
		log.WithError(err).Error("Failed to compute monthly growth")
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch analytics data"})
	}
	if points == nil {
		points = []*models.MonthlyGrowthPoint{}
	}
	return c.JSON(points)
}

// GetMonthlyRevenueAPI returns collected fees per admission month, month
// ascending.
func GetMonthlyRevenueAPI(c *fiber.Ctx, ledger storage.LedgerStore) error {
	ownerID := c.Locals("user_id").(string)

	points, err := ledger.MonthlyRevenue(c.Context(), ownerID)
	if err != nil {
		log.WithError(err).Error("Failed to compute monthly revenue")
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch revenue data"})
	}
	if points == nil {
		points = []*models.MonthlyRevenuePoint{}
	}
	return c.JSON(points)
}
