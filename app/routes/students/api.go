package students

import (
	"strings"

	"career-compass/app/models"
	"career-compass/app/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// CreateStudentAPI registers a new ledger entry for the authenticated owner.
// New entries start with nothing paid and payment mode "Pending".
func CreateStudentAPI(c *fiber.Ctx, ledger storage.LedgerStore) error {
	type CreateStudentRequest struct {
		Name      string `json:"name"`
		Standard  string `json:"standard"`
		Email     string `json:"email"`
		TotalFees string `json:"totalFees"`
	}

	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid request"})
	}
	if req.Name == "" || req.Standard == "" || req.Email == "" || req.TotalFees == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Missing required fields"})
	}

	totalFees, err := decimal.NewFromString(strings.TrimSpace(req.TotalFees))
	if err != nil || totalFees.IsNegative() {
		return c.Status(400).JSON(fiber.Map{"message": "totalFees must be a non-negative number"})
	}

	ownerID := c.Locals("user_id").(string)
	student := &models.StudentFee{
		Name:      req.Name,
		Standard:  req.Standard,
		Email:     req.Email,
		TotalFees: totalFees,
		OwnerID:   ownerID,
	}
	if err := ledger.CreateStudent(c.Context(), student); err != nil {
		log.WithError(err).Error("Failed to create student")
		return c.Status(500).JSON(fiber.Map{"message": "Server error"})
	}

	return c.Status(201).JSON(student)
}

// GetStudentsAPI lists the ledger entries owned by the caller.
func GetStudentsAPI(c *fiber.Ctx, ledger storage.LedgerStore) error {
	ownerID := c.Locals("user_id").(string)

	students, err := ledger.ListStudentsByOwner(c.Context(), ownerID)
	if err != nil {
		log.WithError(err).Error("Failed to list students")
		return c.Status(500).JSON(fiber.Map{"message": "Server error"})
	}
	if students == nil {
		students = []*models.StudentFee{}
	}
	return c.JSON(students)
}
