package fees

import (
	"errors"

	"career-compass/app/services"
	"career-compass/app/storage"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// RecordFeePaymentAPI applies a payment to a ledger entry and emails the PDF
// receipt. The response always carries the updated snapshot once the balance
// update committed, delivery failure included.
func RecordFeePaymentAPI(c *fiber.Ctx, payments *services.PaymentService) error {
	type FeePaymentRequest struct {
		Name          string `json:"name"`
		Standard      string `json:"standard"`
		AmountPaid    string `json:"amountPaid"`
		Email         string `json:"email"`
		PaymentMethod string `json:"paymentMethod"`
	}

	var req FeePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.Name == "" || req.Standard == "" || req.Email == "" || req.PaymentMethod == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing required fields"})
	}

	ownerID := c.Locals("user_id").(string)
	result, err := payments.RecordPayment(c.Context(), ownerID, services.PaymentRequest{
		Name:          req.Name,
		Standard:      req.Standard,
		Email:         req.Email,
		AmountPaid:    req.AmountPaid,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return c.Status(400).JSON(fiber.Map{"error": "amountPaid must be a positive number"})
		case errors.Is(err, storage.ErrStudentNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Student not found. Please register the student first."})
		case errors.Is(err, services.ErrReceiptDelivery):
			// The balance update is committed; tell the client so.
			return c.Status(500).JSON(fiber.Map{
				"error":          "Payment recorded, but the receipt could not be delivered",
				"receiptNumber":  result.ReceiptNumber,
				"updatedStudent": updatedStudentJSON(result, req.PaymentMethod),
			})
		default:
			log.WithError(err).Error("Fee processing failed")
			return c.Status(500).JSON(fiber.Map{"error": "Fee processing failed. Please try again."})
		}
	}

	return c.JSON(fiber.Map{
		"message":        "Fee recorded successfully and receipt emailed",
		"receiptNumber":  result.ReceiptNumber,
		"updatedStudent": updatedStudentJSON(result, req.PaymentMethod),
	})
}

func updatedStudentJSON(result *services.PaymentResult, method string) fiber.Map {
	student := result.Student
	return fiber.Map{
		"name":          student.Name,
		"standard":      student.Standard,
		"totalFees":     student.TotalFees,
		"feesPaid":      student.FeesPaid,
		"feesRemaining": student.Remaining(),
		"paymentMethod": method,
		"paymentDate":   result.PaymentDate.Format("2 January 2006"),
	}
}
