package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"career-compass/app/models"
	"career-compass/app/storage"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvalidAmount rejects non-numeric, zero or negative payment amounts
	// before anything is written.
	ErrInvalidAmount = errors.New("payment amount must be a positive number")

	// ErrReceiptDelivery marks failures after the balance update committed.
	// The payment stands; only the receipt did not reach the student.
	ErrReceiptDelivery = errors.New("receipt delivery failed")
)

type PaymentRequest struct {
	Name          string
	Standard      string
	Email         string
	AmountPaid    string
	PaymentMethod string
}

type PaymentResult struct {
	ReceiptNumber string
	Student       *models.StudentFee
	AmountPaid    decimal.Decimal
	PaymentDate   time.Time
}

// PaymentService runs the payment pipeline: atomic ledger update, PDF
// receipt, email delivery. The update persists before rendering starts and
// is never rolled back when a later step fails.
type PaymentService struct {
	ledger        storage.LedgerStore
	renderer      *ReceiptRenderer
	mailer        Mailer
	instituteName string
}

func NewPaymentService(ledger storage.LedgerStore, renderer *ReceiptRenderer, mailer Mailer, instituteName string) *PaymentService {
	return &PaymentService{
		ledger:        ledger,
		renderer:      renderer,
		mailer:        mailer,
		instituteName: instituteName,
	}
}

// RecordPayment applies the payment and emails the receipt. When it returns
// ErrReceiptDelivery the result is still populated: the caller must tell the
// client the payment was recorded even though the receipt failed.
func (p *PaymentService) RecordPayment(ctx context.Context, ownerID string, req PaymentRequest) (*PaymentResult, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(req.AmountPaid))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	lookup := storage.StudentLookup{
		Name:     strings.TrimSpace(req.Name),
		OwnerID:  ownerID,
		Standard: req.Standard,
		Email:    req.Email,
	}
	student, err := p.ledger.ApplyPayment(ctx, lookup, amount, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	receipt := &models.Receipt{
		Number:        NextReceiptNumber(now),
		PaymentDate:   now,
		Student:       *student,
		AmountPaid:    amount,
		TotalFees:     student.TotalFees,
		FeesPaid:      student.FeesPaid,
		Remaining:     student.Remaining(),
		PaymentMethod: req.PaymentMethod,
	}
	result := &PaymentResult{
		ReceiptNumber: receipt.Number,
		Student:       student,
		AmountPaid:    amount,
		PaymentDate:   now,
	}

	log.WithFields(log.Fields{
		"student": student.Name,
		"owner":   ownerID,
		"amount":  amount.StringFixed(2),
		"receipt": receipt.Number,
	}).Info("Payment recorded")

	pdfBytes, err := p.renderer.Render(receipt)
	if err != nil {
		log.WithError(err).Error("Receipt rendering failed after payment commit")
		return result, fmt.Errorf("%w: %v", ErrReceiptDelivery, err)
	}

	msg := Email{
		To:      student.Email,
		Subject: fmt.Sprintf("Fee Receipt - Payment Confirmation | %s", p.instituteName),
		HTML:    buildReceiptEmail(p.instituteName, receipt),
		Attachment: &Attachment{
			Filename:    fmt.Sprintf("Fee_Receipt_%s_%d.pdf", strings.ReplaceAll(student.Name, " ", "_"), now.UnixMilli()),
			Content:     pdfBytes,
			ContentType: "application/pdf",
		},
	}
	if err := p.mailer.Send(ctx, msg); err != nil {
		log.WithError(err).Error("Receipt email failed after payment commit")
		return result, fmt.Errorf("%w: %v", ErrReceiptDelivery, err)
	}

	return result, nil
}

func buildReceiptEmail(institute string, receipt *models.Receipt) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #007bff; padding: 24px; text-align: center;">
    <h1 style="color: white; margin: 0;">%s</h1>
    <p style="color: #e3f2fd; margin: 4px 0 0 0;">Excellence in Education</p>
  </div>
  <div style="background: white; padding: 24px;">
    <h2 style="color: #2c3e50;">Dear %s,</h2>
    <p>Thank you for your recent fee payment. We have successfully processed your payment and your account has been updated.</p>
    <div style="background: #e3f2fd; border-left: 4px solid #007bff; padding: 16px; margin: 16px 0;">
      <h3 style="color: #1976d2; margin-top: 0;">Payment Summary</h3>
      <p><strong>Amount Paid:</strong> %s</p>
      <p><strong>Payment Method:</strong> %s</p>
      <p><strong>Payment Date:</strong> %s</p>
      <p><strong>Receipt Number:</strong> %s</p>
    </div>
    <div style="background: #f8f9fa; padding: 12px; margin: 16px 0;">
      <strong>Total Fees:</strong> %s |
      <strong>Paid:</strong> %s |
      <strong>Remaining:</strong> %s
    </div>
    <p>Please find the detailed receipt attached to this email. Keep it for your records as proof of payment.</p>
    <p>Best regards,<br>Accounts Department<br>%s</p>
  </div>
</div>`,
		institute,
		receipt.Student.Name,
		FormatAmount(receipt.AmountPaid),
		receipt.PaymentMethod,
		receipt.PaymentDate.Format("2 January 2006"),
		receipt.Number,
		FormatAmount(receipt.TotalFees),
		FormatAmount(receipt.FeesPaid),
		FormatAmount(receipt.Remaining),
		institute,
	)
}

// buildVerificationEmail is the body of the account verification message
// sent at registration.
func buildVerificationEmail(username, link string) string {
	return fmt.Sprintf(`
<p>Hi %s,</p>
<p>Please verify your email by clicking the link below:</p>
<a href="%s">%s</a>
<p>This link expires in 1 hour.</p>`, username, link, link)
}

// SendVerificationEmail delivers the account verification link. Callers fire
// it on a goroutine; registration does not wait for delivery.
func SendVerificationEmail(ctx context.Context, mailer Mailer, institute, username, email, link string) error {
	msg := Email{
		To:      email,
		Subject: fmt.Sprintf("Verify your %s account", institute),
		HTML:    buildVerificationEmail(username, link),
	}
	if err := mailer.Send(ctx, msg); err != nil {
		log.WithError(err).WithField("to", email).Error("Verification email failed")
		return err
	}
	return nil
}
