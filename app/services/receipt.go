package services

import (
	"bytes"
	"fmt"
	"sync/atomic"
	"time"

	"career-compass/app/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

var receiptSeq uint64

// NextReceiptNumber returns a receipt number that is unique for the lifetime
// of the process even when payments land in the same millisecond: the
// timestamp keeps it human-readable, the counter keeps it strictly monotonic.
func NextReceiptNumber(now time.Time) string {
	seq := atomic.AddUint64(&receiptSeq, 1)
	return fmt.Sprintf("RCP-%d-%d", now.UnixMilli(), seq)
}

// FormatAmount renders a currency value the way it appears on receipts and
// in receipt emails.
func FormatAmount(amount decimal.Decimal) string {
	return "Rs. " + amount.StringFixed(2)
}

// ReceiptRenderer produces single-page PDF fee receipts.
type ReceiptRenderer struct {
	InstituteName string
}

func NewReceiptRenderer(instituteName string) *ReceiptRenderer {
	return &ReceiptRenderer{InstituteName: instituteName}
}

// Render builds the PDF document for one payment. The layout follows the
// printed receipt the institute hands out: header, receipt banner, student
// information, payment line item, balance summary and footer.
func (r *ReceiptRenderer) Render(receipt *models.Receipt) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header block
	pdf.SetFillColor(248, 249, 250)
	pdf.SetDrawColor(222, 226, 230)
	pdf.Rect(15, 15, 180, 32, "FD")
	pdf.SetXY(20, 20)
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(170, 10, r.InstituteName, "", 1, "L", false, 0, "")
	pdf.SetX(20)
	pdf.SetTextColor(108, 117, 125)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(170, 6, "Excellence in Education - Shaping Future Leaders", "", 1, "L", false, 0, "")
	pdf.SetX(20)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(170, 5, "Email: info@careercompass.edu", "", 1, "L", false, 0, "")

	// Receipt banner
	pdf.SetY(52)
	pdf.SetFillColor(0, 123, 255)
	pdf.SetDrawColor(0, 86, 179)
	pdf.Rect(15, 52, 180, 12, "FD")
	pdf.SetXY(15, 54)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(180, 8, "FEE PAYMENT RECEIPT", "", 1, "C", false, 0, "")

	// Receipt number and date
	pdf.SetY(68)
	pdf.SetTextColor(52, 58, 64)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(180, 5, fmt.Sprintf("Receipt No: %s", receipt.Number), "", 1, "R", false, 0, "")
	pdf.CellFormat(180, 5, fmt.Sprintf("Date: %s", receipt.PaymentDate.Format("2 January 2006")), "", 1, "R", false, 0, "")

	// Student information
	pdf.Ln(4)
	r.sectionTitle(pdf, "Student Information")
	r.labelValue(pdf, "Student Name:", receipt.Student.Name)
	r.labelValue(pdf, "Standard/Class:", receipt.Student.Standard)
	r.labelValue(pdf, "Email Address:", receipt.Student.Email)
	r.labelValue(pdf, "Student ID:", receipt.Student.ShortID())

	// Payment line item
	pdf.Ln(4)
	r.sectionTitle(pdf, "Payment Details")
	pdf.SetFillColor(108, 117, 125)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(120, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFillColor(248, 249, 250)
	pdf.SetTextColor(52, 58, 64)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(120, 8, "Fee Payment ("+receipt.PaymentMethod+")", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, FormatAmount(receipt.AmountPaid), "1", 1, "R", true, 0, "")

	// Balance summary
	pdf.Ln(4)
	r.summaryRow(pdf, "Total Fees:", FormatAmount(receipt.TotalFees), false)
	r.summaryRow(pdf, "Fees Paid So Far:", FormatAmount(receipt.FeesPaid), false)
	r.summaryRow(pdf, "Remaining Balance:", FormatAmount(receipt.Remaining), true)

	// Payment method
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, "Payment Method:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(140, 6, receipt.PaymentMethod, "", 1, "L", false, 0, "")

	// Footer
	pdf.Ln(6)
	y := pdf.GetY()
	pdf.SetFillColor(40, 167, 69)
	pdf.SetDrawColor(30, 126, 52)
	pdf.Rect(15, y, 180, 10, "FD")
	pdf.SetXY(15, y+1)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(180, 8, "Thank you for your payment!", "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetTextColor(108, 117, 125)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(180, 5, "This receipt is valid for official purposes. Please retain it for your records.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *ReceiptRenderer) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetTextColor(73, 80, 87)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(180, 8, title, "", 1, "L", false, 0, "")
	y := pdf.GetY()
	pdf.SetDrawColor(222, 226, 230)
	pdf.Line(15, y, 195, y)
	pdf.Ln(2)
}

func (r *ReceiptRenderer) labelValue(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetTextColor(108, 117, 125)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 6, label, "", 0, "L", false, 0, "")
	pdf.SetTextColor(52, 58, 64)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(135, 6, value, "", 1, "L", false, 0, "")
}

func (r *ReceiptRenderer) summaryRow(pdf *gofpdf.Fpdf, label, value string, highlight bool) {
	pdf.SetX(95)
	if highlight {
		pdf.SetFillColor(227, 242, 253)
		pdf.SetTextColor(25, 118, 210)
		pdf.SetFont("Helvetica", "B", 10)
	} else {
		pdf.SetFillColor(255, 255, 255)
		pdf.SetTextColor(52, 58, 64)
		pdf.SetFont("Helvetica", "", 10)
	}
	pdf.SetDrawColor(222, 226, 230)
	pdf.CellFormat(55, 7, label, "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 7, value, "1", 1, "R", true, 0, "")
}
