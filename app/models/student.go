package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The dashboard client reads money fields as JSON numbers, so decimals must
// marshal unquoted.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// StudentFee is one student's fee ledger entry. JSON keys match the schema
// the dashboard frontend was written against.
type StudentFee struct {
	ID              string          `json:"_id"`
	Name            string          `json:"name"`
	Standard        string          `json:"standard"`
	Email           string          `json:"email"`
	TotalFees       decimal.Decimal `json:"totalFees"`
	FeesPaid        decimal.Decimal `json:"feesPaid"`
	PaymentMode     string          `json:"paymentMode"`
	OwnerID         string          `json:"owner"`
	PaymentDate     time.Time       `json:"paymentDate"`
	DateOfAdmission time.Time       `json:"dateOfAdmission"`
}

// Remaining is the outstanding balance. Negative when overpaid; not clamped.
func (s *StudentFee) Remaining() decimal.Decimal {
	return s.TotalFees.Sub(s.FeesPaid)
}

// IsFullyPaid reports whether the student has cleared (or exceeded) the total.
func (s *StudentFee) IsFullyPaid() bool {
	return s.FeesPaid.GreaterThanOrEqual(s.TotalFees)
}

// ShortID returns the last 8 characters of the ID, uppercased, for display
// on printed receipts.
func (s *StudentFee) ShortID() string {
	id := s.ID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}

type DashboardStats struct {
	TotalStudents int             `json:"totalStudents"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	FullyPaid     int             `json:"fullyPaid"`
	Remaining     int             `json:"remaining"`
}

type MonthlyGrowthPoint struct {
	Name     string `json:"name"`
	Students int    `json:"students"`
}

type MonthlyRevenuePoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}
