package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is the ephemeral document built from a ledger snapshot at payment
// time. It is rendered, attached to an email and discarded; never persisted.
type Receipt struct {
	Number        string
	PaymentDate   time.Time
	Student       StudentFee
	AmountPaid    decimal.Decimal
	TotalFees     decimal.Decimal
	FeesPaid      decimal.Decimal
	Remaining     decimal.Decimal
	PaymentMethod string
}
