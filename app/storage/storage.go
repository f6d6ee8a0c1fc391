package storage

import (
	"context"
	"errors"

	"career-compass/app/models"

	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrStudentNotFound   = errors.New("student not found")
)

// StudentLookup identifies a ledger entry the way payment requests address
// them: name (case-insensitive), owning user, standard and email must all
// match.
type StudentLookup struct {
	Name     string
	OwnerID  string
	Standard string
	Email    string
}

// UserStore holds account credentials and verification status.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	MarkUserVerified(ctx context.Context, email string) error
}

// LedgerStore is the student fee ledger. ApplyPayment must perform the
// balance update as a single atomic increment so that concurrent payments
// against the same entry never lose an update.
type LedgerStore interface {
	CreateStudent(ctx context.Context, student *models.StudentFee) error
	ListStudentsByOwner(ctx context.Context, ownerID string) ([]*models.StudentFee, error)
	FindStudent(ctx context.Context, lookup StudentLookup) (*models.StudentFee, error)
	ApplyPayment(ctx context.Context, lookup StudentLookup, amount decimal.Decimal, method string) (*models.StudentFee, error)
	DashboardStats(ctx context.Context, ownerID string) (*models.DashboardStats, error)
	MonthlyGrowth(ctx context.Context, ownerID string) ([]*models.MonthlyGrowthPoint, error)
	MonthlyRevenue(ctx context.Context, ownerID string) ([]*models.MonthlyRevenuePoint, error)
}

// MonthName maps a 1-based calendar month number to its three-letter English
// name, as the dashboard charts expect.
func MonthName(month int) string {
	names := [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	if month < 1 || month > 12 {
		return ""
	}
	return names[month-1]
}
