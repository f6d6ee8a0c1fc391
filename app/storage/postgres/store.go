package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"career-compass/app/models"
	"career-compass/app/storage"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `INSERT INTO users (id, username, password, email, role, verified)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at`
	err := s.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Password, user.Email, user.Role, user.Verified,
	).Scan(&user.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return storage.ErrDuplicateUsername
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password, email, role, verified, created_at
	          FROM users WHERE username = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, username, password, email, role, verified, created_at
	          FROM users WHERE email = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Email,
		&user.Role, &user.Verified, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) MarkUserVerified(ctx context.Context, email string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET verified = true WHERE email = $1`, email)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

func (s *Store) CreateStudent(ctx context.Context, student *models.StudentFee) error {
	if student.ID == "" {
		student.ID = uuid.New().String()
	}
	student.FeesPaid = decimal.Zero
	student.PaymentMode = "Pending"

	query := `INSERT INTO student_fees (id, name, standard, email, total_fees, fees_paid, payment_mode, owner_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING payment_date, date_of_admission`
	err := s.db.QueryRowContext(ctx, query,
		student.ID, student.Name, student.Standard, student.Email,
		student.TotalFees, student.FeesPaid, student.PaymentMode, student.OwnerID,
	).Scan(&student.PaymentDate, &student.DateOfAdmission)
	if err != nil {
		return fmt.Errorf("failed to insert student: %w", err)
	}
	return nil
}

func (s *Store) ListStudentsByOwner(ctx context.Context, ownerID string) ([]*models.StudentFee, error) {
	query := `SELECT id, name, standard, email, total_fees, fees_paid, payment_mode, owner_id, payment_date, date_of_admission
	          FROM student_fees WHERE owner_id = $1`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.StudentFee
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func (s *Store) FindStudent(ctx context.Context, lookup storage.StudentLookup) (*models.StudentFee, error) {
	query := `SELECT id, name, standard, email, total_fees, fees_paid, payment_mode, owner_id, payment_date, date_of_admission
	          FROM student_fees
	          WHERE lower(name) = lower($1) AND owner_id = $2 AND standard = $3 AND email = $4`
	row := s.db.QueryRowContext(ctx, query, lookup.Name, lookup.OwnerID, lookup.Standard, lookup.Email)
	student, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return student, nil
}

// ApplyPayment increments the paid balance in a single UPDATE so two
// concurrent payments against the same entry both land.
func (s *Store) ApplyPayment(ctx context.Context, lookup storage.StudentLookup, amount decimal.Decimal, method string) (*models.StudentFee, error) {
	query := `UPDATE student_fees
	          SET fees_paid = fees_paid + $1, payment_mode = $2, payment_date = NOW()
	          WHERE lower(name) = lower($3) AND owner_id = $4 AND standard = $5 AND email = $6
	          RETURNING id, name, standard, email, total_fees, fees_paid, payment_mode, owner_id, payment_date, date_of_admission`
	row := s.db.QueryRowContext(ctx, query, amount, method,
		lookup.Name, lookup.OwnerID, lookup.Standard, lookup.Email)
	student, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply payment: %w", err)
	}
	return student, nil
}

func (s *Store) DashboardStats(ctx context.Context, ownerID string) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{TotalRevenue: decimal.Zero}

	query := `SELECT COUNT(*),
	                 COALESCE(SUM(fees_paid), 0),
	                 COUNT(*) FILTER (WHERE fees_paid >= total_fees)
	          FROM student_fees WHERE owner_id = $1`
	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(
		&stats.TotalStudents, &stats.TotalRevenue, &stats.FullyPaid)
	if err != nil {
		return nil, err
	}

	stats.Remaining = stats.TotalStudents - stats.FullyPaid
	return stats, nil
}

func (s *Store) MonthlyGrowth(ctx context.Context, ownerID string) ([]*models.MonthlyGrowthPoint, error) {
	query := `SELECT EXTRACT(MONTH FROM date_of_admission)::int AS month, COUNT(*)
	          FROM student_fees WHERE owner_id = $1
	          GROUP BY month ORDER BY month`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*models.MonthlyGrowthPoint
	for rows.Next() {
		var month, count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, err
		}
		points = append(points, &models.MonthlyGrowthPoint{
			Name:     storage.MonthName(month),
			Students: count,
		})
	}
	return points, rows.Err()
}

func (s *Store) MonthlyRevenue(ctx context.Context, ownerID string) ([]*models.MonthlyRevenuePoint, error) {
	query := `SELECT EXTRACT(MONTH FROM date_of_admission)::int AS month, COALESCE(SUM(fees_paid), 0)
	          FROM student_fees WHERE owner_id = $1
	          GROUP BY month ORDER BY month`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*models.MonthlyRevenuePoint
	for rows.Next() {
		var month int
		var revenue decimal.Decimal
		if err := rows.Scan(&month, &revenue); err != nil {
			return nil, err
		}
		points = append(points, &models.MonthlyRevenuePoint{
			Month:   storage.MonthName(month),
			Revenue: revenue,
		})
	}
	return points, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStudent(row rowScanner) (*models.StudentFee, error) {
	student := &models.StudentFee{}
	err := row.Scan(&student.ID, &student.Name, &student.Standard, &student.Email,
		&student.TotalFees, &student.FeesPaid, &student.PaymentMode,
		&student.OwnerID, &student.PaymentDate, &student.DateOfAdmission)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// Compile-time checks that Store satisfies both store interfaces.
var (
	_ storage.UserStore   = (*Store)(nil)
	_ storage.LedgerStore = (*Store)(nil)
)
