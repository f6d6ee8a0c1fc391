package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"career-compass/app/models"
	"career-compass/app/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is an in-memory implementation of storage.UserStore and
// storage.LedgerStore. All reads hand out copies so callers can't mutate
// internal state; all operations are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	users    map[string]*models.User
	students map[string]*models.StudentFee
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		students: make(map[string]*models.StudentFee),
	}
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return storage.ErrDuplicateUsername
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (s *Store) MarkUserVerified(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			u.Verified = true
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func (s *Store) CreateStudent(ctx context.Context, student *models.StudentFee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if student.ID == "" {
		student.ID = uuid.New().String()
	}
	now := time.Now()
	student.FeesPaid = decimal.Zero
	student.PaymentMode = "Pending"
	if student.DateOfAdmission.IsZero() {
		student.DateOfAdmission = now
	}
	if student.PaymentDate.IsZero() {
		student.PaymentDate = now
	}

	stored := *student
	s.students[student.ID] = &stored
	return nil
}

func (s *Store) ListStudentsByOwner(ctx context.Context, ownerID string) ([]*models.StudentFee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.StudentFee
	for _, st := range s.students {
		if st.OwnerID == ownerID {
			copied := *st
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *Store) FindStudent(ctx context.Context, lookup storage.StudentLookup) (*models.StudentFee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.findLocked(lookup)
	if st == nil {
		return nil, storage.ErrStudentNotFound
	}
	copied := *st
	return &copied, nil
}

// ApplyPayment mutates the entry under the store lock, so concurrent
// payments against the same entry cannot lose an update.
func (s *Store) ApplyPayment(ctx context.Context, lookup storage.StudentLookup, amount decimal.Decimal, method string) (*models.StudentFee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.findLocked(lookup)
	if st == nil {
		return nil, storage.ErrStudentNotFound
	}

	st.FeesPaid = st.FeesPaid.Add(amount)
	st.PaymentMode = method
	st.PaymentDate = time.Now()

	copied := *st
	return &copied, nil
}

func (s *Store) findLocked(lookup storage.StudentLookup) *models.StudentFee {
	for _, st := range s.students {
		if strings.EqualFold(st.Name, lookup.Name) &&
			st.OwnerID == lookup.OwnerID &&
			st.Standard == lookup.Standard &&
			st.Email == lookup.Email {
			return st
		}
	}
	return nil
}

func (s *Store) DashboardStats(ctx context.Context, ownerID string) (*models.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &models.DashboardStats{TotalRevenue: decimal.Zero}
	for _, st := range s.students {
		if st.OwnerID != ownerID {
			continue
		}
		stats.TotalStudents++
		stats.TotalRevenue = stats.TotalRevenue.Add(st.FeesPaid)
		if st.IsFullyPaid() {
			stats.FullyPaid++
		}
	}
	stats.Remaining = stats.TotalStudents - stats.FullyPaid
	return stats, nil
}

func (s *Store) MonthlyGrowth(ctx context.Context, ownerID string) ([]*models.MonthlyGrowthPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[int]int)
	for _, st := range s.students {
		if st.OwnerID == ownerID {
			counts[int(st.DateOfAdmission.Month())]++
		}
	}

	var points []*models.MonthlyGrowthPoint
	for _, month := range sortedMonths(counts) {
		points = append(points, &models.MonthlyGrowthPoint{
			Name:     storage.MonthName(month),
			Students: counts[month],
		})
	}
	return points, nil
}

func (s *Store) MonthlyRevenue(ctx context.Context, ownerID string) ([]*models.MonthlyRevenuePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	revenue := make(map[int]decimal.Decimal)
	for _, st := range s.students {
		if st.OwnerID == ownerID {
			month := int(st.DateOfAdmission.Month())
			revenue[month] = revenue[month].Add(st.FeesPaid)
		}
	}

	var points []*models.MonthlyRevenuePoint
	for _, month := range sortedMonthsDecimal(revenue) {
		points = append(points, &models.MonthlyRevenuePoint{
			Month:   storage.MonthName(month),
			Revenue: revenue[month],
		})
	}
	return points, nil
}

func sortedMonths(m map[int]int) []int {
	months := make([]int, 0, len(m))
	for month := range m {
		months = append(months, month)
	}
	sort.Ints(months)
	return months
}

func sortedMonthsDecimal(m map[int]decimal.Decimal) []int {
	months := make([]int, 0, len(m))
	for month := range m {
		months = append(months, month)
	}
	sort.Ints(months)
	return months
}

// Compile-time checks that Store satisfies both store interfaces.
var (
	_ storage.UserStore   = (*Store)(nil)
	_ storage.LedgerStore = (*Store)(nil)
)
