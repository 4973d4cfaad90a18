package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/query"
	"homecrm-backend/internal/repository"
	"homecrm-backend/internal/security"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context, p query.Pagination) ([]domain.User, int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}
func (m *MockUserRepo) UpdateAccess(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepo) ExistsWithRole(ctx context.Context, roles []domain.Role) (bool, error) {
	args := m.Called(ctx, roles)
	return args.Bool(0), args.Error(1)
}

// MockContactRepo
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockContactRepo) GetByID(ctx context.Context, id int32) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}
func (m *MockContactRepo) List(ctx context.Context, f query.Filter, p query.Pagination) ([]domain.Contact, int64, error) {
	args := m.Called(ctx, f, p)
	return args.Get(0).([]domain.Contact), args.Get(1).(int64), args.Error(2)
}
func (m *MockContactRepo) Update(ctx context.Context, c *domain.Contact, persisted int) error {
	args := m.Called(ctx, c, persisted)
	return args.Error(0)
}
func (m *MockContactRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSubscriptionRepo
type MockSubscriptionRepo struct {
	mock.Mock
}

func (m *MockSubscriptionRepo) Create(ctx context.Context, s *domain.Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSubscriptionRepo) GetByID(ctx context.Context, id int32) (*domain.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}
func (m *MockSubscriptionRepo) List(ctx context.Context, opts repository.SubscriptionListOptions, p query.Pagination) ([]domain.Subscription, int64, error) {
	args := m.Called(ctx, opts, p)
	return args.Get(0).([]domain.Subscription), args.Get(1).(int64), args.Error(2)
}
func (m *MockSubscriptionRepo) Update(ctx context.Context, s *domain.Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSubscriptionRepo) ExpireLapsed(ctx context.Context, asOf time.Time) ([]int32, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockSubscriptionRepo) ListRenewingBetween(ctx context.Context, from, to time.Time) ([]domain.Subscription, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Subscription), args.Error(1)
}

// MockProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProjectRepo) GetByID(ctx context.Context, id int32) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectRepo) List(ctx context.Context, opts repository.ProjectListOptions, p query.Pagination) ([]domain.Project, int64, error) {
	args := m.Called(ctx, opts, p)
	return args.Get(0).([]domain.Project), args.Get(1).(int64), args.Error(2)
}
func (m *MockProjectRepo) Update(ctx context.Context, p *domain.Project, persisted int) error {
	args := m.Called(ctx, p, persisted)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	args := m.Called(ctx, to, toName, subject, plainText, htmlContent)
	return args.Error(0)
}

// MockTokenManager
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(userID int32, email, role string, divisions []string) (string, error) {
	args := m.Called(userID, email, role, divisions)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) ValidateToken(token string) (*security.UserClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}

// memoryContactRepo evaluates filters in memory the way the SQL
// renderer does in the database.
type memoryContactRepo struct {
	mu       sync.Mutex
	contacts []domain.Contact
}

func (r *memoryContactRepo) Create(_ context.Context, c *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = int32(len(r.contacts) + 1)
	c.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(c.ID) * time.Hour)
	r.contacts = append(r.contacts, *c)
	return nil
}

func (r *memoryContactRepo) GetByID(_ context.Context, id int32) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "contact", ID: id}
}

func (r *memoryContactRepo) List(_ context.Context, f query.Filter, p query.Pagination) ([]domain.Contact, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []domain.Contact
	for _, c := range r.contacts {
		if f.Matches(&c) {
			matched = append(matched, c)
		}
	}
	slices.SortFunc(matched, func(a, b domain.Contact) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	total := int64(len(matched))
	start := min(int(p.Offset()), len(matched))
	end := min(start+int(p.Limit), len(matched))
	return matched[start:end], total, nil
}

func (r *memoryContactRepo) Update(_ context.Context, c *domain.Contact, _ int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.contacts {
		if r.contacts[i].ID == c.ID {
			r.contacts[i] = *c
			return nil
		}
	}
	return &domain.NotFoundError{Resource: "contact", ID: c.ID}
}

func (r *memoryContactRepo) Delete(_ context.Context, id int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = slices.DeleteFunc(r.contacts, func(c domain.Contact) bool { return c.ID == id })
	return nil
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
}
