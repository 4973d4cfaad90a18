package repository

import (
	"context"
	"time"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/query"
)

// Repositories return *domain.NotFoundError for missing rows and
// *domain.StorageError for any other driver failure.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, p query.Pagination) ([]domain.User, int64, error)
	UpdateAccess(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int32) error
	ExistsWithRole(ctx context.Context, roles []domain.Role) (bool, error)
}

type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, id int32) (*domain.Contact, error)
	// List returns one page of contacts matching filter, newest first,
	// and the total count of the same filter.
	List(ctx context.Context, filter query.Filter, p query.Pagination) ([]domain.Contact, int64, error)
	// Update saves the contact fields and inserts any activity entries
	// beyond the first persistedEntries of contact.ActivityLog.
	Update(ctx context.Context, contact *domain.Contact, persistedEntries int) error
	Delete(ctx context.Context, id int32) error
}

type SubscriptionListOptions struct {
	ContactID int32
	Status    domain.SubscriptionStatus
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, id int32) (*domain.Subscription, error)
	List(ctx context.Context, opts SubscriptionListOptions, p query.Pagination) ([]domain.Subscription, int64, error)
	Update(ctx context.Context, sub *domain.Subscription) error
	ExpireLapsed(ctx context.Context, asOf time.Time) ([]int32, error)
	ListRenewingBetween(ctx context.Context, from, to time.Time) ([]domain.Subscription, error)
}

type ProjectListOptions struct {
	ContactID int32
	Status    domain.ProjectStatus
}

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id int32) (*domain.Project, error)
	List(ctx context.Context, opts ProjectListOptions, p query.Pagination) ([]domain.Project, int64, error)
	// Update saves the project fields and inserts activity entries
	// beyond the first persistedEntries.
	Update(ctx context.Context, project *domain.Project, persistedEntries int) error
}
