package service

import (
	"context"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/query"
	"homecrm-backend/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error) // access token, user
	BootstrapOwner(ctx context.Context, name, email, password string) (*domain.User, error)
}

type NewUserInput struct {
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Password       string            `json:"password"`
	Role           domain.Role       `json:"role"`
	DivisionAccess []domain.Division `json:"divisionAccess"`
}

type UserService interface {
	CreateUser(ctx context.Context, in NewUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id int32) (*domain.User, error)
	ListUsers(ctx context.Context, p query.Pagination) (query.Page[domain.User], error)
	UpdateAccess(ctx context.Context, id int32, role domain.Role, divisions []domain.Division) (*domain.User, error)
	DeleteUser(ctx context.Context, id int32) error
}

// ContactService methods take the acting principal; a nil actor is a
// system caller and produces no activity entries.
type ContactService interface {
	ListContacts(ctx context.Context, actor *domain.Principal, division *domain.Division, opts query.ContactFilterOptions, p query.Pagination) (query.Page[domain.Contact], error)
	GetContact(ctx context.Context, actor *domain.Principal, id int32) (*domain.Contact, error)
	CreateContact(ctx context.Context, actor *domain.Principal, contact *domain.Contact) error
	UpdateContact(ctx context.Context, actor *domain.Principal, id int32, patch domain.ContactPatch) (*domain.Contact, error)
	DeleteContact(ctx context.Context, actor *domain.Principal, id int32) error
}

type SubscriptionService interface {
	CreateSubscription(ctx context.Context, in domain.NewSubscription) (*domain.Subscription, error)
	GetSubscription(ctx context.Context, id int32) (*domain.Subscription, error)
	ListSubscriptions(ctx context.Context, opts repository.SubscriptionListOptions, p query.Pagination) (query.Page[domain.Subscription], error)
	UpdateSubscription(ctx context.Context, id int32, patch domain.SubscriptionPatch) (*domain.Subscription, error)
	RecordRepairCredit(ctx context.Context, id int32, amount int32) (*domain.Subscription, error)
	AddServiceEntry(ctx context.Context, id int32, entry domain.ServiceEntry) (*domain.Subscription, error)
}

type ProjectService interface {
	CreateProject(ctx context.Context, actor *domain.Principal, project *domain.Project) error
	GetProject(ctx context.Context, id int32) (*domain.Project, error)
	ListProjects(ctx context.Context, opts repository.ProjectListOptions, p query.Pagination) (query.Page[domain.Project], error)
	UpdateProject(ctx context.Context, actor *domain.Principal, id int32, patch domain.ProjectPatch) (*domain.Project, error)
	AddNote(ctx context.Context, actor *domain.Principal, id int32, note string) (*domain.Project, error)
}

type EmailService interface {
	SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error
}

type NotificationService interface {
	SendRenewalReminder(ctx context.Context, contact *domain.Contact, sub *domain.Subscription) error
}
