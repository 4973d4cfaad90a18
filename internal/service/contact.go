package service

import (
	"context"
	"time"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/logger"
	"homecrm-backend/internal/query"
	"homecrm-backend/internal/repository"
	"homecrm-backend/internal/security"
)

type contactService struct {
	contactRepo repository.ContactRepository
	now         func() time.Time
}

func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo, now: time.Now}
}

// ListContacts returns one page of the contacts visible to actor. An
// explicit division must be one the actor holds unless the actor has no
// division entitlements at all.
func (s *contactService) ListContacts(ctx context.Context, actor *domain.Principal, division *domain.Division, opts query.ContactFilterOptions, p query.Pagination) (query.Page[domain.Contact], error) {
	if division != nil {
		if !division.Valid() {
			return query.Page[domain.Contact]{}, domain.NewValidationError("division", "unknown value %q", *division)
		}
		if actor != nil && !actor.Unrestricted() {
			if err := security.Authorize(actor, nil, []domain.Division{*division}); err != nil {
				return query.Page[domain.Contact]{}, err
			}
		}
	}
	if opts.Category != "" && !domain.ContactCategory(opts.Category).Valid() {
		return query.Page[domain.Contact]{}, domain.NewValidationError("category", "unknown value %q", opts.Category)
	}
	if opts.LeadSource != "" && !domain.LeadSource(opts.LeadSource).Valid() {
		return query.Page[domain.Contact]{}, domain.NewValidationError("leadSource", "unknown value %q", opts.LeadSource)
	}

	filter := query.ComposeContactFilter(actor, division, opts)
	contacts, total, err := s.contactRepo.List(ctx, filter, p)
	if err != nil {
		return query.Page[domain.Contact]{}, err
	}
	return query.NewPage(contacts, p, total), nil
}

func (s *contactService) GetContact(ctx context.Context, actor *domain.Principal, id int32) (*domain.Contact, error) {
	c, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVisible(actor, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contactService) CreateContact(ctx context.Context, actor *domain.Principal, c *domain.Contact) error {
	c.ID = 0
	c.ActivityLog = nil
	c.Normalize()
	if err := c.Validate(); err != nil {
		return err
	}
	domain.AppendActivity(&c.ActivityLog, actor, domain.ActionCreatedContact, s.now())

	if err := s.contactRepo.Create(ctx, c); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Contact created", "contact_id", c.ID, "divisions", c.Divisions)
	return nil
}

func (s *contactService) UpdateContact(ctx context.Context, actor *domain.Principal, id int32, patch domain.ContactPatch) (*domain.Contact, error) {
	c, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVisible(actor, c); err != nil {
		return nil, err
	}

	persisted := len(c.ActivityLog)
	c.Apply(patch)
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	domain.AppendActivity(&c.ActivityLog, actor, domain.ActionUpdatedContact, s.now())

	if err := s.contactRepo.Update(ctx, c, persisted); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Contact updated", "contact_id", c.ID)
	return c, nil
}

func (s *contactService) DeleteContact(ctx context.Context, actor *domain.Principal, id int32) error {
	c, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkVisible(actor, c); err != nil {
		return err
	}
	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Contact deleted", "contact_id", id)
	return nil
}

// checkVisible rejects actors whose division access does not reach the
// contact. System callers (nil actor) see everything.
func checkVisible(actor *domain.Principal, c *domain.Contact) error {
	if actor == nil || actor.CanSee(c.Divisions) {
		return nil
	}
	return domain.ErrInsufficientDivision
}
