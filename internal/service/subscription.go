package service

import (
	"context"
	"strings"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/logger"
	"homecrm-backend/internal/query"
	"homecrm-backend/internal/repository"
	"homecrm-backend/internal/utils"
)

type subscriptionService struct {
	subRepo     repository.SubscriptionRepository
	contactRepo repository.ContactRepository
}

func NewSubscriptionService(subRepo repository.SubscriptionRepository, contactRepo repository.ContactRepository) SubscriptionService {
	return &subscriptionService{subRepo: subRepo, contactRepo: contactRepo}
}

// CreateSubscription derives any omitted price from the tier table.
// Pricing is settled here, once, before the record is written.
func (s *subscriptionService) CreateSubscription(ctx context.Context, in domain.NewSubscription) (*domain.Subscription, error) {
	monthly, annual, err := utils.DerivePricing(in.Tier, in.MonthlyPrice, in.AnnualPrice)
	if err != nil {
		return nil, err
	}

	sub := &domain.Subscription{
		ContactID:         in.ContactID,
		Tier:              in.Tier,
		MonthlyPrice:      monthly,
		AnnualPrice:       annual,
		BillingCycle:      in.BillingCycle,
		RenewalDate:       in.RenewalDate,
		VisitsRemaining:   in.VisitsRemaining,
		RepairsCreditUsed: in.RepairsCreditUsed,
		LightsIncluded:    in.LightsIncluded,
		Status:            in.Status,
		ServiceHistory:    []domain.ServiceEntry{},
	}
	if in.StartDate != nil {
		sub.StartDate = *in.StartDate
	}
	if sub.Status == "" {
		sub.Status = domain.SubscriptionStatusActive
	}
	if err := validateSubscription(sub); err != nil {
		return nil, err
	}
	if _, err := s.contactRepo.GetByID(ctx, sub.ContactID); err != nil {
		return nil, err
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Subscription created", "subscription_id", sub.ID, "tier", sub.Tier,
		"monthly_price", sub.MonthlyPrice, "annual_price", sub.AnnualPrice)
	return sub, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id int32) (*domain.Subscription, error) {
	return s.subRepo.GetByID(ctx, id)
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, opts repository.SubscriptionListOptions, p query.Pagination) (query.Page[domain.Subscription], error) {
	if opts.Status != "" && !opts.Status.Valid() {
		return query.Page[domain.Subscription]{}, domain.NewValidationError("status", "unknown value %q", opts.Status)
	}
	subs, total, err := s.subRepo.List(ctx, opts, p)
	if err != nil {
		return query.Page[domain.Subscription]{}, err
	}
	return query.NewPage(subs, p, total), nil
}

// UpdateSubscription applies patch as is. A tier change keeps the
// stored prices; the credit cap is re-checked against the new tier.
func (s *subscriptionService) UpdateSubscription(ctx context.Context, id int32, patch domain.SubscriptionPatch) (*domain.Subscription, error) {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Apply(patch)
	return s.save(ctx, sub)
}

// RecordRepairCredit adds amount to the credit already used.
func (s *subscriptionService) RecordRepairCredit(ctx context.Context, id int32, amount int32) (*domain.Subscription, error) {
	if amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be positive")
	}
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.RepairsCreditUsed += amount
	return s.save(ctx, sub)
}

// AddServiceEntry records a visit and consumes one remaining visit when
// any are left.
func (s *subscriptionService) AddServiceEntry(ctx context.Context, id int32, entry domain.ServiceEntry) (*domain.Subscription, error) {
	entry.ServiceType = strings.TrimSpace(entry.ServiceType)
	if entry.ServiceType == "" {
		return nil, domain.NewValidationError("serviceType", "is required")
	}
	if entry.Date.IsZero() {
		return nil, domain.NewValidationError("date", "is required")
	}
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.ServiceHistory = append(sub.ServiceHistory, entry)
	if sub.VisitsRemaining > 0 {
		sub.VisitsRemaining--
	}
	return s.save(ctx, sub)
}

func (s *subscriptionService) save(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	if err := validateSubscription(sub); err != nil {
		return nil, err
	}
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Subscription updated", "subscription_id", sub.ID, "tier", sub.Tier,
		"repairs_credit_used", sub.RepairsCreditUsed)
	return sub, nil
}

// validateSubscription runs on every save, so a stale credit value is
// checked against the tier the record has now.
func validateSubscription(sub *domain.Subscription) error {
	if err := sub.ValidateFields(); err != nil {
		return err
	}
	return utils.ValidateCreditUsage(sub.Tier, sub.RepairsCreditUsed)
}
