package service

import (
	"context"
	"testing"
	"time"

	"homecrm-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func int32Ptr(v int32) *int32 { return &v }

func newSubscriptionInput(tier domain.Tier) domain.NewSubscription {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return domain.NewSubscription{
		ContactID:    4,
		Tier:         tier,
		BillingCycle: domain.BillingCycleMonthly,
		StartDate:    &start,
	}
}

func TestSubscriptionService_CreateSubscription(t *testing.T) {
	ctx := context.Background()

	setup := func() (*MockSubscriptionRepo, *MockContactRepo, SubscriptionService) {
		subs := new(MockSubscriptionRepo)
		contacts := new(MockContactRepo)
		contacts.On("GetByID", ctx, int32(4)).Return(storedContact(4, domain.DivisionRadiance), nil).Maybe()
		return subs, contacts, NewSubscriptionService(subs, contacts)
	}

	t.Run("Glow defaults", func(t *testing.T) {
		subs, _, svc := setup()
		subs.On("Create", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil)

		sub, err := svc.CreateSubscription(ctx, newSubscriptionInput(domain.TierGlow))
		require.NoError(t, err)
		assert.Equal(t, int32(49), sub.MonthlyPrice)
		assert.Equal(t, int32(490), sub.AnnualPrice)
		assert.Equal(t, domain.SubscriptionStatusActive, sub.Status)
	})

	t.Run("Explicit zero is kept", func(t *testing.T) {
		subs, _, svc := setup()
		subs.On("Create", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil)

		in := newSubscriptionInput(domain.TierGlow)
		in.MonthlyPrice = int32Ptr(0)
		sub, err := svc.CreateSubscription(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, int32(0), sub.MonthlyPrice)
		assert.Equal(t, int32(490), sub.AnnualPrice)
	})

	t.Run("Eternal over cap", func(t *testing.T) {
		subs, _, svc := setup()
		in := newSubscriptionInput(domain.TierEternal)
		in.RepairsCreditUsed = 801

		_, err := svc.CreateSubscription(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
		subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Unknown tier", func(t *testing.T) {
		_, _, svc := setup()
		_, err := svc.CreateSubscription(ctx, newSubscriptionInput("Platinum"))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Missing contact", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		contacts := new(MockContactRepo)
		contacts.On("GetByID", ctx, int32(4)).Return(nil, &domain.NotFoundError{Resource: "contact", ID: 4})
		svc := NewSubscriptionService(subs, contacts)

		_, err := svc.CreateSubscription(ctx, newSubscriptionInput(domain.TierGlow))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func storedSubscription(tier domain.Tier, credit int32) *domain.Subscription {
	return &domain.Subscription{
		ID: 9, ContactID: 4, Tier: tier, MonthlyPrice: 119, AnnualPrice: 990,
		BillingCycle: domain.BillingCycleAnnual, StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		VisitsRemaining: 2, RepairsCreditUsed: credit, Status: domain.SubscriptionStatusActive,
		ServiceHistory: []domain.ServiceEntry{},
	}
}

func TestSubscriptionService_CreditCap(t *testing.T) {
	ctx := context.Background()

	t.Run("Eternal at cap saves unchanged", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		subs.On("GetByID", ctx, int32(9)).Return(storedSubscription(domain.TierEternal, 800), nil)
		subs.On("Update", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil)
		svc := NewSubscriptionService(subs, new(MockContactRepo))

		sub, err := svc.UpdateSubscription(ctx, 9, domain.SubscriptionPatch{})
		require.NoError(t, err)
		assert.Equal(t, int32(800), sub.RepairsCreditUsed)
	})

	t.Run("Eternal 801 rejected", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		subs.On("GetByID", ctx, int32(9)).Return(storedSubscription(domain.TierEternal, 800), nil)
		svc := NewSubscriptionService(subs, new(MockContactRepo))

		_, err := svc.UpdateSubscription(ctx, 9, domain.SubscriptionPatch{RepairsCreditUsed: int32Ptr(801)})
		assert.ErrorIs(t, err, domain.ErrValidation)
		subs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Brilliance 801 accepted", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		subs.On("GetByID", ctx, int32(9)).Return(storedSubscription(domain.TierBrilliance, 800), nil)
		subs.On("Update", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil)
		svc := NewSubscriptionService(subs, new(MockContactRepo))

		sub, err := svc.UpdateSubscription(ctx, 9, domain.SubscriptionPatch{RepairsCreditUsed: int32Ptr(801)})
		require.NoError(t, err)
		assert.Equal(t, int32(801), sub.RepairsCreditUsed)
	})

	t.Run("Upgrade to Eternal rechecks stale credit", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		subs.On("GetByID", ctx, int32(9)).Return(storedSubscription(domain.TierBrilliance, 950), nil)
		svc := NewSubscriptionService(subs, new(MockContactRepo))

		eternal := domain.TierEternal
		_, err := svc.UpdateSubscription(ctx, 9, domain.SubscriptionPatch{Tier: &eternal})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Repair credit crossing the cap", func(t *testing.T) {
		subs := new(MockSubscriptionRepo)
		subs.On("GetByID", ctx, int32(9)).Return(storedSubscription(domain.TierEternal, 750), nil)
		svc := NewSubscriptionService(subs, new(MockContactRepo))

		_, err := svc.RecordRepairCredit(ctx, 9, 60)
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.RecordRepairCredit(ctx, 9, 0)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestSubscriptionService_TierChangeKeepsPrice(t *testing.T) {
	ctx := context.Background()
	subs := new(MockSubscriptionRepo)
	stored := storedSubscription(domain.TierGlow, 0)
	stored.MonthlyPrice, stored.AnnualPrice = 39, 390
	subs.On("GetByID", ctx, int32(9)).Return(stored, nil)
	subs.On("Update", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil)
	svc := NewSubscriptionService(subs, new(MockContactRepo))

	brilliance := domain.TierBrilliance
	sub, err := svc.UpdateSubscription(ctx, 9, domain.SubscriptionPatch{Tier: &brilliance})
	require.NoError(t, err)
	assert.Equal(t, domain.TierBrilliance, sub.Tier)
	assert.Equal(t, int32(39), sub.MonthlyPrice)
	assert.Equal(t, int32(390), sub.AnnualPrice)
}

func TestSubscriptionService_AddServiceEntry(t *testing.T) {
	ctx := context.Background()
	subs := new(MockSubscriptionRepo)
	subs.On("GetByID", ctx, int32(9)).Return(storedSubscription(domain.TierGlow, 0), nil)
	subs.On("Update", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil)
	svc := NewSubscriptionService(subs, new(MockContactRepo))

	sub, err := svc.AddServiceEntry(ctx, 9, domain.ServiceEntry{Date: time.Now(), ServiceType: "Seasonal install"})
	require.NoError(t, err)
	assert.Len(t, sub.ServiceHistory, 1)
	assert.Equal(t, int32(1), sub.VisitsRemaining)

	_, err = svc.AddServiceEntry(ctx, 9, domain.ServiceEntry{Date: time.Now()})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
