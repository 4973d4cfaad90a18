package domain

import (
	"slices"
	"time"
)

type Tier string

const (
	TierGlow       Tier = "Glow"
	TierBrilliance Tier = "Brilliance"
	TierEternal    Tier = "Eternal"
)

var Tiers = []Tier{TierGlow, TierBrilliance, TierEternal}

func (t Tier) Valid() bool { return slices.Contains(Tiers, t) }

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "Monthly"
	BillingCycleAnnual  BillingCycle = "Annual"
)

func (b BillingCycle) Valid() bool {
	return b == BillingCycleMonthly || b == BillingCycleAnnual
}

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "Active"
	SubscriptionStatusPaused    SubscriptionStatus = "Paused"
	SubscriptionStatusCancelled SubscriptionStatus = "Cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "Expired"
)

var SubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActive, SubscriptionStatusPaused, SubscriptionStatusCancelled, SubscriptionStatusExpired,
}

func (s SubscriptionStatus) Valid() bool { return slices.Contains(SubscriptionStatuses, s) }

type ServiceEntry struct {
	Date        time.Time `json:"date"`
	ServiceType string    `json:"serviceType"`
	Notes       string    `json:"notes,omitempty"`
}

type Subscription struct {
	ID                int32              `json:"id"`
	ContactID         int32              `json:"contact"`
	Tier              Tier               `json:"tier"`
	MonthlyPrice      int32              `json:"monthlyPrice"`
	AnnualPrice       int32              `json:"annualPrice"`
	BillingCycle      BillingCycle       `json:"billingCycle"`
	StartDate         time.Time          `json:"startDate"`
	RenewalDate       *time.Time         `json:"renewalDate,omitempty"`
	VisitsRemaining   int32              `json:"visitsRemaining"`
	RepairsCreditUsed int32              `json:"repairsCreditUsed"`
	LightsIncluded    bool               `json:"lightsIncluded"`
	Status            SubscriptionStatus `json:"status"`
	ServiceHistory    []ServiceEntry     `json:"serviceHistory"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// NewSubscription is the creation input. Prices are pointers so an
// explicit zero can be told apart from an omitted field.
type NewSubscription struct {
	ContactID         int32              `json:"contact"`
	Tier              Tier               `json:"tier"`
	MonthlyPrice      *int32             `json:"monthlyPrice"`
	AnnualPrice       *int32             `json:"annualPrice"`
	BillingCycle      BillingCycle       `json:"billingCycle"`
	StartDate         *time.Time         `json:"startDate"`
	RenewalDate       *time.Time         `json:"renewalDate"`
	VisitsRemaining   int32              `json:"visitsRemaining"`
	RepairsCreditUsed int32              `json:"repairsCreditUsed"`
	LightsIncluded    bool               `json:"lightsIncluded"`
	Status            SubscriptionStatus `json:"status"`
}

// SubscriptionPatch updates an existing subscription. A tier change
// keeps the stored prices.
type SubscriptionPatch struct {
	Tier              *Tier               `json:"tier"`
	MonthlyPrice      *int32              `json:"monthlyPrice"`
	AnnualPrice       *int32              `json:"annualPrice"`
	BillingCycle      *BillingCycle       `json:"billingCycle"`
	StartDate         *time.Time          `json:"startDate"`
	RenewalDate       *time.Time          `json:"renewalDate"`
	VisitsRemaining   *int32              `json:"visitsRemaining"`
	RepairsCreditUsed *int32              `json:"repairsCreditUsed"`
	LightsIncluded    *bool               `json:"lightsIncluded"`
	Status            *SubscriptionStatus `json:"status"`
}

func (s *Subscription) Apply(p SubscriptionPatch) {
	if p.Tier != nil {
		s.Tier = *p.Tier
	}
	if p.MonthlyPrice != nil {
		s.MonthlyPrice = *p.MonthlyPrice
	}
	if p.AnnualPrice != nil {
		s.AnnualPrice = *p.AnnualPrice
	}
	if p.BillingCycle != nil {
		s.BillingCycle = *p.BillingCycle
	}
	if p.StartDate != nil {
		s.StartDate = *p.StartDate
	}
	if p.RenewalDate != nil {
		s.RenewalDate = p.RenewalDate
	}
	if p.VisitsRemaining != nil {
		s.VisitsRemaining = *p.VisitsRemaining
	}
	if p.RepairsCreditUsed != nil {
		s.RepairsCreditUsed = *p.RepairsCreditUsed
	}
	if p.LightsIncluded != nil {
		s.LightsIncluded = *p.LightsIncluded
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
}

// ValidateFields checks enum and range fields. The tier credit cap is
// enforced separately by the rule engine.
func (s *Subscription) ValidateFields() error {
	if s.ContactID <= 0 {
		return NewValidationError("contact", "is required")
	}
	if !s.Tier.Valid() {
		return NewValidationError("tier", "unknown value %q", s.Tier)
	}
	if !s.BillingCycle.Valid() {
		return NewValidationError("billingCycle", "unknown value %q", s.BillingCycle)
	}
	if !s.Status.Valid() {
		return NewValidationError("status", "unknown value %q", s.Status)
	}
	if s.StartDate.IsZero() {
		return NewValidationError("startDate", "is required")
	}
	if s.MonthlyPrice < 0 || s.AnnualPrice < 0 {
		return NewValidationError("price", "must not be negative")
	}
	if s.VisitsRemaining < 0 {
		return NewValidationError("visitsRemaining", "must not be negative")
	}
	return nil
}
