package utils

import (
	"homecrm-backend/internal/domain"
)

// TierPrice is the list price of a subscription tier in whole dollars.
type TierPrice struct {
	Monthly int32
	Annual  int32
}

// EternalRepairCreditCap is the most repair credit an Eternal
// subscription may consume.
const EternalRepairCreditCap int32 = 800

var tierPricing = map[domain.Tier]TierPrice{
	domain.TierGlow:       {Monthly: 49, Annual: 490},
	domain.TierBrilliance: {Monthly: 79, Annual: 790},
	domain.TierEternal:    {Monthly: 119, Annual: 990},
}

// PriceForTier returns the list price for tier.
func PriceForTier(tier domain.Tier) (TierPrice, bool) {
	p, ok := tierPricing[tier]
	return p, ok
}

// DerivePricing returns the prices to store on a new subscription. A
// supplied value is used verbatim, including an explicit zero; only an
// absent value falls back to the tier's list price.
func DerivePricing(tier domain.Tier, suppliedMonthly, suppliedAnnual *int32) (int32, int32, error) {
	list, ok := tierPricing[tier]
	if !ok {
		return 0, 0, domain.NewValidationError("tier", "unknown value %q", tier)
	}

	monthly, annual := list.Monthly, list.Annual
	if suppliedMonthly != nil {
		monthly = *suppliedMonthly
	}
	if suppliedAnnual != nil {
		annual = *suppliedAnnual
	}
	return monthly, annual, nil
}

// ValidateCreditUsage checks repairsCreditUsed against the current tier.
// Only Eternal carries a cap.
func ValidateCreditUsage(tier domain.Tier, used int32) error {
	if used < 0 {
		return domain.NewValidationError("repairsCreditUsed", "must not be negative")
	}
	if tier == domain.TierEternal && used > EternalRepairCreditCap {
		return domain.NewValidationError("repairsCreditUsed", "cannot exceed %d for %s tier", EternalRepairCreditCap, tier)
	}
	return nil
}
