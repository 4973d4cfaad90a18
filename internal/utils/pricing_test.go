package utils

import (
	"errors"
	"testing"

	"homecrm-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func ptr(v int32) *int32 { return &v }

func TestDerivePricing(t *testing.T) {
	t.Run("Glow defaults", func(t *testing.T) {
		monthly, annual, err := DerivePricing(domain.TierGlow, nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, int32(49), monthly)
		assert.Equal(t, int32(490), annual)
	})

	t.Run("Explicit zero monthly is kept", func(t *testing.T) {
		monthly, annual, err := DerivePricing(domain.TierGlow, ptr(0), nil)
		assert.NoError(t, err)
		assert.Equal(t, int32(0), monthly)
		assert.Equal(t, int32(490), annual)
	})

	t.Run("Supplied values win", func(t *testing.T) {
		monthly, annual, err := DerivePricing(domain.TierEternal, ptr(100), ptr(0))
		assert.NoError(t, err)
		assert.Equal(t, int32(100), monthly)
		assert.Equal(t, int32(0), annual)
	})

	t.Run("Unknown tier", func(t *testing.T) {
		_, _, err := DerivePricing(domain.Tier("Platinum"), nil, nil)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}

func TestDerivePricing_TierTable(t *testing.T) {
	tests := []struct {
		tier    domain.Tier
		monthly int32
		annual  int32
	}{
		{domain.TierGlow, 49, 490},
		{domain.TierBrilliance, 79, 790},
		{domain.TierEternal, 119, 990},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			monthly, annual, err := DerivePricing(tt.tier, nil, nil)
			assert.NoError(t, err)
			assert.Equal(t, tt.monthly, monthly)
			assert.Equal(t, tt.annual, annual)
		})
	}
}

func TestValidateCreditUsage(t *testing.T) {
	tests := []struct {
		name    string
		tier    domain.Tier
		used    int32
		wantErr bool
	}{
		{"Eternal at cap", domain.TierEternal, 800, false},
		{"Eternal over cap", domain.TierEternal, 801, true},
		{"Brilliance above Eternal cap", domain.TierBrilliance, 801, false},
		{"Glow large value", domain.TierGlow, 100000, false},
		{"Negative", domain.TierGlow, -1, true},
		{"Zero", domain.TierEternal, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreditUsage(tt.tier, tt.used)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
