package query

import (
	"fmt"
	"testing"

	"homecrm-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func contact(name string, divisions ...domain.Division) *domain.Contact {
	return &domain.Contact{
		Name:            name,
		Phones:          []string{"555-0100"},
		Emails:          []string{"owner@example.com"},
		LeadSource:      domain.LeadSourceWebsite,
		ContactType:     domain.ContactTypeResidential,
		ContactCategory: domain.ContactCategoryLead,
		Divisions:       divisions,
	}
}

func division(d domain.Division) *domain.Division { return &d }

func TestComposeContactFilter_DivisionScoping(t *testing.T) {
	renovationsOnly := &domain.Principal{ID: 1, Role: domain.RoleSales, DivisionAccess: []domain.Division{domain.DivisionRenovations}}

	reno := contact("Reno", domain.DivisionRenovations)
	radiance := contact("Radiance", domain.DivisionRadiance)
	both := contact("Both", domain.DivisionRadiance, domain.DivisionRenovations)

	t.Run("No division requested scopes to access", func(t *testing.T) {
		f := ComposeContactFilter(renovationsOnly, nil, ContactFilterOptions{})
		assert.True(t, f.Matches(reno))
		assert.True(t, f.Matches(both))
		assert.False(t, f.Matches(radiance))
	})

	t.Run("Explicit division narrows regardless of access", func(t *testing.T) {
		f := ComposeContactFilter(renovationsOnly, division(domain.DivisionRadiance), ContactFilterOptions{})
		assert.Equal(t, And(AnyOf(FieldDivisions, "Radiance")), f)
		assert.False(t, f.Matches(reno))
		assert.True(t, f.Matches(radiance))
		assert.True(t, f.Matches(both))
	})

	t.Run("Unrestricted principal has no division filter", func(t *testing.T) {
		f := ComposeContactFilter(&domain.Principal{ID: 2, Role: domain.RoleBDC}, nil, ContactFilterOptions{})
		assert.True(t, f.IsAll())
		assert.True(t, f.Matches(radiance))
	})

	t.Run("No principal has no division filter", func(t *testing.T) {
		f := ComposeContactFilter(nil, nil, ContactFilterOptions{})
		assert.True(t, f.IsAll())
	})
}

func TestComposeContactFilter_CategoricalAndSearch(t *testing.T) {
	p := &domain.Principal{ID: 1, Role: domain.RoleOwner, DivisionAccess: domain.Divisions}

	c := contact("Jane Smith", domain.DivisionRenovations)
	c.ContactCategory = domain.ContactCategoryCustomer
	c.LeadSource = domain.LeadSourceReferral
	c.Emails = []string{"JANE@Example.com"}
	c.Phones = []string{"(555) 867-5309"}

	tests := []struct {
		name string
		opts ContactFilterOptions
		want bool
	}{
		{"Category match", ContactFilterOptions{Category: "Customer"}, true},
		{"Category mismatch", ContactFilterOptions{Category: "Lead"}, false},
		{"Lead source match", ContactFilterOptions{LeadSource: "Referral"}, true},
		{"Lead source mismatch", ContactFilterOptions{LeadSource: "Angi"}, false},
		{"Search name case-insensitive", ContactFilterOptions{Search: "jane sm"}, true},
		{"Search email", ContactFilterOptions{Search: "example.COM"}, true},
		{"Search phone", ContactFilterOptions{Search: "867-53"}, true},
		{"Search miss", ContactFilterOptions{Search: "nobody"}, false},
		{"Search ANDed with category", ContactFilterOptions{Search: "jane", Category: "Lead"}, false},
		{"Search is literal", ContactFilterOptions{Search: "j.ne"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ComposeContactFilter(p, nil, tt.opts)
			assert.Equal(t, tt.want, f.Matches(c))
		})
	}
}

// A contact is listed for a principal with entitlements iff its
// divisions overlap the principal's access.
func TestComposeContactFilter_PropertyVisibility(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		access := drawDivisions(t, "access")
		if len(access) == 0 {
			access = []domain.Division{rapid.SampledFrom(domain.Divisions).Draw(t, "fallback")}
		}
		divisions := drawDivisions(t, "contact")
		if len(divisions) == 0 {
			divisions = []domain.Division{rapid.SampledFrom(domain.Divisions).Draw(t, "contactFallback")}
		}

		p := &domain.Principal{ID: 1, Role: rapid.SampledFrom(domain.Roles).Draw(t, "role"), DivisionAccess: access}
		c := contact("Anyone", divisions...)

		f := ComposeContactFilter(p, nil, ContactFilterOptions{})
		assert.Equal(t, domain.Intersects(access, divisions), f.Matches(c))
	})
}

func drawDivisions(t *rapid.T, label string) []domain.Division {
	var out []domain.Division
	for i, d := range domain.Divisions {
		if rapid.Bool().Draw(t, fmt.Sprintf("%s[%d]", label, i)) {
			out = append(out, d)
		}
	}
	return out
}
