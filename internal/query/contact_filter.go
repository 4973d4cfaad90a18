package query

import (
	"strings"

	"homecrm-backend/internal/domain"
)

// ContactFilterOptions are the categorical and free-text filters of a
// contact listing. Empty strings mean "not requested".
type ContactFilterOptions struct {
	Category   string
	LeadSource string
	Search     string
}

// ComposeContactFilter builds the effective filter for a contact listing.
//
// An explicitly requested division narrows the result to that division
// alone; whether p may ask for it is checked by the caller. Without one
// the listing is scoped to p's division access, and a principal with no
// entitlements gets no division constraint.
func ComposeContactFilter(p *domain.Principal, requested *domain.Division, opts ContactFilterOptions) Filter {
	var parts []Filter

	switch {
	case requested != nil:
		parts = append(parts, AnyOf(FieldDivisions, string(*requested)))
	case p != nil && !p.Unrestricted():
		divisions := make([]string, len(p.DivisionAccess))
		for i, d := range p.DivisionAccess {
			divisions[i] = string(d)
		}
		parts = append(parts, AnyOf(FieldDivisions, divisions...))
	}

	if opts.Category != "" {
		parts = append(parts, Eq(FieldContactCategory, opts.Category))
	}
	if opts.LeadSource != "" {
		parts = append(parts, Eq(FieldLeadSource, opts.LeadSource))
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		parts = append(parts, Or(
			Contains(FieldName, search),
			Contains(FieldEmails, search),
			Contains(FieldPhones, search),
		))
	}

	return And(parts...)
}
