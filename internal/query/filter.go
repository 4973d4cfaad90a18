package query

import (
	"slices"
	"strings"

	"homecrm-backend/internal/domain"
)

type Op string

const (
	OpAnd Op = "and"
	OpOr  Op = "or"
	// OpEq matches a scalar field equal to Values[0].
	OpEq Op = "eq"
	// OpAnyOf matches when the field holds any of Values. For array
	// fields that means the two sets overlap.
	OpAnyOf Op = "any_of"
	// OpContains is a case-insensitive literal substring match of
	// Values[0]. For array fields any element may match.
	OpContains Op = "contains"
)

type Field string

const (
	FieldName            Field = "name"
	FieldEmails          Field = "emails"
	FieldPhones          Field = "phones"
	FieldDivisions       Field = "divisions"
	FieldLeadSource      Field = "lead_source"
	FieldContactCategory Field = "contact_category"
)

// IsArray reports whether the field is stored as a list.
func (f Field) IsArray() bool {
	return f == FieldEmails || f == FieldPhones || f == FieldDivisions
}

// Filter is an inspectable predicate tree over contact fields. The zero
// And node matches every contact.
type Filter struct {
	Op       Op       `json:"op"`
	Field    Field    `json:"field,omitempty"`
	Values   []string `json:"values,omitempty"`
	Children []Filter `json:"children,omitempty"`
}

func All() Filter { return Filter{Op: OpAnd} }

func And(children ...Filter) Filter { return Filter{Op: OpAnd, Children: children} }

func Or(children ...Filter) Filter { return Filter{Op: OpOr, Children: children} }

func Eq(field Field, value string) Filter {
	return Filter{Op: OpEq, Field: field, Values: []string{value}}
}

func AnyOf(field Field, values ...string) Filter {
	return Filter{Op: OpAnyOf, Field: field, Values: values}
}

func Contains(field Field, text string) Filter {
	return Filter{Op: OpContains, Field: field, Values: []string{text}}
}

// IsAll reports whether the filter imposes no constraint.
func (f Filter) IsAll() bool {
	return f.Op == OpAnd && len(f.Children) == 0
}

// Matches evaluates the filter against a contact in memory.
func (f Filter) Matches(c *domain.Contact) bool {
	switch f.Op {
	case OpAnd:
		for _, child := range f.Children {
			if !child.Matches(c) {
				return false
			}
		}
		return true
	case OpOr:
		for _, child := range f.Children {
			if child.Matches(c) {
				return true
			}
		}
		return false
	case OpEq:
		values := fieldValues(c, f.Field)
		return len(values) == 1 && len(f.Values) == 1 && values[0] == f.Values[0]
	case OpAnyOf:
		for _, v := range fieldValues(c, f.Field) {
			if slices.Contains(f.Values, v) {
				return true
			}
		}
		return false
	case OpContains:
		if len(f.Values) != 1 {
			return false
		}
		needle := strings.ToLower(f.Values[0])
		for _, v := range fieldValues(c, f.Field) {
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
		return false
	}
	return false
}

func fieldValues(c *domain.Contact, field Field) []string {
	switch field {
	case FieldName:
		return []string{c.Name}
	case FieldEmails:
		return c.Emails
	case FieldPhones:
		return c.Phones
	case FieldDivisions:
		out := make([]string, len(c.Divisions))
		for i, d := range c.Divisions {
			out[i] = string(d)
		}
		return out
	case FieldLeadSource:
		return []string{string(c.LeadSource)}
	case FieldContactCategory:
		return []string{string(c.ContactCategory)}
	}
	return nil
}
