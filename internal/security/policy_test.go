package security

import (
	"fmt"
	"slices"
	"testing"

	"homecrm-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestAuthorize(t *testing.T) {
	sales := &domain.Principal{ID: 1, Name: "Sam", Role: domain.RoleSales, DivisionAccess: []domain.Division{domain.DivisionRenovations}}

	tests := []struct {
		name      string
		principal *domain.Principal
		roles     []domain.Role
		divisions []domain.Division
		want      error
	}{
		{"No requirements", sales, nil, nil, nil},
		{"Role allowed", sales, []domain.Role{domain.RoleOwner, domain.RoleSales}, nil, nil},
		{"Role denied", sales, []domain.Role{domain.RoleOwner, domain.RoleAdmin}, nil, domain.ErrInsufficientRole},
		{"Division allowed", sales, nil, []domain.Division{domain.DivisionRenovations}, nil},
		{"Division denied", sales, nil, []domain.Division{domain.DivisionRadiance}, domain.ErrInsufficientDivision},
		{"Role checked before division", sales, []domain.Role{domain.RoleAdmin}, []domain.Division{domain.DivisionRadiance}, domain.ErrInsufficientRole},
		{"Empty access fails division requirement", &domain.Principal{Role: domain.RoleBDC}, nil, []domain.Division{domain.DivisionRadiance}, domain.ErrInsufficientDivision},
		{"Nil principal", nil, nil, nil, domain.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, tt.roles, tt.divisions)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestAuthorize_PropertyBased(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		role := rapid.SampledFrom(domain.Roles).Draw(t, "role")
		access := drawSubset(t, domain.Divisions, "access")
		requiredRoles := drawSubset(t, domain.Roles, "requiredRoles")
		requiredDivisions := drawSubset(t, domain.Divisions, "requiredDivisions")

		p := &domain.Principal{ID: 7, Role: role, DivisionAccess: access}
		err := Authorize(p, requiredRoles, requiredDivisions)

		roleOK := len(requiredRoles) == 0 || slices.Contains(requiredRoles, role)
		divisionOK := len(requiredDivisions) == 0
		for _, d := range access {
			if slices.Contains(requiredDivisions, d) {
				divisionOK = true
			}
		}

		switch {
		case !roleOK:
			assert.ErrorIs(t, err, domain.ErrInsufficientRole)
		case !divisionOK:
			assert.ErrorIs(t, err, domain.ErrInsufficientDivision)
		default:
			assert.NoError(t, err)
		}
	})
}

func drawSubset[T any](t *rapid.T, items []T, label string) []T {
	var out []T
	for i, item := range items {
		if rapid.Bool().Draw(t, fmt.Sprintf("%s[%d]", label, i)) {
			out = append(out, item)
		}
	}
	return out
}
