package security

import (
	"slices"

	"homecrm-backend/internal/domain"
)

// Authorize decides whether p may perform an operation that requires
// one of roles and one of divisions. Empty requirement lists impose no
// constraint. The role check runs first, so a principal failing both
// is denied with ErrInsufficientRole.
func Authorize(p *domain.Principal, roles []domain.Role, divisions []domain.Division) error {
	if p == nil {
		return domain.ErrUnauthenticated
	}
	if len(roles) > 0 && !slices.Contains(roles, p.Role) {
		return domain.ErrInsufficientRole
	}
	if len(divisions) > 0 && !domain.Intersects(p.DivisionAccess, divisions) {
		return domain.ErrInsufficientDivision
	}
	return nil
}
