package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Role string

const (
	RoleOwner     Role = "Owner"
	RoleAdmin     Role = "Admin"
	RoleSales     Role = "Sales"
	RoleBDC       Role = "BDC"
	RoleInstaller Role = "Installer"
)

var Roles = []Role{RoleOwner, RoleAdmin, RoleSales, RoleBDC, RoleInstaller}

func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

type Division string

const (
	DivisionRenovations Division = "Renovations"
	DivisionRadiance    Division = "Radiance"
)

var Divisions = []Division{DivisionRenovations, DivisionRadiance}

func (d Division) Valid() bool {
	return slices.Contains(Divisions, d)
}

// User is the persisted account record.
type User struct {
	ID             int32      `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Role           Role       `json:"role"`
	DivisionAccess []Division `json:"divisionAccess"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// NewUser builds a user record, applying the division default for
// Owner and Admin accounts that were created without explicit access.
func NewUser(name, email, passwordHash string, role Role, divisions []Division) (*User, error) {
	u := &User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
	}
	if u.Name == "" {
		return nil, NewValidationError("name", "is required")
	}
	if u.Email == "" {
		return nil, NewValidationError("email", "is required")
	}
	if err := u.SetAccess(role, divisions); err != nil {
		return nil, err
	}
	return u, nil
}

// SetAccess replaces role and division access. The Owner/Admin default
// is re-applied so an administrative update cannot leave an owner with
// no divisions.
func (u *User) SetAccess(role Role, divisions []Division) error {
	if !role.Valid() {
		return NewValidationError("role", "unknown role %q", role)
	}
	access, err := normalizeDivisions(divisions)
	if err != nil {
		return NewValidationError("divisionAccess", "%v", err)
	}
	if len(access) == 0 && (role == RoleOwner || role == RoleAdmin) {
		access = slices.Clone(Divisions)
	}
	u.Role = role
	u.DivisionAccess = access
	return nil
}

// Principal returns the request-scoped identity for this user.
func (u *User) Principal() *Principal {
	return &Principal{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		DivisionAccess: slices.Clone(u.DivisionAccess),
	}
}

// Principal is the resolved identity of the acting user.
type Principal struct {
	ID             int32      `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           Role       `json:"role"`
	DivisionAccess []Division `json:"divisionAccess"`
}

// Unrestricted reports whether the principal carries no division
// entitlements, which the listing path treats as "no division filter".
func (p *Principal) Unrestricted() bool {
	return len(p.DivisionAccess) == 0
}

// CanSee reports whether any of the given divisions is in the
// principal's access set.
func (p *Principal) CanSee(divisions []Division) bool {
	if p.Unrestricted() {
		return true
	}
	return Intersects(p.DivisionAccess, divisions)
}

// Intersects reports whether a and b share at least one division.
func Intersects(a, b []Division) bool {
	for _, d := range a {
		if slices.Contains(b, d) {
			return true
		}
	}
	return false
}

// normalizeDivisions validates and de-duplicates a division list while
// preserving order.
func normalizeDivisions(divisions []Division) ([]Division, error) {
	out := make([]Division, 0, len(divisions))
	for _, d := range divisions {
		if !d.Valid() {
			return nil, fmt.Errorf("unknown division %q", d)
		}
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out, nil
}
