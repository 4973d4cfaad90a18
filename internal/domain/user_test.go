package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("Owner without divisions gets all of them", func(t *testing.T) {
		u, err := NewUser(" Olive ", " Olive@Example.COM ", "hash", RoleOwner, nil)
		require.NoError(t, err)
		assert.Equal(t, "Olive", u.Name)
		assert.Equal(t, "olive@example.com", u.Email)
		assert.Equal(t, Divisions, u.DivisionAccess)
	})

	t.Run("Sales keeps an empty access list", func(t *testing.T) {
		u, err := NewUser("Sam", "sam@example.com", "hash", RoleSales, nil)
		require.NoError(t, err)
		assert.Empty(t, u.DivisionAccess)
	})

	t.Run("Duplicate divisions collapse", func(t *testing.T) {
		u, err := NewUser("Ian", "ian@example.com", "hash", RoleInstaller,
			[]Division{DivisionRadiance, DivisionRadiance})
		require.NoError(t, err)
		assert.Equal(t, []Division{DivisionRadiance}, u.DivisionAccess)
	})

	tests := []struct {
		name  string
		uname string
		email string
		role  Role
		divs  []Division
		field string
	}{
		{"Missing name", " ", "a@b.c", RoleSales, nil, "name"},
		{"Missing email", "A", "", RoleSales, nil, "email"},
		{"Unknown role", "A", "a@b.c", Role("Janitor"), nil, "role"},
		{"Unknown division", "A", "a@b.c", RoleSales, []Division{"Plumbing"}, "divisionAccess"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.uname, tt.email, "hash", tt.role, tt.divs)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSetAccess_ReappliesOwnerDefault(t *testing.T) {
	u, err := NewUser("Sam", "sam@example.com", "hash", RoleSales, []Division{DivisionRenovations})
	require.NoError(t, err)

	require.NoError(t, u.SetAccess(RoleAdmin, []Division{}))

	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, Divisions, u.DivisionAccess)
}

func TestPrincipal_CanSee(t *testing.T) {
	radiance := &Principal{DivisionAccess: []Division{DivisionRadiance}}
	unrestricted := &Principal{}

	assert.True(t, radiance.CanSee([]Division{DivisionRenovations, DivisionRadiance}))
	assert.False(t, radiance.CanSee([]Division{DivisionRenovations}))
	assert.True(t, unrestricted.CanSee([]Division{DivisionRenovations}))
}
