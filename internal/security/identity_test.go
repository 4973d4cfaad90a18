package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"homecrm-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubUsers map[int32]*domain.User

func (s stubUsers) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, &domain.NotFoundError{Resource: "user", ID: id}
}

type failingUsers struct{}

func (failingUsers) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	return nil, domain.NewStorageError("get user", errors.New("connection reset"))
}

func TestIdentityResolver_Resolve(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	users := stubUsers{
		3: {ID: 3, Name: "Riley", Email: "riley@example.com", Role: domain.RoleSales, DivisionAccess: []domain.Division{domain.DivisionRadiance}},
	}
	resolver := NewIdentityResolver(tm, users)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(3, "riley@example.com", "Owner", []string{"Renovations"})
		require.NoError(t, err)

		p, err := resolver.Resolve(ctx, "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, int32(3), p.ID)
		assert.Equal(t, "Riley", p.Name)
		// role and divisions come from the store, not the token
		assert.Equal(t, domain.RoleSales, p.Role)
		assert.Equal(t, []domain.Division{domain.DivisionRadiance}, p.DivisionAccess)
	})

	t.Run("Missing header", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("Malformed header", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "Token abc")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)

		_, err = resolver.Resolve(ctx, "Bearer ")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("Bad signature", func(t *testing.T) {
		other := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Hour)
		token, err := other.GenerateAccessToken(3, "riley@example.com", "Sales", nil)
		require.NoError(t, err)

		_, err = resolver.Resolve(ctx, "Bearer "+token)
		assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	})

	t.Run("Unknown user", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(99, "ghost@example.com", "Sales", nil)
		require.NoError(t, err)

		_, err = resolver.Resolve(ctx, "Bearer "+token)
		assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	})

	t.Run("Storage failure is not a credential error", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(3, "riley@example.com", "Sales", nil)
		require.NoError(t, err)

		_, err = NewIdentityResolver(tm, failingUsers{}).Resolve(ctx, "Bearer "+token)
		var storageErr *domain.StorageError
		assert.ErrorAs(t, err, &storageErr)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredential)
	})
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("bearer abc.def.ghi")
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}
