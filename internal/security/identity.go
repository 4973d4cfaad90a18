package security

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/logger"
)

// UserLookup is the slice of the user store the resolver needs.
type UserLookup interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

// IdentityResolver turns a bearer credential into the acting principal.
type IdentityResolver struct {
	tokens TokenManager
	users  UserLookup
}

func NewIdentityResolver(tokens TokenManager, users UserLookup) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, users: users}
}

// Resolve validates the Authorization header value and loads the
// principal's current role and divisions from the user store.
func (r *IdentityResolver) Resolve(ctx context.Context, authorization string) (*domain.Principal, error) {
	token, err := ExtractBearerToken(authorization)
	if err != nil {
		return nil, err
	}

	claims, err := r.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}

	user, err := r.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.WarnContext(ctx, "Token subject no longer exists", "user_id", claims.UserID)
			return nil, fmt.Errorf("%w: user not found", domain.ErrInvalidCredential)
		}
		return nil, err
	}
	return user.Principal(), nil
}

// ExtractBearerToken returns the token part of a "Bearer <token>" header.
func ExtractBearerToken(authorization string) (string, error) {
	if authorization == "" {
		return "", domain.ErrUnauthenticated
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", domain.ErrUnauthenticated
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, " ") {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}
