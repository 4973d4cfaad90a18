package http

import (
	"context"

	"homecrm-backend/internal/domain"
)

type contextKey int

const principalKey contextKey = iota

func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal the auth middleware
// resolved, or nil on public routes.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(principalKey).(*domain.Principal)
	return p
}
