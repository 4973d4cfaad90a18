package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/logger"
	"homecrm-backend/internal/repository"
	"homecrm-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrTooManyAttempts     = errors.New("too many login attempts")
	ErrAlreadyBootstrapped = fmt.Errorf("%w: an owner or admin account already exists", domain.ErrConflict)
)

const minPasswordLength = 8

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
	limiter  *LoginLimiter
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, limiter *LoginLimiter) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		limiter:  limiter,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if s.limiter != nil && !s.limiter.Allow(email) {
		logger.WarnContext(ctx, "Login throttled", "email", email)
		return "", nil, ErrTooManyAttempts
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredential
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredential
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	logger.InfoContext(ctx, "User logged in", "user_id", user.ID, "role", user.Role)
	return token, user, nil
}

// BootstrapOwner creates the first Owner account. It refuses once any
// Owner or Admin exists.
func (s *authService) BootstrapOwner(ctx context.Context, name, email, password string) (*domain.User, error) {
	exists, err := s.userRepo.ExistsWithRole(ctx, []domain.Role{domain.RoleOwner, domain.RoleAdmin})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyBootstrapped
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(name, email, hash, domain.RoleOwner, nil)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Owner account bootstrapped", "user_id", user.ID)
	return user, nil
}

func (s *authService) issueToken(user *domain.User) (string, error) {
	divisions := make([]string, len(user.DivisionAccess))
	for i, d := range user.DivisionAccess {
		divisions[i] = string(d)
	}
	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role), divisions)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	return token, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", domain.NewValidationError("password", "must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
