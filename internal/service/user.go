package service

import (
	"context"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/logger"
	"homecrm-backend/internal/query"
	"homecrm-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(ctx context.Context, in NewUserInput) (*domain.User, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(in.Name, in.Email, hash, in.Role, in.DivisionAccess)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "User created", "user_id", user.ID, "role", user.Role, "divisions", user.DivisionAccess)
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context, p query.Pagination) (query.Page[domain.User], error) {
	users, total, err := s.userRepo.List(ctx, p)
	if err != nil {
		return query.Page[domain.User]{}, err
	}
	return query.NewPage(users, p, total), nil
}

// UpdateAccess is the one administrative path that changes a user's
// role or divisions.
func (s *userService) UpdateAccess(ctx context.Context, id int32, role domain.Role, divisions []domain.Division) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.SetAccess(role, divisions); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateAccess(ctx, user); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "User access updated", "user_id", id, "role", user.Role, "divisions", user.DivisionAccess)
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int32) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.InfoContext(ctx, "User deleted", "user_id", id)
	return nil
}
