package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/model"
	"github.com/ekant1999/StrategyEvolve/internal/repository"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/google/uuid"
)

type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (*dto.User, error)
	Get(ctx context.Context, id string) (*dto.User, error)
}

type userService struct {
	log         *logger.Logger
	userRepo    repository.UserRepository
	fastinoRepo repository.FastinoRepository
}

func NewUserService(log *logger.Logger, userRepo repository.UserRepository, fastinoRepo repository.FastinoRepository) UserService {
	return &userService{
		log:         log,
		userRepo:    userRepo,
		fastinoRepo: fastinoRepo,
	}
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	_, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, dto.NewValidationError("email", "already registered")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	user := &model.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  req.Name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.log.ErrorContext(ctx, "Failed to create user", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	out := user.ToDTO()
	if s.fastinoRepo.Enabled() {
		if err := s.fastinoRepo.RegisterUser(ctx, out); err != nil {
			s.log.WarnContext(ctx, "Failed to register user with memory service", logger.ErrorField(err), logger.StringField("user_id", user.ID))
		}
	}
	return &out, nil
}

func (s *userService) Get(ctx context.Context, id string) (*dto.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	out := user.ToDTO()
	return &out, nil
}
