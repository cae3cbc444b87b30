package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
)

// UserService предоставляет методы администрирования пользователей
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// SetRole назначает пользователю роль student или teacher
func (s *UserService) SetRole(ctx context.Context, username, role string) (*entity.User, error) {
	parsed, ok := entity.ParseRole(strings.TrimSpace(role))
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user.Role == parsed {
		return user, nil
	}

	if err := s.userRepo.UpdateRole(ctx, user.ID, parsed); err != nil {
		log.Printf("[UserService] Ошибка при смене роли пользователя %s: %v", username, err)
		return nil, err
	}
	log.Printf("[UserService] Пользователь %s: роль %s -> %s", user.Username, user.Role, parsed)
	user.Role = parsed
	return user, nil
}
