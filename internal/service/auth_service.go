package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
	"github.com/yourusername/quiz-portal/pkg/auth"
)

const welcomeEmailTimeout = 30 * time.Second

// AuthService предоставляет методы для регистрации, входа и выхода
type AuthService struct {
	userRepo     repository.UserRepository
	jwtService   *auth.JWTService
	emailService EmailService
}

// RegisterInput содержит поля формы регистрации
type RegisterInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// LoginResult содержит пользователя и выданный ему токен доступа
type LoginResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	emailService EmailService,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	if emailService == nil {
		emailService = &NoopEmailService{}
	}
	return &AuthService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		emailService: emailService,
	}, nil
}

// RegisterUser создает студента. Проверки идут по порядку: все поля заполнены, пароли совпадают,
// email свободен, username свободен. При любой ошибке пользователь не создается.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*entity.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)

	if input.Username == "" || input.Email == "" || input.Password1 == "" || input.Password2 == "" {
		return nil, fmt.Errorf("%w: %w", ErrRegistrationIncomplete, apperrors.ErrValidation)
	}
	if input.Password1 != input.Password2 {
		return nil, fmt.Errorf("%w: %w", ErrPasswordMismatch, apperrors.ErrValidation)
	}

	// Проверяем, существует ли пользователь с таким email
	_, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, fmt.Errorf("%w: %w", ErrEmailTaken, apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}

	// Проверяем, существует ли пользователь с таким username
	_, err = s.userRepo.GetByUsername(ctx, input.Username)
	if err == nil {
		return nil, fmt.Errorf("%w: %w", ErrUsernameTaken, apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}

	user := &entity.User{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password1,
		Role:     entity.RoleStudent,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Параллельная регистрация заняла email или username между проверкой и вставкой
			return nil, s.resolveRegistrationConflict(ctx, input.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[AuthService] Зарегистрирован пользователь ID=%d, username=%s", user.ID, user.Username)
	s.sendWelcomeAsync(user)
	return user, nil
}

func (s *AuthService) resolveRegistrationConflict(ctx context.Context, email string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("%w: %w", ErrEmailTaken, apperrors.ErrConflict)
	}
	return fmt.Errorf("%w: %w", ErrUsernameTaken, apperrors.ErrConflict)
}

func (s *AuthService) sendWelcomeAsync(user *entity.User) {
	go func(email, username string) {
		ctx, cancel := context.WithTimeout(context.Background(), welcomeEmailTimeout)
		defer cancel()
		if err := s.emailService.SendWelcome(ctx, email, username); err != nil {
			log.Printf("[AuthService] Не удалось отправить приветственное письмо на %s: %v", email, err)
		}
	}(user.Email, user.Username)
}

// AuthenticateUser проверяет учетные данные. login - username или email.
// Неизвестный пользователь и неверный пароль дают одну и ту же ошибку ErrInvalidCredentials.
func (s *AuthService) AuthenticateUser(ctx context.Context, login, password string) (*entity.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByUsername(ctx, login)
	if errors.Is(err, apperrors.ErrNotFound) && strings.Contains(login, "@") {
		user, err = s.userRepo.GetByEmail(ctx, normalizeEmail(login))
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[AuthService] Пользователь %s не найден", login)
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.CheckPassword(password) {
		log.Printf("[AuthService] Неверный пароль для пользователя ID=%d", user.ID)
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, apperrors.ErrUnauthorized)
	}
	return user, nil
}

// Login проверяет учетные данные и выдает токен доступа
func (s *AuthService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	user, err := s.AuthenticateUser(ctx, login, password)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwtService.TTL()),
	}, nil
}

// Logout отзывает токен. Недействительный или истекший токен отзывать не нужно.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtService.ParseToken(ctx, token)
	if err != nil {
		return nil
	}
	return s.jwtService.RevokeToken(ctx, claims)
}

// GetUserByID возвращает пользователя по ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// normalizeEmail приводит email к стандартному виду: trim пробелов + lowercase
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
