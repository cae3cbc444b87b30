package service

import (
	"errors"

	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
)

// Ошибки регистрации и входа. Обработчики переводят их в сообщения для пользователя.
var (
	ErrRegistrationIncomplete = errors.New("registration_incomplete")
	ErrPasswordMismatch       = errors.New("password_mismatch")
	ErrEmailTaken             = errors.New("email_taken")
	ErrUsernameTaken          = errors.New("username_taken")
	ErrInvalidCredentials     = errors.New("invalid_credentials")
)

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
