package dto

import "github.com/yourusername/quiz-portal/internal/domain/entity"

// UserResponse представляет пользователя в ответах API
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// NewUserResponse создает UserResponse из entity.User, nil дает nil
func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}
}

// HomeResponse - данные главной страницы
type HomeResponse struct {
	User *UserResponse `json:"user,omitempty"`
}

// AuthFormResponse - данные форм входа и регистрации
type AuthFormResponse struct {
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	Next     string `json:"next,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// LoginResponse - ответ на успешный вход для API-клиентов
type LoginResponse struct {
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"accessToken"`
	TokenType   string        `json:"tokenType"`
	ExpiresIn   int           `json:"expiresIn"`
}

// ErrorResponse - страница или JSON с ошибкой
type ErrorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}
