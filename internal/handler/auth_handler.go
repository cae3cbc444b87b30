package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quiz-portal/internal/handler/dto"
	"github.com/yourusername/quiz-portal/internal/handler/helper"
	"github.com/yourusername/quiz-portal/internal/middleware"
	"github.com/yourusername/quiz-portal/internal/service"
	"github.com/yourusername/quiz-portal/pkg/auth"
	"github.com/yourusername/quiz-portal/pkg/auth/manager"
)

// Сообщения форм входа и регистрации
const (
	MsgFieldsRequired     = "All fields are required."
	MsgPasswordMismatch   = "Passwords do not match."
	MsgEmailTaken         = "Email is already registered."
	MsgUsernameTaken      = "Username is already taken."
	MsgRegistered         = "Registration successful! Please login."
	MsgInvalidCredentials = "Invalid email or password. Please try again."
)

// DashboardPath - страница студента после входа
const DashboardPath = "/student/"

// AuthHandler обрабатывает запросы, связанные с аутентификацией
type AuthHandler struct {
	authService  *service.AuthService
	tokenManager *manager.TokenManager
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService, tokenManager *manager.TokenManager) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenManager: tokenManager,
	}
}

// LoginRequest представляет форму входа. Username - имя пользователя или email.
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next" json:"next"`
}

// RegisterRequest представляет форму регистрации
type RegisterRequest struct {
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Password1 string `form:"password1" json:"password1"`
	Password2 string `form:"password2" json:"password2"`
}

// Home отображает главную страницу
func (h *AuthHandler) Home(c *gin.Context) {
	helper.Render(c, http.StatusOK, "home.html", dto.HomeResponse{User: userFromClaims(c)})
}

// ShowLogin отображает форму входа
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	form := dto.AuthFormResponse{Next: c.Query("next")}
	if c.Query("registered") == "1" {
		form.Message = MsgRegistered
	}
	helper.Render(c, http.StatusOK, "login.html", form)
}

// Login обрабатывает запрос на вход
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		helper.Render(c, http.StatusBadRequest, "login.html", dto.AuthFormResponse{Error: "Invalid request data"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			helper.Render(c, http.StatusUnauthorized, "login.html", dto.AuthFormResponse{
				Error:    MsgInvalidCredentials,
				Next:     req.Next,
				Username: req.Username,
			})
			return
		}
		handleServiceError(c, err)
		return
	}

	h.tokenManager.SetAccessTokenCookie(c.Writer, result.Token)
	log.Printf("[AuthHandler] Пользователь ID=%d вошел в систему", result.User.ID)

	if helper.WantsHTML(c) {
		helper.Redirect(c, helper.SafeNext(req.Next, DashboardPath))
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{
		User:        dto.NewUserResponse(result.User),
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(result.ExpiresAt).Seconds()),
	})
}

// ShowRegister отображает форму регистрации
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	helper.Render(c, http.StatusOK, "register.html", dto.AuthFormResponse{})
}

// Register обрабатывает запрос на регистрацию студента
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		helper.Render(c, http.StatusBadRequest, "register.html", dto.AuthFormResponse{Error: "Invalid request data"})
		return
	}

	user, err := h.authService.RegisterUser(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password1: req.Password1,
		Password2: req.Password2,
	})
	if err != nil {
		status, message, ok := registrationError(err)
		if !ok {
			handleServiceError(c, err)
			return
		}
		helper.Render(c, status, "register.html", dto.AuthFormResponse{
			Error:    message,
			Username: req.Username,
			Email:    req.Email,
		})
		return
	}

	if helper.WantsHTML(c) {
		helper.Redirect(c, middleware.LoginPath+"?registered=1")
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Logout отзывает токен и очищает cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := h.tokenManager.TokenFromRequest(c.Request); err == nil {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			log.Printf("[AuthHandler] Logout: не удалось отозвать токен: %v", err)
		}
	}
	h.tokenManager.ClearAccessTokenCookie(c.Writer)

	if helper.WantsHTML(c) {
		helper.Redirect(c, middleware.LoginPath)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// GetMe возвращает профиль текущего пользователя
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// registrationError переводит ошибку регистрации в статус и сообщение формы
func registrationError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, service.ErrRegistrationIncomplete):
		return http.StatusBadRequest, MsgFieldsRequired, true
	case errors.Is(err, service.ErrPasswordMismatch):
		return http.StatusBadRequest, MsgPasswordMismatch, true
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, MsgEmailTaken, true
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict, MsgUsernameTaken, true
	}
	return 0, "", false
}

// userFromClaims возвращает пользователя из claims токена или nil для анонимного запроса
func userFromClaims(c *gin.Context) *dto.UserResponse {
	v, ok := c.Get(middleware.ContextClaims)
	if !ok {
		return nil
	}
	claims, ok := v.(*auth.JWTCustomClaims)
	if !ok {
		return nil
	}
	return &dto.UserResponse{ID: claims.UserID, Username: claims.Username, Role: string(claims.Role)}
}
