package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/handler/dto"
	"github.com/yourusername/quiz-portal/internal/handler/helper"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
	"github.com/yourusername/quiz-portal/pkg/auth"
	"github.com/yourusername/quiz-portal/pkg/auth/manager"
)

// Ключи контекста Gin, которые устанавливает AuthMiddleware
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
	ContextClaims   = "claims"
)

// LoginPath - страница входа для перенаправления браузеров
const LoginPath = "/login/"

// UserLookup читает актуальную запись пользователя
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*entity.User, error)
}

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	jwtService   *auth.JWTService
	tokenManager *manager.TokenManager
	users        UserLookup
}

// NewAuthMiddleware создает новый middleware аутентификации.
// Если users не nil, RequirePermission проверяет текущую роль из базы, а не роль из токена.
func NewAuthMiddleware(jwtService *auth.JWTService, tokenManager *manager.TokenManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		tokenManager: tokenManager,
		users:        users,
	}
}

// RequireAuth проверяет, аутентифицирован ли пользователь.
// Браузер без сессии перенаправляется на страницу входа с параметром next.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := m.tokenManager.TokenFromRequest(c.Request)
		if err != nil {
			m.reject(c, err.Error())
			return
		}

		// Проверяем токен
		claims, err := m.jwtService.ParseToken(c.Request.Context(), token)
		if err != nil {
			m.reject(c, "token_invalid")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth устанавливает пользователя в контекст, если токен действителен, и никогда не прерывает запрос
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := m.tokenManager.TokenFromRequest(c.Request)
		if err == nil {
			if claims, err := m.jwtService.ParseToken(c.Request.Context(), token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequirePermission пропускает только роли, у которых есть указанная возможность.
// Должен применяться ПОСЛЕ RequireAuth.
func (m *AuthMiddleware) RequirePermission(p entity.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			m.reject(c, "token_missing")
			return
		}

		if m.users != nil {
			userID, _ := CurrentUserID(c)
			user, err := m.users.GetByID(c.Request.Context(), userID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					m.reject(c, "user_not_found")
					return
				}
				log.Printf("[AuthMiddleware] Не удалось прочитать пользователя %d: %v", userID, err)
				helper.Render(c, http.StatusInternalServerError, "error.html",
					dto.ErrorResponse{Status: http.StatusInternalServerError, Error: "Internal server error"})
				c.Abort()
				return
			}
			// Роль могла измениться после выдачи токена
			role = user.Role
			c.Set(ContextRole, role)
		}

		if !role.Can(p) {
			log.Printf("[AuthMiddleware] Роль %q не имеет права %s, path %s", role, p, c.Request.URL.Path)
			helper.Render(c, http.StatusForbidden, "error.html",
				dto.ErrorResponse{Status: http.StatusForbidden, Error: "Permission denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, errorType string) {
	if helper.WantsHTML(c) {
		c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": errorType})
}

func setClaims(c *gin.Context, claims *auth.JWTCustomClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextClaims, claims)
}

// CurrentUserID возвращает ID аутентифицированного пользователя
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// CurrentRole возвращает роль аутентифицированного пользователя
func CurrentRole(c *gin.Context) (entity.Role, bool) {
	v, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := v.(entity.Role)
	return role, ok
}
