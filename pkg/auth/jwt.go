package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
)

const (
	tokenIssuer      = "quiz-portal"
	revokedJTIKeyFmt = "auth:revoked_jti:%s"
)

// Ошибки разбора токена
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token is expired")
	ErrTokenInvalid   = errors.New("token validation failed")
	ErrTokenRevoked   = errors.New("token has been revoked")
)

// JWTCustomClaims содержит пользовательские поля для токена
type JWTCustomClaims struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Role     entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService выпускает и проверяет access-токены (HS256).
// Отозванные токены хранятся в кеше по jti до истечения срока их действия.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	// denylist может быть nil, тогда отзыв токенов не поддерживается
	denylist repository.CacheRepository
	now      func() time.Time
}

// NewJWTService создает новый сервис JWT и возвращает ошибку при проблемах
func NewJWTService(secret string, ttl time.Duration, denylist repository.CacheRepository) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required for JWTService")
	}
	if ttl <= 0 {
		log.Printf("[JWT] Некорректное время жизни токена %s, используем 24h", ttl)
		ttl = 24 * time.Hour
	}
	return &JWTService{
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: denylist,
		now:      time.Now,
	}, nil
}

// TTL возвращает время жизни выпускаемых токенов
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// GenerateToken создает новый токен доступа для пользователя
func (s *JWTService) GenerateToken(user *entity.User) (string, error) {
	if user == nil || user.ID == 0 {
		return "", errors.New("cannot issue token for unsaved user")
	}

	now := s.now()
	claims := &JWTCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		log.Printf("[JWT] Ошибка генерации токена для пользователя ID=%d: %v", user.ID, err)
		return "", err
	}
	return tokenString, nil
}

// ParseToken проверяет подпись, срок действия и отзыв токена
func (s *JWTService) ParseToken(ctx context.Context, tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, ErrTokenMalformed
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return nil, ErrTokenExpired
			}
		}
		log.Printf("[JWT] Ошибка при разборе токена: %v", err)
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}

	revoked, err := s.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// RevokeToken добавляет jti токена в черный список до истечения срока действия токена
func (s *JWTService) RevokeToken(ctx context.Context, claims *JWTCustomClaims) error {
	if s.denylist == nil || claims == nil || claims.ID == "" {
		return nil
	}

	ttl := s.ttl
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if ttl <= 0 {
		return nil // Токен уже истек
	}

	if err := s.denylist.Set(ctx, fmt.Sprintf(revokedJTIKeyFmt, claims.ID), claims.UserID, ttl); err != nil {
		log.Printf("[JWT] Ошибка отзыва токена jti=%s пользователя ID=%d: %v", claims.ID, claims.UserID, err)
		return err
	}
	return nil
}

// IsRevoked проверяет, отозван ли токен с указанным jti
func (s *JWTService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.denylist == nil || jti == "" {
		return false, nil
	}
	revoked, err := s.denylist.Exists(ctx, fmt.Sprintf(revokedJTIKeyFmt, jti))
	if err != nil {
		log.Printf("[JWT] Ошибка проверки отзыва токена jti=%s: %v", jti, err)
		return false, err
	}
	return revoked, nil
}
