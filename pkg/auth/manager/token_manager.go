package manager

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
)

// DefaultAccessTokenCookie - имя cookie для access-токена по умолчанию
const DefaultAccessTokenCookie = "access_token"

// ErrTokenMissing - токен не найден ни в cookie, ни в заголовке Authorization
var ErrTokenMissing = errors.New("token_missing")

// ErrTokenFormat - заголовок Authorization не в формате Bearer {token}
var ErrTokenFormat = errors.New("token_format")

// TokenManager переносит access-токен между сервером и клиентом:
// HttpOnly cookie для браузера и заголовок Authorization для API-клиентов
type TokenManager struct {
	cookieName     string
	accessTokenTTL time.Duration
	// Настройки для Cookie
	cookiePath     string
	cookieDomain   string
	cookieSecure   bool
	cookieHttpOnly bool
	cookieSameSite http.SameSite
}

// NewTokenManager создает менеджер токенов. Пустое имя cookie заменяется на DefaultAccessTokenCookie.
func NewTokenManager(cookieName string, accessTokenTTL time.Duration, secure bool) *TokenManager {
	if cookieName == "" {
		cookieName = DefaultAccessTokenCookie
	}
	return &TokenManager{
		cookieName:     cookieName,
		accessTokenTTL: accessTokenTTL,
		cookiePath:     "/",
		cookieDomain:   "", // Пустое значение означает, что браузер использует хост
		cookieSecure:   secure,
		cookieHttpOnly: true,
		// Lax: cookie уходит при переходе по ссылке, но не с чужих POST-форм
		cookieSameSite: http.SameSiteLaxMode,
	}
}

// SetCookieAttributes позволяет настроить атрибуты cookie
func (m *TokenManager) SetCookieAttributes(path, domain string, secure, httpOnly bool, sameSite http.SameSite) {
	m.cookiePath = path
	m.cookieDomain = domain
	m.cookieSecure = secure
	m.cookieHttpOnly = httpOnly
	m.cookieSameSite = sameSite
	log.Printf("[TokenManager] Cookie attributes set: Path=%s, Domain=%s, Secure=%v, HttpOnly=%v, SameSite=%v",
		path, domain, secure, httpOnly, sameSite)
}

// CookieName возвращает имя cookie с access-токеном
func (m *TokenManager) CookieName() string {
	return m.cookieName
}

// SetAccessTokenCookie устанавливает access-токен в HttpOnly куки
func (m *TokenManager) SetAccessTokenCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    accessToken,
		Path:     m.cookiePath,
		Domain:   m.cookieDomain,
		HttpOnly: m.cookieHttpOnly,
		Secure:   m.cookieSecure,
		SameSite: m.cookieSameSite,
		MaxAge:   int(m.accessTokenTTL.Seconds()),
	})
}

// ClearAccessTokenCookie удаляет cookie с access-токеном
func (m *TokenManager) ClearAccessTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     m.cookiePath,
		Domain:   m.cookieDomain,
		HttpOnly: m.cookieHttpOnly,
		Secure:   m.cookieSecure,
		SameSite: m.cookieSameSite,
		MaxAge:   -1,
	})
}

// GetAccessTokenFromCookie получает access-токен из куки
func (m *TokenManager) GetAccessTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrTokenMissing
		}
		return "", err
	}
	if cookie.Value == "" {
		return "", ErrTokenMissing
	}
	return cookie.Value, nil
}

// TokenFromRequest ищет токен сначала в cookie, затем в заголовке Authorization: Bearer {token}
func (m *TokenManager) TokenFromRequest(r *http.Request) (string, error) {
	if token, err := m.GetAccessTokenFromCookie(r); err == nil {
		return token, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrTokenMissing
	}

	// Проверяем формат заголовка Bearer {token}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrTokenFormat
	}
	return parts[1], nil
}
