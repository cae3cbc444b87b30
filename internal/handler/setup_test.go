package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/middleware"
	"github.com/yourusername/quiz-portal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter создает gin.Engine с настоящими HTML-шаблонами
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(web.MustTemplates())
	return r
}

// withUser подменяет RequireAuth: кладет пользователя в контекст
func withUser(id uint, role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

// newFormRequest создает POST-запрос формы от браузера
func newFormRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	return req
}

// newJSONGet создает GET-запрос API-клиента
func newJSONGet(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "application/json")
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
