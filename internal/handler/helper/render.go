package helper

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var offeredFormats = []string{gin.MIMEHTML, gin.MIMEJSON}

// WantsHTML сообщает, что клиент - браузер: запрос без Bearer-токена и Accept не предпочитает JSON
func WantsHTML(c *gin.Context) bool {
	if strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
		return false
	}
	return c.NegotiateFormat(offeredFormats...) == gin.MIMEHTML
}

// Render отдает data шаблоном name для браузера или JSON для API-клиента
func Render(c *gin.Context, status int, name string, data interface{}) {
	if WantsHTML(c) {
		c.HTML(status, name, data)
		return
	}
	c.JSON(status, data)
}

// Redirect перенаправляет браузер (303 после POST, 302 для GET)
func Redirect(c *gin.Context, location string) {
	status := http.StatusFound
	if c.Request.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	c.Redirect(status, location)
}

// SafeNext возвращает локальный путь для перехода после входа или fallback
func SafeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
