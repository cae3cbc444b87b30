package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quiz-portal/internal/handler/dto"
	"github.com/yourusername/quiz-portal/internal/handler/helper"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
)

// handleServiceError обрабатывает ошибки от сервисов и отправляет соответствующий HTTP ответ
func handleServiceError(c *gin.Context, err error) {
	var status int
	var message string
	if errors.Is(err, apperrors.ErrNotFound) {
		status, message = http.StatusNotFound, "Not found"
	} else if errors.Is(err, apperrors.ErrConflict) {
		status, message = http.StatusConflict, "Conflict"
	} else if errors.Is(err, apperrors.ErrValidation) {
		status, message = http.StatusBadRequest, err.Error()
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		status, message = http.StatusUnauthorized, "Unauthorized"
	} else if errors.Is(err, apperrors.ErrForbidden) {
		status, message = http.StatusForbidden, "Forbidden"
	} else {
		log.Printf("ERROR: Internal server error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		status, message = http.StatusInternalServerError, "Internal server error"
	}
	helper.Render(c, status, "error.html", dto.ErrorResponse{Status: status, Error: message})
}
