package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quiz-portal/internal/handler/dto"
	"github.com/yourusername/quiz-portal/internal/handler/helper"
	"github.com/yourusername/quiz-portal/internal/service"
)

// CatalogHandler отдает предметы и главы
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// StudentDashboard отображает кабинет студента со списком предметов
func (h *CatalogHandler) StudentDashboard(c *gin.Context) {
	subjects, err := h.catalogService.ListSubjects(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	helper.Render(c, http.StatusOK, "student_dashboard.html", dto.DashboardResponse{
		User:     userFromClaims(c),
		Subjects: dto.NewSubjectList(subjects),
	})
}

// GetChapters возвращает JSON-массив {id, name} глав предмета
// GET /get-chapters/:subject_id/
func (h *CatalogHandler) GetChapters(c *gin.Context) {
	subjectID := c.MustGet("subjectID").(uint)

	chapters, err := h.catalogService.ListChapters(c.Request.Context(), subjectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewChapterList(chapters))
}
