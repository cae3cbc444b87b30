package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
	"github.com/yourusername/quiz-portal/internal/handler/dto"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
	"github.com/yourusername/quiz-portal/internal/service"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var attemptExportHeaders = []string{
	"ID", "Student", "Subject", "Chapter", "Total questions", "Attempted",
	"Correct", "Wrong", "Unanswered", "Status", "Started at", "Completed at",
}

// TeacherHandler отдает преподавателю попытки студентов
type TeacherHandler struct {
	reportService *service.ReportService
}

// NewTeacherHandler создает новый обработчик отчетов преподавателя
func NewTeacherHandler(reportService *service.ReportService) *TeacherHandler {
	return &TeacherHandler{reportService: reportService}
}

// ListAttempts возвращает страницу попыток с фильтрами subject_id, chapter_id, status
// GET /teacher/attempts?page=&page_size=
func (h *TeacherHandler) ListAttempts(c *gin.Context) {
	filter, err := parseAttemptFilter(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = service.NormalizePage(page, pageSize)

	attempts, total, err := h.reportService.ListAttempts(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedAttemptsResponse(attempts, total, page, pageSize))
}

// ExportAttempts экспортирует попытки в CSV или Excel формате
// GET /teacher/attempts/export?format=csv|xlsx
func (h *TeacherHandler) ExportAttempts(c *gin.Context) {
	filter, err := parseAttemptFilter(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		handleServiceError(c, fmt.Errorf("%w: unknown format %q", apperrors.ErrValidation, format))
		return
	}

	// Получаем ВСЕ попытки без пагинации для экспорта
	attempts, err := h.reportService.ExportAttempts(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attempts_%s", time.Now().Format("2006-01-02"))
	switch format {
	case "xlsx":
		h.exportXLSX(c, attempts, filename)
	default:
		h.exportCSV(c, attempts, filename)
	}
}

// exportCSV экспортирует попытки в CSV с правильным экранированием спецсимволов
func (h *TeacherHandler) exportCSV(c *gin.Context, attempts []entity.QuizAttempt, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(attemptExportHeaders)
	for i := range attempts {
		writer.Write(attemptExportRow(&attempts[i]))
	}
}

// exportXLSX экспортирует попытки в Excel с использованием StreamWriter
func (h *TeacherHandler) exportXLSX(c *gin.Context, attempts []entity.QuizAttempt, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Attempts"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[TeacherHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(attemptExportHeaders))
	for i, name := range attemptExportHeaders {
		headers[i] = name
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[TeacherHandler] Ошибка записи заголовков: %v", err)
	}

	for i := range attempts {
		a := &attempts[i]
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		resp := dto.NewAttemptResponse(a)
		row := []interface{}{
			a.ID,
			sanitizeForExcel(resp.Student),
			sanitizeForExcel(resp.Subject),
			sanitizeForExcel(resp.Chapter),
			a.TotalQuestions,
			a.Attempted,
			a.Correct,
			a.Wrong,
			a.Unanswered(),
			a.Status(),
			a.StartedAt.Format(exportTimeLayout),
			formatCompletedAt(a),
		}
		if err := sw.SetRow(fmt.Sprintf("A%d", rowNum), row); err != nil {
			log.Printf("[TeacherHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[TeacherHandler] Ошибка при Flush: %v", err)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[TeacherHandler] Ошибка записи Excel в response: %v", err)
	}
}

func attemptExportRow(a *entity.QuizAttempt) []string {
	resp := dto.NewAttemptResponse(a)
	return []string{
		strconv.FormatUint(uint64(a.ID), 10),
		sanitizeForExcel(resp.Student),
		sanitizeForExcel(resp.Subject),
		sanitizeForExcel(resp.Chapter),
		strconv.Itoa(a.TotalQuestions),
		strconv.Itoa(a.Attempted),
		strconv.Itoa(a.Correct),
		strconv.Itoa(a.Wrong),
		strconv.Itoa(a.Unanswered()),
		a.Status(),
		a.StartedAt.Format(exportTimeLayout),
		formatCompletedAt(a),
	}
}

func formatCompletedAt(a *entity.QuizAttempt) string {
	if a.CompletedAt == nil {
		return ""
	}
	return a.CompletedAt.Format(exportTimeLayout)
}

// parseAttemptFilter читает фильтры subject_id, chapter_id, status из query
func parseAttemptFilter(c *gin.Context) (repository.AttemptFilter, error) {
	var filter repository.AttemptFilter

	for key, dst := range map[string]*uint{"subject_id": &filter.SubjectID, "chapter_id": &filter.ChapterID} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid %s", apperrors.ErrValidation, key)
		}
		*dst = uint(id)
	}

	switch status := c.Query("status"); status {
	case "", entity.AttemptStatusInProgress, entity.AttemptStatusCompleted:
		filter.Status = status
	default:
		return filter, fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, status)
	}
	return filter, nil
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
