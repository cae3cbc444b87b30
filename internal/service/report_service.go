package service

import (
	"context"
	"log"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
)

const (
	defaultReportPageSize = 20
	maxReportPageSize     = 100
)

// ReportService предоставляет преподавателю списки попыток студентов
type ReportService struct {
	attemptRepo repository.AttemptRepository
}

// NewReportService создает новый сервис отчетов
func NewReportService(attemptRepo repository.AttemptRepository) *ReportService {
	return &ReportService{attemptRepo: attemptRepo}
}

// ListAttempts возвращает страницу попыток по фильтру и общее количество
func (s *ReportService) ListAttempts(ctx context.Context, filter repository.AttemptFilter, page, pageSize int) ([]entity.QuizAttempt, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	attempts, total, err := s.attemptRepo.List(ctx, filter, pageSize, offset)
	if err != nil {
		log.Printf("[ReportService] Ошибка при получении попыток (page %d, size %d): %v", page, pageSize, err)
		return nil, 0, err
	}
	return attempts, total, nil
}

// NormalizePage приводит параметры пагинации к допустимым значениям
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultReportPageSize
	} else if pageSize > maxReportPageSize {
		pageSize = maxReportPageSize
	}
	return page, pageSize
}

// ExportAttempts возвращает ВСЕ попытки по фильтру без пагинации
func (s *ReportService) ExportAttempts(ctx context.Context, filter repository.AttemptFilter) ([]entity.QuizAttempt, error) {
	return s.attemptRepo.ListAll(ctx, filter)
}
