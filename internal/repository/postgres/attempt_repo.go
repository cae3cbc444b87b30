package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Create создает новую попытку
func (r *AttemptRepo) Create(ctx context.Context, attempt *entity.QuizAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

// GetOpenForStudent возвращает попытку, если она принадлежит студенту, относится к главе и не завершена
func (r *AttemptRepo) GetOpenForStudent(ctx context.Context, attemptID, studentID, chapterID uint) (*entity.QuizAttempt, error) {
	var attempt entity.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ? AND chapter_id = ? AND completed_at IS NULL", attemptID, studentID, chapterID).
		First(&attempt).Error
	if err != nil {
		return nil, mapFindError(err)
	}
	return &attempt, nil
}

// GetForStudent возвращает попытку студента вместе с предметом и главой
func (r *AttemptRepo) GetForStudent(ctx context.Context, attemptID, studentID uint) (*entity.QuizAttempt, error) {
	var attempt entity.QuizAttempt
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Chapter").
		Where("id = ? AND student_id = ?", attemptID, studentID).
		First(&attempt).Error
	if err != nil {
		return nil, mapFindError(err)
	}
	return &attempt, nil
}

// SaveScore записывает итоговые счетчики и время завершения.
// Повторное завершение перезаписывает счетчики теми же значениями.
func (r *AttemptRepo) SaveScore(ctx context.Context, attemptID uint, score entity.AttemptScore, completedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&entity.QuizAttempt{}).
		Where("id = ?", attemptID).
		Updates(map[string]interface{}{
			"attempted":    score.Attempted,
			"correct":      score.Correct,
			"wrong":        score.Wrong,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// List возвращает страницу попыток по фильтру и общее количество
func (r *AttemptRepo) List(ctx context.Context, filter repository.AttemptFilter, limit, offset int) ([]entity.QuizAttempt, int64, error) {
	var attempts []entity.QuizAttempt
	var total int64

	// Используем транзакцию для согласованности чтения данных и общего количества
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyAttemptFilter(tx.Model(&entity.QuizAttempt{}), filter).Count(&total).Error; err != nil {
			return err
		}
		return applyAttemptFilter(tx, filter).
			Preload("Student").
			Preload("Subject").
			Preload("Chapter").
			Order("started_at DESC, id DESC").
			Limit(limit).
			Offset(offset).
			Find(&attempts).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

// ListAll возвращает все попытки по фильтру (для экспорта)
func (r *AttemptRepo) ListAll(ctx context.Context, filter repository.AttemptFilter) ([]entity.QuizAttempt, error) {
	var attempts []entity.QuizAttempt
	err := applyAttemptFilter(r.db.WithContext(ctx), filter).
		Preload("Student").
		Preload("Subject").
		Preload("Chapter").
		Order("started_at DESC, id DESC").
		Find(&attempts).Error
	return attempts, err
}

func applyAttemptFilter(db *gorm.DB, filter repository.AttemptFilter) *gorm.DB {
	if filter.SubjectID != 0 {
		db = db.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.ChapterID != 0 {
		db = db.Where("chapter_id = ?", filter.ChapterID)
	}
	if filter.StudentID != 0 {
		db = db.Where("student_id = ?", filter.StudentID)
	}
	switch filter.Status {
	case entity.AttemptStatusInProgress:
		db = db.Where("completed_at IS NULL")
	case entity.AttemptStatusCompleted:
		db = db.Where("completed_at IS NOT NULL")
	}
	return db
}
