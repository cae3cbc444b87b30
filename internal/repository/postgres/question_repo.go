package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// CreateWithOptions создает вопрос и его варианты в одной транзакции
func (r *QuestionRepo) CreateWithOptions(ctx context.Context, question *entity.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(question).Error
	})
}

// CountByChapter возвращает количество вопросов в главе
func (r *QuestionRepo) CountByChapter(ctx context.Context, chapterID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Question{}).
		Where("chapter_id = ?", chapterID).
		Count(&count).Error
	return count, err
}

// GetByPosition возвращает вопрос по 1-based позиции (порядок по id) с вариантами по id
func (r *QuestionRepo) GetByPosition(ctx context.Context, chapterID uint, position int) (*entity.Question, error) {
	if position < 1 {
		return nil, apperrors.ErrNotFound
	}

	var question entity.Question
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		Where("chapter_id = ?", chapterID).
		Order("id").
		Offset(position - 1).
		First(&question).Error
	if err != nil {
		return nil, mapFindError(err)
	}
	return &question, nil
}
