package repository

import (
	"context"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами главы.
// Порядок вопросов и вариантов - по возрастанию id.
type QuestionRepository interface {
	// CreateWithOptions создает вопрос вместе с вариантами в одной транзакции
	CreateWithOptions(ctx context.Context, question *entity.Question) error
	CountByChapter(ctx context.Context, chapterID uint) (int64, error)
	// GetByPosition возвращает вопрос по 1-based позиции в главе вместе с вариантами
	GetByPosition(ctx context.Context, chapterID uint, position int) (*entity.Question, error)
}
