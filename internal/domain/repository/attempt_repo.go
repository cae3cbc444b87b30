package repository

import (
	"context"
	"time"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
)

// AttemptFilter - фильтры для списка попыток преподавателя. Нулевые значения не фильтруют.
type AttemptFilter struct {
	SubjectID uint
	ChapterID uint
	StudentID uint
	// Status - entity.AttemptStatusInProgress, entity.AttemptStatusCompleted или пусто
	Status string
}

// AttemptRepository определяет методы для работы с попытками
type AttemptRepository interface {
	Create(ctx context.Context, attempt *entity.QuizAttempt) error
	// GetOpenForStudent возвращает незавершенную попытку студента по главе
	GetOpenForStudent(ctx context.Context, attemptID, studentID, chapterID uint) (*entity.QuizAttempt, error)
	// GetForStudent возвращает попытку, только если она принадлежит студенту
	GetForStudent(ctx context.Context, attemptID, studentID uint) (*entity.QuizAttempt, error)
	// SaveScore записывает счетчики и completed_at
	SaveScore(ctx context.Context, attemptID uint, score entity.AttemptScore, completedAt time.Time) error
	List(ctx context.Context, filter AttemptFilter, limit, offset int) ([]entity.QuizAttempt, int64, error)
	ListAll(ctx context.Context, filter AttemptFilter) ([]entity.QuizAttempt, error)
}

// AnswerRepository определяет методы для работы с ответами студентов
type AnswerRepository interface {
	// Upsert создает или обновляет ответ на пару (attempt, question)
	Upsert(ctx context.Context, answer *entity.StudentAnswer) error
	GetForQuestion(ctx context.Context, attemptID, questionID uint) (*entity.StudentAnswer, error)
	// CountForAttempt возвращает число ответов с выбранным вариантом и число правильных
	CountForAttempt(ctx context.Context, attemptID uint) (attempted int64, correct int64, err error)
	// ListForReview возвращает ответы с вопросами, их вариантами и выбранным вариантом
	ListForReview(ctx context.Context, attemptID uint) ([]entity.StudentAnswer, error)
}
