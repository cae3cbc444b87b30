package repository

import (
	"context"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
)

// SubjectRepository определяет методы для работы с предметами
type SubjectRepository interface {
	Create(ctx context.Context, subject *entity.Subject) error
	GetByID(ctx context.Context, id uint) (*entity.Subject, error)
	GetByName(ctx context.Context, name string) (*entity.Subject, error)
	List(ctx context.Context) ([]entity.Subject, error)
}

// ChapterRepository определяет методы для работы с главами
type ChapterRepository interface {
	Create(ctx context.Context, chapter *entity.Chapter) error
	// GetInSubject возвращает главу, только если она принадлежит предмету
	GetInSubject(ctx context.Context, subjectID, chapterID uint) (*entity.Chapter, error)
	GetByName(ctx context.Context, subjectID uint, name string) (*entity.Chapter, error)
	ListBySubject(ctx context.Context, subjectID uint) ([]entity.Chapter, error)
}
