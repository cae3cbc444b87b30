package service

import (
	"context"
	"fmt"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
)

// QuestionSlot - вопрос главы на 1-based позиции и общее количество вопросов
type QuestionSlot struct {
	Question *entity.Question
	Position int
	Total    int
}

// IsEmpty сообщает, что в главе нет вопросов
func (s *QuestionSlot) IsEmpty() bool {
	return s.Total == 0
}

// HasPrevious сообщает, что до текущего вопроса есть еще вопросы
func (s *QuestionSlot) HasPrevious() bool {
	return s.Position > 1
}

// HasNext сообщает, что после текущего вопроса есть еще вопросы
func (s *QuestionSlot) HasNext() bool {
	return s.Position < s.Total
}

// QuestionNavigator выдает вопросы главы по 1-based номеру в порядке id
type QuestionNavigator struct {
	questionRepo repository.QuestionRepository
}

// NewQuestionNavigator создает новый навигатор по вопросам
func NewQuestionNavigator(questionRepo repository.QuestionRepository) *QuestionNavigator {
	return &QuestionNavigator{questionRepo: questionRepo}
}

// GetQuestion возвращает вопрос с номером position.
// Пустая глава дает слот с Total == 0 без ошибки, номер вне [1, total] - apperrors.ErrNotFound.
func (n *QuestionNavigator) GetQuestion(ctx context.Context, chapterID uint, position int) (*QuestionSlot, error) {
	total, err := n.questionRepo.CountByChapter(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions in chapter #%d: %w", chapterID, err)
	}
	if total == 0 {
		return &QuestionSlot{Position: position}, nil
	}
	if position < 1 || int64(position) > total {
		return nil, fmt.Errorf("%w: question %d of %d", apperrors.ErrNotFound, position, total)
	}

	question, err := n.questionRepo.GetByPosition(ctx, chapterID, position)
	if err != nil {
		return nil, err
	}

	return &QuestionSlot{
		Question: question,
		Position: position,
		Total:    int(total),
	}, nil
}
