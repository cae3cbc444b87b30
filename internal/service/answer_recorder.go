package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
)

// AnswerRecorder сохраняет выбранный вариант ответа на вопрос в рамках попытки
type AnswerRecorder struct {
	answerRepo repository.AnswerRepository
}

// NewAnswerRecorder создает новый регистратор ответов
func NewAnswerRecorder(answerRepo repository.AnswerRepository) *AnswerRecorder {
	return &AnswerRecorder{answerRepo: answerRepo}
}

// Record сохраняет ответ. Пустое значение ничего не меняет. Вариант должен принадлежать вопросу,
// иначе apperrors.ErrNotFound. Правильность фиксируется на момент выбора.
// Возвращает nil, если ответ не записывался.
func (r *AnswerRecorder) Record(ctx context.Context, attempt *entity.QuizAttempt, question *entity.Question, rawOptionID string) (*entity.StudentAnswer, error) {
	rawOptionID = strings.TrimSpace(rawOptionID)
	if rawOptionID == "" {
		return nil, nil
	}

	optionID, err := strconv.ParseUint(rawOptionID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: option %q", apperrors.ErrNotFound, rawOptionID)
	}

	option := question.OptionByID(uint(optionID))
	if option == nil {
		return nil, fmt.Errorf("%w: option #%d for question #%d", apperrors.ErrNotFound, optionID, question.ID)
	}

	selected := option.ID
	answer := &entity.StudentAnswer{
		AttemptID:        attempt.ID,
		QuestionID:       question.ID,
		SelectedOptionID: &selected,
		IsCorrect:        option.IsCorrect,
	}
	if err := r.answerRepo.Upsert(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to save answer for question #%d: %w", question.ID, err)
	}
	return answer, nil
}

// Selected возвращает id сохраненного варианта для вопроса или nil
func (r *AnswerRecorder) Selected(ctx context.Context, attemptID, questionID uint) (*uint, error) {
	answer, err := r.answerRepo.GetForQuestion(ctx, attemptID, questionID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return answer.SelectedOptionID, nil
}
