package service

import (
	"context"
	"fmt"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
)

// ReviewItem - строка разбора: вопрос, выбранный вариант, снимок правильности и правильный вариант
type ReviewItem struct {
	Question       *entity.Question
	SelectedOption *entity.Option
	IsCorrect      bool
	CorrectOption  *entity.Option
}

// ResultPresenter собирает разбор завершенной попытки
type ResultPresenter struct {
	answerRepo repository.AnswerRepository
}

// NewResultPresenter создает новый сервис разбора результатов
func NewResultPresenter(answerRepo repository.AnswerRepository) *ResultPresenter {
	return &ResultPresenter{answerRepo: answerRepo}
}

// BuildReview возвращает разбор по сохраненным ответам попытки.
// Вопросы без ответа в разбор не попадают.
func (p *ResultPresenter) BuildReview(ctx context.Context, attempt *entity.QuizAttempt) ([]ReviewItem, error) {
	answers, err := p.answerRepo.ListForReview(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for attempt #%d: %w", attempt.ID, err)
	}

	items := make([]ReviewItem, 0, len(answers))
	for i := range answers {
		answer := &answers[i]
		if answer.Question == nil {
			continue
		}
		items = append(items, ReviewItem{
			Question:       answer.Question,
			SelectedOption: answer.SelectedOption,
			IsCorrect:      answer.IsCorrect,
			CorrectOption:  answer.Question.CorrectOption(),
		})
	}
	return items, nil
}
