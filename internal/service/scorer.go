package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
)

// Scorer подводит итог попытки при отправке
type Scorer struct {
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	sessionRepo repository.AttemptSessionRepository
	now         func() time.Time
}

// NewScorer создает новый сервис подсчета результатов
func NewScorer(
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	sessionRepo repository.AttemptSessionRepository,
) *Scorer {
	return &Scorer{
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// Finalize считает attempted (ответы с выбранным вариантом), correct (is_correct = true)
// и wrong = attempted - correct (не меньше 0), выставляет completed_at и очищает указатель в сессии.
func (s *Scorer) Finalize(ctx context.Context, attempt *entity.QuizAttempt) error {
	attempted, correct, err := s.answerRepo.CountForAttempt(ctx, attempt.ID)
	if err != nil {
		return fmt.Errorf("failed to count answers for attempt #%d: %w", attempt.ID, err)
	}

	score := entity.NewAttemptScore(attempted, correct)
	completedAt := s.now()
	if err := s.attemptRepo.SaveScore(ctx, attempt.ID, score, completedAt); err != nil {
		return fmt.Errorf("failed to save score for attempt #%d: %w", attempt.ID, err)
	}

	attempt.Attempted = score.Attempted
	attempt.Correct = score.Correct
	attempt.Wrong = score.Wrong
	attempt.CompletedAt = &completedAt

	if err := s.sessionRepo.Clear(ctx, attempt.StudentID, attempt.ChapterID); err != nil {
		// Попытка уже завершена: следующий старт все равно создаст новую
		log.Printf("[Scorer] Не удалось очистить сессию попытки #%d: %v", attempt.ID, err)
	}

	log.Printf("[Scorer] Попытка #%d завершена: attempted=%d correct=%d wrong=%d total=%d",
		attempt.ID, score.Attempted, score.Correct, score.Wrong, attempt.TotalQuestions)
	return nil
}
