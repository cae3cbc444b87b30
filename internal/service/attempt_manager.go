package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
)

// AttemptManager находит или создает открытую попытку студента по главе.
// Указатель на попытку хранится в сессии студента отдельно для каждой главы.
type AttemptManager struct {
	attemptRepo  repository.AttemptRepository
	questionRepo repository.QuestionRepository
	sessionRepo  repository.AttemptSessionRepository
}

// NewAttemptManager создает новый менеджер попыток
func NewAttemptManager(
	attemptRepo repository.AttemptRepository,
	questionRepo repository.QuestionRepository,
	sessionRepo repository.AttemptSessionRepository,
) *AttemptManager {
	return &AttemptManager{
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		sessionRepo:  sessionRepo,
	}
}

// ResolveOrCreate возвращает попытку из сессии, если она принадлежит студенту, относится к главе
// и не завершена. Иначе создает новую попытку со снимком количества вопросов и запоминает ее в сессии.
func (m *AttemptManager) ResolveOrCreate(ctx context.Context, studentID, subjectID, chapterID uint) (*entity.QuizAttempt, error) {
	attemptID, ok, err := m.sessionRepo.GetAttemptID(ctx, studentID, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to read attempt session: %w", err)
	}

	if ok {
		attempt, err := m.attemptRepo.GetOpenForStudent(ctx, attemptID, studentID, chapterID)
		if err == nil {
			return attempt, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load attempt #%d: %w", attemptID, err)
		}
		// Попытка завершена, удалена или чужая: начинаем новую
	}

	total, err := m.questionRepo.CountByChapter(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions in chapter #%d: %w", chapterID, err)
	}

	attempt := &entity.QuizAttempt{
		StudentID:      studentID,
		SubjectID:      subjectID,
		ChapterID:      chapterID,
		TotalQuestions: int(total),
	}
	if err := m.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	if err := m.sessionRepo.SetAttemptID(ctx, studentID, chapterID, attempt.ID); err != nil {
		return nil, fmt.Errorf("failed to store attempt #%d in session: %w", attempt.ID, err)
	}

	log.Printf("[AttemptManager] Создана попытка #%d: студент #%d, глава #%d, вопросов %d",
		attempt.ID, studentID, chapterID, attempt.TotalQuestions)
	return attempt, nil
}
