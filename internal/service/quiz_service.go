package service

import (
	"context"
	"fmt"
	"log"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
)

// QuestionPage - данные страницы вопроса
type QuestionPage struct {
	Chapter *entity.Chapter
	Attempt *entity.QuizAttempt
	*QuestionSlot
	// SelectedOptionID - сохраненный ранее выбор студента, nil если ответа нет
	SelectedOptionID *uint
}

// Submission - поля формы вопроса: option и флаги previous / next / submit
type Submission struct {
	OptionID string
	Previous bool
	Next     bool
	Submit   bool
}

// NextStep - что делать после обработки формы вопроса
type NextStep int

const (
	// StepRender - показать текущий вопрос еще раз
	StepRender NextStep = iota
	// StepQuestion - перейти к вопросу Outcome.Position
	StepQuestion
	// StepResult - перейти к результату попытки Outcome.AttemptID
	StepResult
)

// Outcome - результат обработки формы вопроса
type Outcome struct {
	Step      NextStep
	Position  int
	AttemptID uint
	Page      *QuestionPage
}

// Review - разбор попытки
type Review struct {
	Attempt *entity.QuizAttempt
	Items   []ReviewItem
}

// QuizService ведет студента по главе: старт, вопросы, ответы, отправка и разбор
type QuizService struct {
	chapterRepo repository.ChapterRepository
	attemptRepo repository.AttemptRepository
	attempts    *AttemptManager
	navigator   *QuestionNavigator
	recorder    *AnswerRecorder
	scorer      *Scorer
	presenter   *ResultPresenter
}

// NewQuizService создает новый сервис прохождения тестов
func NewQuizService(
	chapterRepo repository.ChapterRepository,
	attemptRepo repository.AttemptRepository,
	attempts *AttemptManager,
	navigator *QuestionNavigator,
	recorder *AnswerRecorder,
	scorer *Scorer,
	presenter *ResultPresenter,
) *QuizService {
	return &QuizService{
		chapterRepo: chapterRepo,
		attemptRepo: attemptRepo,
		attempts:    attempts,
		navigator:   navigator,
		recorder:    recorder,
		scorer:      scorer,
		presenter:   presenter,
	}
}

// StartQuiz проверяет, что глава принадлежит предмету, и возвращает открытую попытку студента
func (s *QuizService) StartQuiz(ctx context.Context, studentID, subjectID, chapterID uint) (*entity.QuizAttempt, error) {
	if _, err := s.chapterRepo.GetInSubject(ctx, subjectID, chapterID); err != nil {
		return nil, err
	}
	return s.attempts.ResolveOrCreate(ctx, studentID, subjectID, chapterID)
}

// OpenQuestion возвращает страницу вопроса. Для пустой главы попытка не создается.
func (s *QuizService) OpenQuestion(ctx context.Context, studentID, subjectID, chapterID uint, position int) (*QuestionPage, error) {
	chapter, err := s.chapterRepo.GetInSubject(ctx, subjectID, chapterID)
	if err != nil {
		return nil, err
	}

	slot, err := s.navigator.GetQuestion(ctx, chapterID, position)
	if err != nil {
		return nil, err
	}
	page := &QuestionPage{Chapter: chapter, QuestionSlot: slot}
	if slot.IsEmpty() {
		return page, nil
	}

	page.Attempt, err = s.attempts.ResolveOrCreate(ctx, studentID, subjectID, chapterID)
	if err != nil {
		return nil, err
	}

	page.SelectedOptionID, err = s.recorder.Selected(ctx, page.Attempt.ID, slot.Question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved answer: %w", err)
	}
	return page, nil
}

// AnswerQuestion сохраняет выбор (если он есть) и выполняет навигацию.
// Порядок: previous (не на первом вопросе), next (не на последнем), submit.
// Переход за границы ничего не делает, вопрос показывается снова.
func (s *QuizService) AnswerQuestion(ctx context.Context, studentID, subjectID, chapterID uint, position int, sub Submission) (*Outcome, error) {
	page, err := s.OpenQuestion(ctx, studentID, subjectID, chapterID, position)
	if err != nil {
		return nil, err
	}
	if page.IsEmpty() {
		return &Outcome{Step: StepRender, Page: page}, nil
	}

	answer, err := s.recorder.Record(ctx, page.Attempt, page.Question, sub.OptionID)
	if err != nil {
		return nil, err
	}
	if answer != nil {
		page.SelectedOptionID = answer.SelectedOptionID
	}

	switch {
	case sub.Previous && page.HasPrevious():
		return &Outcome{Step: StepQuestion, Position: position - 1, Page: page}, nil
	case sub.Next && page.HasNext():
		return &Outcome{Step: StepQuestion, Position: position + 1, Page: page}, nil
	case sub.Submit:
		if err := s.scorer.Finalize(ctx, page.Attempt); err != nil {
			log.Printf("[QuizService] Ошибка завершения попытки #%d: %v", page.Attempt.ID, err)
			return nil, err
		}
		return &Outcome{Step: StepResult, AttemptID: page.Attempt.ID, Page: page}, nil
	}

	return &Outcome{Step: StepRender, Position: position, Page: page}, nil
}

// GetReview возвращает разбор попытки, только если она принадлежит студенту
func (s *QuizService) GetReview(ctx context.Context, studentID, attemptID uint) (*Review, error) {
	attempt, err := s.attemptRepo.GetForStudent(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}

	items, err := s.presenter.BuildReview(ctx, attempt)
	if err != nil {
		return nil, err
	}
	return &Review{Attempt: attempt, Items: items}, nil
}
