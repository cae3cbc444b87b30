package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
)

// ============================================================================
// Моки репозиториев для тестирования сервисов
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, userID uint, role entity.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

// MockSubjectRepository реализует repository.SubjectRepository
type MockSubjectRepository struct {
	mock.Mock
}

func (m *MockSubjectRepository) Create(ctx context.Context, subject *entity.Subject) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

func (m *MockSubjectRepository) GetByID(ctx context.Context, id uint) (*entity.Subject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subject), args.Error(1)
}

func (m *MockSubjectRepository) GetByName(ctx context.Context, name string) (*entity.Subject, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subject), args.Error(1)
}

func (m *MockSubjectRepository) List(ctx context.Context) ([]entity.Subject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Subject), args.Error(1)
}

// MockChapterRepository реализует repository.ChapterRepository
type MockChapterRepository struct {
	mock.Mock
}

func (m *MockChapterRepository) Create(ctx context.Context, chapter *entity.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}

func (m *MockChapterRepository) GetInSubject(ctx context.Context, subjectID, chapterID uint) (*entity.Chapter, error) {
	args := m.Called(ctx, subjectID, chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Chapter), args.Error(1)
}

func (m *MockChapterRepository) GetByName(ctx context.Context, subjectID uint, name string) (*entity.Chapter, error) {
	args := m.Called(ctx, subjectID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Chapter), args.Error(1)
}

func (m *MockChapterRepository) ListBySubject(ctx context.Context, subjectID uint) ([]entity.Chapter, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Chapter), args.Error(1)
}

// MockQuestionRepository реализует repository.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) CreateWithOptions(ctx context.Context, question *entity.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) CountByChapter(ctx context.Context, chapterID uint) (int64, error) {
	args := m.Called(ctx, chapterID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) GetByPosition(ctx context.Context, chapterID uint, position int) (*entity.Question, error) {
	args := m.Called(ctx, chapterID, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

// MockAttemptRepository реализует repository.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *entity.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetOpenForStudent(ctx context.Context, attemptID, studentID, chapterID uint) (*entity.QuizAttempt, error) {
	args := m.Called(ctx, attemptID, studentID, chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetForStudent(ctx context.Context, attemptID, studentID uint) (*entity.QuizAttempt, error) {
	args := m.Called(ctx, attemptID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) SaveScore(ctx context.Context, attemptID uint, score entity.AttemptScore, completedAt time.Time) error {
	args := m.Called(ctx, attemptID, score, completedAt)
	return args.Error(0)
}

func (m *MockAttemptRepository) List(ctx context.Context, filter repository.AttemptFilter, limit, offset int) ([]entity.QuizAttempt, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.QuizAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) ListAll(ctx context.Context, filter repository.AttemptFilter) ([]entity.QuizAttempt, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.QuizAttempt), args.Error(1)
}

// MockAnswerRepository реализует repository.AnswerRepository
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) Upsert(ctx context.Context, answer *entity.StudentAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) GetForQuestion(ctx context.Context, attemptID, questionID uint) (*entity.StudentAnswer, error) {
	args := m.Called(ctx, attemptID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StudentAnswer), args.Error(1)
}

func (m *MockAnswerRepository) CountForAttempt(ctx context.Context, attemptID uint) (int64, int64, error) {
	args := m.Called(ctx, attemptID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockAnswerRepository) ListForReview(ctx context.Context, attemptID uint) ([]entity.StudentAnswer, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.StudentAnswer), args.Error(1)
}

// MockAttemptSessionRepository реализует repository.AttemptSessionRepository
type MockAttemptSessionRepository struct {
	mock.Mock
}

func (m *MockAttemptSessionRepository) GetAttemptID(ctx context.Context, studentID, chapterID uint) (uint, bool, error) {
	args := m.Called(ctx, studentID, chapterID)
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func (m *MockAttemptSessionRepository) SetAttemptID(ctx context.Context, studentID, chapterID, attemptID uint) error {
	args := m.Called(ctx, studentID, chapterID, attemptID)
	return args.Error(0)
}

func (m *MockAttemptSessionRepository) Clear(ctx context.Context, studentID, chapterID uint) error {
	args := m.Called(ctx, studentID, chapterID)
	return args.Error(0)
}

// MockEmailService реализует EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(ctx context.Context, toEmail, username string) error {
	args := m.Called(ctx, toEmail, username)
	return args.Error(0)
}

// helper для создания pointer
func uintPtr(v uint) *uint { return &v }

// newTestQuestion создает вопрос с тремя вариантами, правильный - второй
func newTestQuestion(id uint) *entity.Question {
	base := id * 10
	return &entity.Question{
		ID:        id,
		ChapterID: 3,
		Text:      "Question text",
		Options: []entity.Option{
			{ID: base + 1, QuestionID: id, Text: "A"},
			{ID: base + 2, QuestionID: id, Text: "B", IsCorrect: true},
			{ID: base + 3, QuestionID: id, Text: "C"},
		},
	}
}
