package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
)

// ============================================================================
// In-memory хранилища для сквозных сценариев QuizService
// ============================================================================

type memStore struct {
	mu        sync.Mutex
	chapters  map[uint]*entity.Chapter
	questions map[uint][]*entity.Question // по главе, в порядке id
	attempts  map[uint]*entity.QuizAttempt
	answers   map[[2]uint]*entity.StudentAnswer
	sessions  map[[2]uint]uint
	nextID    uint
}

func newMemStore() *memStore {
	return &memStore{
		chapters:  map[uint]*entity.Chapter{},
		questions: map[uint][]*entity.Question{},
		attempts:  map[uint]*entity.QuizAttempt{},
		answers:   map[[2]uint]*entity.StudentAnswer{},
		sessions:  map[[2]uint]uint{},
		nextID:    100,
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

type memChapterRepo struct{ *memStore }

func (r memChapterRepo) Create(ctx context.Context, chapter *entity.Chapter) error {
	chapter.ID = r.id()
	r.chapters[chapter.ID] = chapter
	return nil
}

func (r memChapterRepo) GetInSubject(ctx context.Context, subjectID, chapterID uint) (*entity.Chapter, error) {
	chapter, ok := r.chapters[chapterID]
	if !ok || chapter.SubjectID != subjectID {
		return nil, apperrors.ErrNotFound
	}
	return chapter, nil
}

func (r memChapterRepo) GetByName(ctx context.Context, subjectID uint, name string) (*entity.Chapter, error) {
	return nil, apperrors.ErrNotFound
}

func (r memChapterRepo) ListBySubject(ctx context.Context, subjectID uint) ([]entity.Chapter, error) {
	return nil, nil
}

type memQuestionRepo struct{ *memStore }

func (r memQuestionRepo) CreateWithOptions(ctx context.Context, question *entity.Question) error {
	question.ID = r.id()
	for i := range question.Options {
		question.Options[i].ID = r.id()
		question.Options[i].QuestionID = question.ID
	}
	r.questions[question.ChapterID] = append(r.questions[question.ChapterID], question)
	return nil
}

func (r memQuestionRepo) CountByChapter(ctx context.Context, chapterID uint) (int64, error) {
	return int64(len(r.questions[chapterID])), nil
}

func (r memQuestionRepo) GetByPosition(ctx context.Context, chapterID uint, position int) (*entity.Question, error) {
	qs := r.questions[chapterID]
	if position < 1 || position > len(qs) {
		return nil, apperrors.ErrNotFound
	}
	return qs[position-1], nil
}

type memAttemptRepo struct{ *memStore }

func (r memAttemptRepo) Create(ctx context.Context, attempt *entity.QuizAttempt) error {
	attempt.ID = r.id()
	attempt.StartedAt = time.Now()
	stored := *attempt
	r.attempts[attempt.ID] = &stored
	return nil
}

func (r memAttemptRepo) GetOpenForStudent(ctx context.Context, attemptID, studentID, chapterID uint) (*entity.QuizAttempt, error) {
	a, ok := r.attempts[attemptID]
	if !ok || a.StudentID != studentID || a.ChapterID != chapterID || a.CompletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r memAttemptRepo) GetForStudent(ctx context.Context, attemptID, studentID uint) (*entity.QuizAttempt, error) {
	a, ok := r.attempts[attemptID]
	if !ok || a.StudentID != studentID {
		return nil, apperrors.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r memAttemptRepo) SaveScore(ctx context.Context, attemptID uint, score entity.AttemptScore, completedAt time.Time) error {
	a, ok := r.attempts[attemptID]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.Attempted, a.Correct, a.Wrong = score.Attempted, score.Correct, score.Wrong
	a.CompletedAt = &completedAt
	return nil
}

func (r memAttemptRepo) List(ctx context.Context, filter repository.AttemptFilter, limit, offset int) ([]entity.QuizAttempt, int64, error) {
	return nil, 0, nil
}

func (r memAttemptRepo) ListAll(ctx context.Context, filter repository.AttemptFilter) ([]entity.QuizAttempt, error) {
	return nil, nil
}

type memAnswerRepo struct{ *memStore }

func (r memAnswerRepo) Upsert(ctx context.Context, answer *entity.StudentAnswer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]uint{answer.AttemptID, answer.QuestionID}
	if existing, ok := r.answers[key]; ok {
		existing.SelectedOptionID = answer.SelectedOptionID
		existing.IsCorrect = answer.IsCorrect
		answer.ID = existing.ID
		return nil
	}
	answer.ID = r.id()
	stored := *answer
	r.answers[key] = &stored
	return nil
}

func (r memAnswerRepo) GetForQuestion(ctx context.Context, attemptID, questionID uint) (*entity.StudentAnswer, error) {
	a, ok := r.answers[[2]uint{attemptID, questionID}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return a, nil
}

func (r memAnswerRepo) CountForAttempt(ctx context.Context, attemptID uint) (int64, int64, error) {
	var attempted, correct int64
	for key, a := range r.answers {
		if key[0] != attemptID {
			continue
		}
		if a.SelectedOptionID != nil {
			attempted++
		}
		if a.IsCorrect {
			correct++
		}
	}
	return attempted, correct, nil
}

func (r memAnswerRepo) ListForReview(ctx context.Context, attemptID uint) ([]entity.StudentAnswer, error) {
	var out []entity.StudentAnswer
	for key, a := range r.answers {
		if key[0] != attemptID {
			continue
		}
		copied := *a
		for _, qs := range r.questions {
			for _, q := range qs {
				if q.ID == a.QuestionID {
					copied.Question = q
					if a.SelectedOptionID != nil {
						copied.SelectedOption = q.OptionByID(*a.SelectedOptionID)
					}
				}
			}
		}
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memAnswerRepo) count(attemptID uint) int {
	n := 0
	for key := range r.answers {
		if key[0] == attemptID {
			n++
		}
	}
	return n
}

type memSessionRepo struct{ *memStore }

func (r memSessionRepo) GetAttemptID(ctx context.Context, studentID, chapterID uint) (uint, bool, error) {
	id, ok := r.sessions[[2]uint{studentID, chapterID}]
	return id, ok, nil
}

func (r memSessionRepo) SetAttemptID(ctx context.Context, studentID, chapterID, attemptID uint) error {
	r.sessions[[2]uint{studentID, chapterID}] = attemptID
	return nil
}

func (r memSessionRepo) Clear(ctx context.Context, studentID, chapterID uint) error {
	delete(r.sessions, [2]uint{studentID, chapterID})
	return nil
}

const (
	testStudentID = uint(1)
	testSubjectID = uint(2)
)

type quizFixture struct {
	store   *memStore
	service *QuizService
	chapter *entity.Chapter
	// questions главы в порядке id
	questions []*entity.Question
}

func newQuizFixture(t *testing.T, questionCount int) *quizFixture {
	t.Helper()
	store := newMemStore()
	ctx := context.Background()

	chapterRepo := memChapterRepo{store}
	questionRepo := memQuestionRepo{store}
	attemptRepo := memAttemptRepo{store}
	answerRepo := memAnswerRepo{store}
	sessionRepo := memSessionRepo{store}

	chapter := &entity.Chapter{SubjectID: testSubjectID, Name: "Fractions"}
	require.NoError(t, chapterRepo.Create(ctx, chapter))

	f := &quizFixture{store: store, chapter: chapter}
	for i := 0; i < questionCount; i++ {
		q := &entity.Question{
			ChapterID: chapter.ID,
			Text:      "Q",
			Options: []entity.Option{
				{Text: "right", IsCorrect: true},
				{Text: "wrong"},
			},
		}
		require.NoError(t, questionRepo.CreateWithOptions(ctx, q))
		f.questions = append(f.questions, q)
	}

	f.service = NewQuizService(
		chapterRepo,
		attemptRepo,
		NewAttemptManager(attemptRepo, questionRepo, sessionRepo),
		NewQuestionNavigator(questionRepo),
		NewAnswerRecorder(answerRepo),
		NewScorer(attemptRepo, answerRepo, sessionRepo),
		NewResultPresenter(answerRepo),
	)
	return f
}

func (f *quizFixture) rightOption(i int) string {
	return uintString(f.questions[i].Options[0].ID)
}

func (f *quizFixture) wrongOption(i int) string {
	return uintString(f.questions[i].Options[1].ID)
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

// ============================================================================
// Тесты для QuizService
// ============================================================================

func TestQuizService_ThreeQuestionScenario(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t, 3)

	attempt, err := f.service.StartQuiz(ctx, testStudentID, testSubjectID, f.chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, attempt.TotalQuestions)

	// Q1 правильно -> next
	out, err := f.service.AnswerQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 1, Submission{OptionID: f.rightOption(0), Next: true})
	require.NoError(t, err)
	assert.Equal(t, StepQuestion, out.Step)
	assert.Equal(t, 2, out.Position)

	// Q2 неправильно -> next
	out, err = f.service.AnswerQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 2, Submission{OptionID: f.wrongOption(1), Next: true})
	require.NoError(t, err)
	assert.Equal(t, StepQuestion, out.Step)
	assert.Equal(t, 3, out.Position)

	// Q3 пропущен -> submit
	out, err = f.service.AnswerQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 3, Submission{Submit: true})
	require.NoError(t, err)
	require.Equal(t, StepResult, out.Step)
	assert.Equal(t, attempt.ID, out.AttemptID)

	review, err := f.service.GetReview(ctx, testStudentID, out.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, 2, review.Attempt.Attempted)
	assert.Equal(t, 1, review.Attempt.Correct)
	assert.Equal(t, 1, review.Attempt.Wrong)
	assert.Equal(t, 3, review.Attempt.TotalQuestions)
	assert.NotNil(t, review.Attempt.CompletedAt)
	assert.Len(t, review.Items, 2)
}

func TestQuizService_ResumeAndRestart(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t, 2)

	first, err := f.service.StartQuiz(ctx, testStudentID, testSubjectID, f.chapter.ID)
	require.NoError(t, err)

	resumed, err := f.service.StartQuiz(ctx, testStudentID, testSubjectID, f.chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, resumed.ID, "Открытая попытка должна переиспользоваться")

	page, err := f.service.OpenQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, page.Attempt.ID)

	_, err = f.service.AnswerQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 2, Submission{Submit: true})
	require.NoError(t, err)

	next, err := f.service.StartQuiz(ctx, testStudentID, testSubjectID, f.chapter.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, next.ID, "После завершения создается новая попытка")
}

func TestQuizService_ResubmitKeepsSingleAnswer(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t, 2)

	attempt, err := f.service.StartQuiz(ctx, testStudentID, testSubjectID, f.chapter.ID)
	require.NoError(t, err)

	_, err = f.service.AnswerQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 1, Submission{OptionID: f.rightOption(0)})
	require.NoError(t, err)
	out, err := f.service.AnswerQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 1, Submission{OptionID: f.wrongOption(0)})
	require.NoError(t, err)

	assert.Equal(t, StepRender, out.Step)
	assert.Equal(t, 1, memAnswerRepo{f.store}.count(attempt.ID), "Одна запись на (attempt, question)")
	require.NotNil(t, out.Page.SelectedOptionID)
	assert.Equal(t, f.questions[0].Options[1].ID, *out.Page.SelectedOptionID)

	saved := f.store.answers[[2]uint{attempt.ID, f.questions[0].ID}]
	assert.False(t, saved.IsCorrect, "Последний выбор перезаписывает снимок")
}

func TestQuizService_NavigationBoundariesAreNoops(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t, 2)

	out, err := f.service.AnswerQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 1, Submission{Previous: true})
	require.NoError(t, err)
	assert.Equal(t, StepRender, out.Step, "previous на первом вопросе ничего не делает")
	assert.Equal(t, 1, out.Position)

	out, err = f.service.AnswerQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 2, Submission{Next: true})
	require.NoError(t, err)
	assert.Equal(t, StepRender, out.Step, "next на последнем вопросе ничего не делает")

	out, err = f.service.AnswerQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 2, Submission{Previous: true, Submit: true})
	require.NoError(t, err)
	assert.Equal(t, StepQuestion, out.Step, "previous проверяется раньше submit")
	assert.Equal(t, 1, out.Position)
}

func TestQuizService_OutOfRangeAndForeignOption(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t, 2)

	for _, position := range []int{0, -1, 3} {
		_, err := f.service.OpenQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, position)
		assert.ErrorIs(t, err, apperrors.ErrNotFound, "q_no=%d", position)
	}

	_, err := f.service.AnswerQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 1, Submission{OptionID: f.rightOption(1)})
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "Вариант другого вопроса отклоняется")
}

func TestQuizService_EmptyChapter(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t, 0)

	page, err := f.service.OpenQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 5)
	require.NoError(t, err)
	assert.True(t, page.IsEmpty())
	assert.Nil(t, page.Attempt, "Для пустой главы попытка не создается")
	assert.Empty(t, f.store.attempts)

	out, err := f.service.AnswerQuestion(ctx, testStudentID, testSubjectID, f.chapter.ID, 1, Submission{Submit: true})
	require.NoError(t, err)
	assert.Equal(t, StepRender, out.Step)
	assert.True(t, out.Page.IsEmpty())
}

func TestQuizService_ChapterMustBelongToSubject(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t, 1)

	_, err := f.service.StartQuiz(ctx, testStudentID, testSubjectID+1, f.chapter.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.service.OpenQuestion(ctx, testStudentID, testSubjectID+1, f.chapter.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestQuizService_ChaptersUseSeparateAttempts(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t, 1)

	other := &entity.Chapter{SubjectID: testSubjectID, Name: "Decimals"}
	require.NoError(t, memChapterRepo{f.store}.Create(ctx, other))
	require.NoError(t, memQuestionRepo{f.store}.CreateWithOptions(ctx, &entity.Question{
		ChapterID: other.ID,
		Options:   []entity.Option{{Text: "x", IsCorrect: true}, {Text: "y"}},
	}))

	a1, err := f.service.StartQuiz(ctx, testStudentID, testSubjectID, f.chapter.ID)
	require.NoError(t, err)
	a2, err := f.service.StartQuiz(ctx, testStudentID, testSubjectID, other.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a1.ID, a2.ID)

	again, err := f.service.StartQuiz(ctx, testStudentID, testSubjectID, f.chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, a1.ID, again.ID)
}

func TestQuizService_ReviewRestrictedToOwner(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t, 1)

	attempt, err := f.service.StartQuiz(ctx, testStudentID, testSubjectID, f.chapter.ID)
	require.NoError(t, err)

	_, err = f.service.GetReview(ctx, testStudentID+1, attempt.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
