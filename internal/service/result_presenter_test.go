package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
)

func TestResultPresenter_BuildReview(t *testing.T) {
	ctx := context.Background()
	answerRepo := new(MockAnswerRepository)

	q1 := newTestQuestion(1)
	q2 := newTestQuestion(2)
	answers := []entity.StudentAnswer{
		{AttemptID: 5, QuestionID: 1, SelectedOptionID: uintPtr(12), IsCorrect: true, Question: q1, SelectedOption: &q1.Options[1]},
		{AttemptID: 5, QuestionID: 2, SelectedOptionID: uintPtr(21), IsCorrect: false, Question: q2, SelectedOption: &q2.Options[0]},
	}
	answerRepo.On("ListForReview", ctx, uint(5)).Return(answers, nil)

	items, err := NewResultPresenter(answerRepo).BuildReview(ctx, &entity.QuizAttempt{ID: 5, TotalQuestions: 3})

	require.NoError(t, err)
	require.Len(t, items, 2, "Вопрос без ответа в разбор не попадает")

	assert.Equal(t, uint(1), items[0].Question.ID)
	assert.True(t, items[0].IsCorrect)
	assert.Equal(t, uint(12), items[0].SelectedOption.ID)
	assert.Equal(t, uint(12), items[0].CorrectOption.ID)

	assert.False(t, items[1].IsCorrect)
	assert.Equal(t, uint(21), items[1].SelectedOption.ID)
	assert.Equal(t, uint(22), items[1].CorrectOption.ID)
}

func TestResultPresenter_BuildReview_UsesSnapshotNotLiveCorrectness(t *testing.T) {
	ctx := context.Background()
	answerRepo := new(MockAnswerRepository)

	// Вариант 11 был правильным на момент ответа, позже правильным стал 12
	q := newTestQuestion(1)
	answers := []entity.StudentAnswer{
		{AttemptID: 5, QuestionID: 1, SelectedOptionID: uintPtr(11), IsCorrect: true, Question: q, SelectedOption: &q.Options[0]},
	}
	answerRepo.On("ListForReview", ctx, uint(5)).Return(answers, nil)

	items, err := NewResultPresenter(answerRepo).BuildReview(ctx, &entity.QuizAttempt{ID: 5})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsCorrect)
	assert.Equal(t, uint(12), items[0].CorrectOption.ID)
}

func TestResultPresenter_BuildReview_DeletedSelection(t *testing.T) {
	ctx := context.Background()
	answerRepo := new(MockAnswerRepository)

	q := newTestQuestion(1)
	answers := []entity.StudentAnswer{
		{AttemptID: 5, QuestionID: 1, SelectedOptionID: nil, IsCorrect: false, Question: q},
	}
	answerRepo.On("ListForReview", ctx, uint(5)).Return(answers, nil)

	items, err := NewResultPresenter(answerRepo).BuildReview(ctx, &entity.QuizAttempt{ID: 5})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].SelectedOption)
	assert.NotNil(t, items[0].CorrectOption)
}
