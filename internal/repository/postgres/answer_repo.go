package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
)

// AnswerRepo реализует repository.AnswerRepository
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo создает новый репозиторий ответов
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// Upsert сохраняет ответ. Уникальный индекс (attempt_id, question_id) оставляет одну запись на вопрос,
// повторный выбор перезаписывает вариант и снимок правильности.
func (r *AnswerRepo) Upsert(ctx context.Context, answer *entity.StudentAnswer) error {
	answer.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"selected_option_id", "is_correct", "updated_at"}),
	}).Create(answer).Error
}

// GetForQuestion возвращает сохраненный ответ на вопрос в рамках попытки
func (r *AnswerRepo) GetForQuestion(ctx context.Context, attemptID, questionID uint) (*entity.StudentAnswer, error) {
	var answer entity.StudentAnswer
	err := r.db.WithContext(ctx).
		Where("attempt_id = ? AND question_id = ?", attemptID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, mapFindError(err)
	}
	return &answer, nil
}

// CountForAttempt считает ответы с выбранным вариантом и правильные ответы попытки
func (r *AnswerRepo) CountForAttempt(ctx context.Context, attemptID uint) (int64, int64, error) {
	var counts struct {
		Attempted int64
		Correct   int64
	}
	err := r.db.WithContext(ctx).Model(&entity.StudentAnswer{}).
		Select("COUNT(selected_option_id) AS attempted, COUNT(*) FILTER (WHERE is_correct) AS correct").
		Where("attempt_id = ?", attemptID).
		Scan(&counts).Error
	if err != nil {
		return 0, 0, err
	}
	return counts.Attempted, counts.Correct, nil
}

// ListForReview возвращает ответы попытки в порядке создания вместе с вопросами и вариантами
func (r *AnswerRepo) ListForReview(ctx context.Context, attemptID uint) ([]entity.StudentAnswer, error) {
	var answers []entity.StudentAnswer
	err := r.db.WithContext(ctx).
		Preload("Question").
		Preload("Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		Preload("SelectedOption").
		Where("attempt_id = ?", attemptID).
		Order("id").
		Find(&answers).Error
	return answers, err
}
