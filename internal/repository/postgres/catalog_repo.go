package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
)

// SubjectRepo реализует repository.SubjectRepository
type SubjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo создает новый репозиторий предметов
func NewSubjectRepo(db *gorm.DB) *SubjectRepo {
	return &SubjectRepo{db: db}
}

// Create создает новый предмет
func (r *SubjectRepo) Create(ctx context.Context, subject *entity.Subject) error {
	return mapCreateError(r.db.WithContext(ctx).Create(subject).Error, "subject")
}

// GetByID возвращает предмет по ID
func (r *SubjectRepo) GetByID(ctx context.Context, id uint) (*entity.Subject, error) {
	var subject entity.Subject
	if err := r.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, mapFindError(err)
	}
	return &subject, nil
}

// GetByName возвращает предмет по точному названию
func (r *SubjectRepo) GetByName(ctx context.Context, name string) (*entity.Subject, error) {
	var subject entity.Subject
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&subject).Error; err != nil {
		return nil, mapFindError(err)
	}
	return &subject, nil
}

// List возвращает все предметы по названию
func (r *SubjectRepo) List(ctx context.Context) ([]entity.Subject, error) {
	var subjects []entity.Subject
	err := r.db.WithContext(ctx).Order("name, id").Find(&subjects).Error
	return subjects, err
}

// ChapterRepo реализует repository.ChapterRepository
type ChapterRepo struct {
	db *gorm.DB
}

// NewChapterRepo создает новый репозиторий глав
func NewChapterRepo(db *gorm.DB) *ChapterRepo {
	return &ChapterRepo{db: db}
}

// Create создает новую главу
func (r *ChapterRepo) Create(ctx context.Context, chapter *entity.Chapter) error {
	return mapCreateError(r.db.WithContext(ctx).Create(chapter).Error, "chapter")
}

// GetInSubject возвращает главу вместе с предметом, если она принадлежит предмету
func (r *ChapterRepo) GetInSubject(ctx context.Context, subjectID, chapterID uint) (*entity.Chapter, error) {
	var chapter entity.Chapter
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("id = ? AND subject_id = ?", chapterID, subjectID).
		First(&chapter).Error
	if err != nil {
		return nil, mapFindError(err)
	}
	return &chapter, nil
}

// GetByName возвращает главу предмета по названию
func (r *ChapterRepo) GetByName(ctx context.Context, subjectID uint, name string) (*entity.Chapter, error) {
	var chapter entity.Chapter
	err := r.db.WithContext(ctx).
		Where("subject_id = ? AND name = ?", subjectID, name).
		First(&chapter).Error
	if err != nil {
		return nil, mapFindError(err)
	}
	return &chapter, nil
}

// ListBySubject возвращает главы предмета в порядке создания
func (r *ChapterRepo) ListBySubject(ctx context.Context, subjectID uint) ([]entity.Chapter, error) {
	chapters := []entity.Chapter{}
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("id").
		Find(&chapters).Error
	return chapters, err
}
