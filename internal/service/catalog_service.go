package service

import (
	"context"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
)

// CatalogService предоставляет предметы и главы
type CatalogService struct {
	subjectRepo repository.SubjectRepository
	chapterRepo repository.ChapterRepository
}

// NewCatalogService создает новый сервис каталога
func NewCatalogService(subjectRepo repository.SubjectRepository, chapterRepo repository.ChapterRepository) *CatalogService {
	return &CatalogService{
		subjectRepo: subjectRepo,
		chapterRepo: chapterRepo,
	}
}

// ListSubjects возвращает все предметы
func (s *CatalogService) ListSubjects(ctx context.Context) ([]entity.Subject, error) {
	return s.subjectRepo.List(ctx)
}

// ListChapters возвращает главы предмета. Для неизвестного предмета список пуст.
func (s *CatalogService) ListChapters(ctx context.Context, subjectID uint) ([]entity.Chapter, error) {
	return s.chapterRepo.ListBySubject(ctx, subjectID)
}

// FindOrCreateChapter возвращает главу предмета по названию, создавая предмет и главу при необходимости
func (s *CatalogService) FindOrCreateChapter(ctx context.Context, subjectName, chapterName string) (*entity.Chapter, error) {
	subject, err := s.subjectRepo.GetByName(ctx, subjectName)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		subject = &entity.Subject{Name: subjectName}
		if err := s.subjectRepo.Create(ctx, subject); err != nil {
			return nil, err
		}
	}

	chapter, err := s.chapterRepo.GetByName(ctx, subject.ID, chapterName)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		chapter = &entity.Chapter{SubjectID: subject.ID, Name: chapterName}
		if err := s.chapterRepo.Create(ctx, chapter); err != nil {
			return nil, err
		}
	}
	chapter.Subject = subject
	return chapter, nil
}
