package dto

import "github.com/yourusername/quiz-portal/internal/domain/entity"

// SubjectResponse - предмет в списке
type SubjectResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ChapterResponse - глава в ответе /get-chapters/
type ChapterResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// DashboardResponse - данные кабинета студента
type DashboardResponse struct {
	User     *UserResponse     `json:"user"`
	Subjects []SubjectResponse `json:"subjects"`
}

// NewSubjectList преобразует предметы в список SubjectResponse
func NewSubjectList(subjects []entity.Subject) []SubjectResponse {
	resp := make([]SubjectResponse, len(subjects))
	for i, s := range subjects {
		resp[i] = SubjectResponse{ID: s.ID, Name: s.Name}
	}
	return resp
}

// NewChapterList преобразует главы в список ChapterResponse, пустой список не nil
func NewChapterList(chapters []entity.Chapter) []ChapterResponse {
	resp := make([]ChapterResponse, len(chapters))
	for i, ch := range chapters {
		resp[i] = ChapterResponse{ID: ch.ID, Name: ch.Name}
	}
	return resp
}
