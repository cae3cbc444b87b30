package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/service"
)

// MediaPrefix - URL, по которому раздаются загруженные изображения
const MediaPrefix = "/media/"

// MediaURL возвращает URL изображения или пустую строку
func MediaURL(path string) string {
	if path == "" {
		return ""
	}
	return MediaPrefix + strings.TrimPrefix(path, "/")
}

// OptionResponse - вариант ответа без признака правильности
type OptionResponse struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	Image    string `json:"image,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// QuestionResponse - вопрос с вариантами
type QuestionResponse struct {
	ID      uint             `json:"id"`
	Text    string           `json:"text"`
	Image   string           `json:"image,omitempty"`
	Options []OptionResponse `json:"options,omitempty"`
}

// QuestionPageResponse - страница вопроса
type QuestionPageResponse struct {
	SubjectID   uint              `json:"subject_id"`
	ChapterID   uint              `json:"chapter_id"`
	ChapterName string            `json:"chapter_name"`
	AttemptID   uint              `json:"attempt_id,omitempty"`
	Position    int               `json:"q_no"`
	Total       int               `json:"total"`
	HasPrevious bool              `json:"has_previous"`
	HasNext     bool              `json:"has_next"`
	Question    *QuestionResponse `json:"question,omitempty"`
	Message     string            `json:"message,omitempty"`
}

// NoQuestionsMessage показывается для главы без вопросов
const NoQuestionsMessage = "No questions available for this chapter."

// NewQuestionPageResponse создает QuestionPageResponse из страницы сервиса
func NewQuestionPageResponse(subjectID uint, page *service.QuestionPage) *QuestionPageResponse {
	resp := &QuestionPageResponse{
		SubjectID:   subjectID,
		ChapterID:   page.Chapter.ID,
		ChapterName: page.Chapter.Name,
		Position:    page.Position,
		Total:       page.Total,
	}
	if page.IsEmpty() {
		resp.Message = NoQuestionsMessage
		return resp
	}

	resp.HasPrevious = page.HasPrevious()
	resp.HasNext = page.HasNext()
	if page.Attempt != nil {
		resp.AttemptID = page.Attempt.ID
	}

	q := page.Question
	resp.Question = &QuestionResponse{
		ID:      q.ID,
		Text:    q.Text,
		Image:   MediaURL(q.ImagePath),
		Options: make([]OptionResponse, len(q.Options)),
	}
	for i, opt := range q.Options {
		resp.Question.Options[i] = OptionResponse{
			ID:       opt.ID,
			Text:     opt.Text,
			Image:    MediaURL(opt.ImagePath),
			Selected: page.SelectedOptionID != nil && *page.SelectedOptionID == opt.ID,
		}
	}
	return resp
}

// AttemptResponse - попытка с итоговыми счетчиками
type AttemptResponse struct {
	ID             uint       `json:"id"`
	StudentID      uint       `json:"student_id"`
	Student        string     `json:"student,omitempty"`
	SubjectID      uint       `json:"subject_id"`
	Subject        string     `json:"subject,omitempty"`
	ChapterID      uint       `json:"chapter_id"`
	Chapter        string     `json:"chapter,omitempty"`
	TotalQuestions int        `json:"total_questions"`
	Attempted      int        `json:"attempted"`
	Correct        int        `json:"correct"`
	Wrong          int        `json:"wrong"`
	Unanswered     int        `json:"unanswered"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// NewAttemptResponse создает AttemptResponse из entity.QuizAttempt
func NewAttemptResponse(a *entity.QuizAttempt) AttemptResponse {
	resp := AttemptResponse{
		ID:             a.ID,
		StudentID:      a.StudentID,
		SubjectID:      a.SubjectID,
		ChapterID:      a.ChapterID,
		TotalQuestions: a.TotalQuestions,
		Attempted:      a.Attempted,
		Correct:        a.Correct,
		Wrong:          a.Wrong,
		Unanswered:     a.Unanswered(),
		Status:         a.Status(),
		StartedAt:      a.StartedAt,
		CompletedAt:    a.CompletedAt,
	}
	if a.Student != nil {
		resp.Student = a.Student.Username
	}
	if a.Subject != nil {
		resp.Subject = a.Subject.Name
	}
	if a.Chapter != nil {
		resp.Chapter = a.Chapter.Name
	}
	return resp
}

// PaginatedAttemptsResponse - страница попыток для преподавателя
type PaginatedAttemptsResponse struct {
	Attempts []AttemptResponse `json:"attempts"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PerPage  int               `json:"per_page"`
}

// NewPaginatedAttemptsResponse создает страницу попыток
func NewPaginatedAttemptsResponse(attempts []entity.QuizAttempt, total int64, page, perPage int) *PaginatedAttemptsResponse {
	resp := &PaginatedAttemptsResponse{
		Attempts: make([]AttemptResponse, len(attempts)),
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}
	for i := range attempts {
		resp.Attempts[i] = NewAttemptResponse(&attempts[i])
	}
	return resp
}

// ReviewOptionResponse - вариант в разборе
type ReviewOptionResponse struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// ReviewItemResponse - строка разбора
type ReviewItemResponse struct {
	QuestionID     uint                  `json:"question_id"`
	Question       string                `json:"question"`
	QuestionImage  string                `json:"question_image,omitempty"`
	SelectedOption *ReviewOptionResponse `json:"selected_option"`
	IsCorrect      bool                  `json:"is_correct"`
	CorrectOption  *ReviewOptionResponse `json:"correct_option"`
}

// ResultResponse - результат попытки с разбором
type ResultResponse struct {
	Attempt AttemptResponse      `json:"attempt"`
	Items   []ReviewItemResponse `json:"review"`
}

// NewResultResponse создает ResultResponse из разбора
func NewResultResponse(review *service.Review) *ResultResponse {
	resp := &ResultResponse{
		Attempt: NewAttemptResponse(review.Attempt),
		Items:   make([]ReviewItemResponse, len(review.Items)),
	}
	for i, item := range review.Items {
		resp.Items[i] = ReviewItemResponse{
			QuestionID:     item.Question.ID,
			Question:       item.Question.Text,
			QuestionImage:  MediaURL(item.Question.ImagePath),
			SelectedOption: newReviewOption(item.SelectedOption),
			IsCorrect:      item.IsCorrect,
			CorrectOption:  newReviewOption(item.CorrectOption),
		}
	}
	return resp
}

func newReviewOption(opt *entity.Option) *ReviewOptionResponse {
	if opt == nil {
		return nil
	}
	return &ReviewOptionResponse{ID: opt.ID, Text: opt.Text, Image: MediaURL(opt.ImagePath)}
}

// QuestionPath возвращает URL вопроса главы
func QuestionPath(subjectID, chapterID uint, position int) string {
	return fmt.Sprintf("/quiz/%d/%d/%d/", subjectID, chapterID, position)
}

// ResultPath возвращает URL результата попытки
func ResultPath(subjectID, chapterID, attemptID uint) string {
	return fmt.Sprintf("/quiz/%d/%d/result/%d/", subjectID, chapterID, attemptID)
}
