package entity

import (
	"time"
)

// Константы статусов попытки
const (
	AttemptStatusInProgress = "in_progress"
	AttemptStatusCompleted  = "completed"
)

// QuizAttempt - одна попытка студента пройти тест по главе
type QuizAttempt struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	StudentID      uint       `gorm:"not null;index" json:"student_id"`
	SubjectID      uint       `gorm:"not null;index" json:"subject_id"`
	ChapterID      uint       `gorm:"not null;index" json:"chapter_id"`
	TotalQuestions int        `gorm:"not null;default:0" json:"total_questions"`
	Attempted      int        `gorm:"not null;default:0" json:"attempted"`
	Correct        int        `gorm:"not null;default:0" json:"correct"`
	Wrong          int        `gorm:"not null;default:0" json:"wrong"`
	StartedAt      time.Time  `gorm:"not null;autoCreateTime" json:"started_at"`
	CompletedAt    *time.Time `gorm:"index" json:"completed_at,omitempty"`

	Student *User    `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Chapter *Chapter `gorm:"foreignKey:ChapterID" json:"chapter,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// IsCompleted проверяет, завершена ли попытка
func (a *QuizAttempt) IsCompleted() bool {
	return a.CompletedAt != nil
}

// Status возвращает статус попытки: in_progress -> completed, без возврата
func (a *QuizAttempt) Status() string {
	if a.IsCompleted() {
		return AttemptStatusCompleted
	}
	return AttemptStatusInProgress
}

// Unanswered возвращает количество вопросов без выбранного ответа
func (a *QuizAttempt) Unanswered() int {
	if n := a.TotalQuestions - a.Attempted; n > 0 {
		return n
	}
	return 0
}

// AttemptScore - итоговые счетчики попытки
type AttemptScore struct {
	Attempted int
	Correct   int
	Wrong     int
}

// NewAttemptScore считает wrong = attempted - correct, не меньше нуля
func NewAttemptScore(attempted, correct int64) AttemptScore {
	wrong := attempted - correct
	if wrong < 0 {
		wrong = 0
	}
	return AttemptScore{
		Attempted: int(attempted),
		Correct:   int(correct),
		Wrong:     int(wrong),
	}
}

// StudentAnswer - ответ на вопрос в рамках попытки, один на пару (attempt, question).
// IsCorrect - снимок правильности на момент выбора, позже не пересчитывается.
type StudentAnswer struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	AttemptID        uint      `gorm:"not null;uniqueIndex:idx_answer_attempt_question" json:"attempt_id"`
	QuestionID       uint      `gorm:"not null;uniqueIndex:idx_answer_attempt_question" json:"question_id"`
	SelectedOptionID *uint     `gorm:"index" json:"selected_option_id"`
	IsCorrect        bool      `gorm:"not null;default:false" json:"is_correct"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Question       *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	SelectedOption *Option   `gorm:"foreignKey:SelectedOptionID" json:"selected_option,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (StudentAnswer) TableName() string {
	return "student_answers"
}

// IsSkipped проверяет, что вариант ответа не выбран (или был удален)
func (a *StudentAnswer) IsSkipped() bool {
	return a.SelectedOptionID == nil
}
