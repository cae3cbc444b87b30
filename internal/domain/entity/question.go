package entity

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Question представляет вопрос главы. Текст может быть пустым, если есть изображение.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChapterID uint      `gorm:"not null;index" json:"chapter_id"`
	Text      string    `gorm:"type:text;not null;default:''" json:"text"`
	ImagePath string    `gorm:"size:255;not null;default:''" json:"image,omitempty"`
	Options   []Option  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// Label возвращает короткую подпись вопроса для списков и логов
func (q *Question) Label() string {
	if q.Text == "" {
		return fmt.Sprintf("Image Q (%d)", q.ID)
	}
	if utf8.RuneCountInString(q.Text) <= 50 {
		return q.Text
	}
	return string([]rune(q.Text)[:50])
}

// OptionByID ищет вариант ответа среди вариантов этого вопроса.
// Вариант чужого вопроса не будет найден.
func (q *Question) OptionByID(optionID uint) *Option {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i]
		}
	}
	return nil
}

// CorrectOption возвращает первый вариант с is_correct = true (по порядку загрузки)
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

// Option - вариант ответа на вопрос
type Option struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"size:255;not null;default:''" json:"text"`
	ImagePath  string `gorm:"size:255;not null;default:''" json:"image,omitempty"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"-"` // Скрыто от клиента
}

// TableName определяет имя таблицы для GORM
func (Option) TableName() string {
	return "options"
}

// Label возвращает текст варианта или подпись для варианта-картинки
func (o *Option) Label() string {
	if o.Text != "" {
		return o.Text
	}
	return fmt.Sprintf("Option #%d (img)", o.ID)
}
