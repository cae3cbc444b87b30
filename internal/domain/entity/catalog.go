package entity

import (
	"fmt"
	"time"
)

// Subject - предмет, уникальный по названию
type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Chapters  []Chapter `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Subject) TableName() string {
	return "subjects"
}

// Chapter - глава предмета, владеет вопросами
type Chapter struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	SubjectID uint       `gorm:"not null;index" json:"subject_id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Subject   *Subject   `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Questions []Question `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Chapter) TableName() string {
	return "chapters"
}

// Title возвращает "Предмет - Глава", если предмет загружен
func (c *Chapter) Title() string {
	if c.Subject != nil {
		return fmt.Sprintf("%s - %s", c.Subject.Name, c.Name)
	}
	return c.Name
}
