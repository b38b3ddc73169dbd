package model

import (
	"time"

	"gorm.io/gorm"
)

type Questionnaire struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CourseID     uint           `json:"course_id" gorm:"not null;index"`
	ChapterID    uint           `json:"chapter_id" gorm:"not null;index"`
	Title        string         `json:"title" gorm:"not null"`
	Position     int            `json:"position" gorm:"not null"`
	Required     bool           `json:"required" gorm:"not null;default:false"`
	MinPassScore int            `json:"min_pass_score" gorm:"not null;default:80"` // percentage
	Questions    []Question     `json:"questions,omitempty" gorm:"foreignKey:QuestionnaireID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
