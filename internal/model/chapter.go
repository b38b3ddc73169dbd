package model

import (
	"time"

	"gorm.io/gorm"
)

type Chapter struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	CourseID       uint            `json:"course_id" gorm:"not null;index"`
	Title          string          `json:"title" gorm:"not null"`
	Position       int             `json:"position" gorm:"not null"`
	Questionnaires []Questionnaire `json:"questionnaires,omitempty" gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}
