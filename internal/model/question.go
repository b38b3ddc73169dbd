package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Question struct {
	ID              uint                        `gorm:"primarykey" json:"id"`
	QuestionnaireID uint                        `json:"questionnaire_id" gorm:"not null;index"`
	Prompt          string                      `json:"prompt" gorm:"type:text;not null"`
	Options         datatypes.JSONSlice[string] `json:"options" gorm:"not null"`
	CorrectAnswer   string                      `json:"correct_answer" gorm:"not null"` // compared case-insensitively at scoring time
	Position        int                         `json:"position" gorm:"not null"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
	DeletedAt       gorm.DeletedAt              `gorm:"index" json:"-"`
}
