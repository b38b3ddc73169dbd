package model

import (
	"time"
)

// Attempt is one scored submission of a questionnaire by a learner.
// Attempts are append-only: no UpdatedAt, no soft delete, and the repository
// exposes no update or delete. Editing or removing a questionnaire never
// touches its historical attempts.
type Attempt struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `json:"user_id" gorm:"not null;index:idx_attempts_user_questionnaire"`
	QuestionnaireID uint            `json:"questionnaire_id" gorm:"not null;index:idx_attempts_user_questionnaire"`
	Score           int             `json:"score" gorm:"not null"` // 0-100
	Answers         []AttemptAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`
	CreatedAt       time.Time       `json:"created_at"`
}
