package model

// AttemptAnswer records how a single question was answered within an attempt.
// SubmittedAnswer is nil when the learner left the question blank.
type AttemptAnswer struct {
	ID              uint    `gorm:"primarykey" json:"id"`
	AttemptID       uint    `json:"attempt_id" gorm:"not null;index"`
	QuestionID      uint    `json:"question_id" gorm:"not null"`
	SubmittedAnswer *string `json:"submitted_answer,omitempty" gorm:"type:text"`
	IsCorrect       bool    `json:"is_correct" gorm:"not null"`
}
