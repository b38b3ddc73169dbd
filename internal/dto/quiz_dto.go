package dto

import "time"

// QuizSubmitDTO carries a learner's answers keyed by question id. Entries for
// questions outside the questionnaire are ignored during scoring.
type QuizSubmitDTO struct {
	Answers map[uint]string `json:"answers" binding:"required"`
}

// QuestionFeedbackDTO reports how one question was graded.
type QuestionFeedbackDTO struct {
	QuestionID      uint    `json:"question_id"`
	SubmittedAnswer *string `json:"submitted_answer,omitempty"`
	IsCorrect       bool    `json:"is_correct"`
}

// QuizResultDTO is the outcome of a scored submission.
type QuizResultDTO struct {
	AttemptID      uint                  `json:"attempt_id"`
	Score          int                   `json:"score"`
	AttemptCount   int                   `json:"attempt_count"`
	CorrectCount   int                   `json:"correct_count"`
	TotalQuestions int                   `json:"total_questions"`
	Passed         bool                  `json:"passed"`
	Feedback       []QuestionFeedbackDTO `json:"feedback"`
}

// AttemptLimitResponse is returned when the attempt ceiling refuses a
// submission; AttemptCount lets the UI explain the refusal.
type AttemptLimitResponse struct {
	Message      string `json:"message"`
	AttemptCount int    `json:"attempt_count"`
}

type AttemptCountDTO struct {
	QuestionnaireID uint `json:"questionnaire_id"`
	AttemptCount    int  `json:"attempt_count"`
	AttemptsLimit   int  `json:"attempts_limit"`
}

type AttemptSummaryDTO struct {
	ID              uint      `json:"id"`
	QuestionnaireID uint      `json:"questionnaire_id"`
	Score           int       `json:"score"`
	CreatedAt       time.Time `json:"created_at"`
}

type AttemptDetailDTO struct {
	ID              uint                  `json:"id"`
	QuestionnaireID uint                  `json:"questionnaire_id"`
	Score           int                   `json:"score"`
	Answers         []QuestionFeedbackDTO `json:"answers"`
	CreatedAt       time.Time             `json:"created_at"`
}

// QuestionTakeDTO is what a learner sees while taking a quiz; the answer key
// never leaves the server.
type QuestionTakeDTO struct {
	ID       uint     `json:"id"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
	Position int      `json:"position"`
}

type QuizDetailDTO struct {
	ID            uint              `json:"id"`
	Title         string            `json:"title"`
	Required      bool              `json:"required"`
	MinPassScore  int               `json:"min_pass_score"`
	AttemptsUsed  int               `json:"attempts_used"`
	AttemptsLimit int               `json:"attempts_limit"`
	Questions     []QuestionTakeDTO `json:"questions"`
}

// --- Progress ---

type QuestionnaireProgressDTO struct {
	QuestionnaireID uint   `json:"questionnaire_id"`
	Title           string `json:"title"`
	Attempted       bool   `json:"attempted"`
	LatestScore     int    `json:"latest_score"`
	AttemptsUsed    int    `json:"attempts_used"`
	Passed          bool   `json:"passed"`
}

type CourseProgressDTO struct {
	CourseID       uint                       `json:"course_id"`
	Progress       int                        `json:"progress"`
	TotalScore     int                        `json:"total_score"`
	MaxScore       int                        `json:"max_score"`
	Questionnaires []QuestionnaireProgressDTO `json:"questionnaires,omitempty"`
}
