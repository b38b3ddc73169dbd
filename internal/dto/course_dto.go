package dto

import "time"

// --- Admin / instructor DTOs ---

type CourseCreateDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price" binding:"min=0"`
	Published   bool   `json:"published"`
}

type CourseUpdateDTO struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty" binding:"omitempty,min=0"`
	Published   *bool   `json:"published,omitempty"`
}

type ChapterCreateDTO struct {
	Title    string `json:"title" binding:"required"`
	Position int    `json:"position" binding:"required,min=1"`
}

// QuestionCreateDTO is used within QuestionnaireCreateDTO. CorrectAnswer must
// match one of Options, compared case-insensitively.
type QuestionCreateDTO struct {
	Prompt        string   `json:"prompt" binding:"required"`
	Options       []string `json:"options" binding:"required,min=1,dive,required"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	Position      int      `json:"position" binding:"required,min=1"`
}

type QuestionnaireCreateDTO struct {
	Title        string              `json:"title" binding:"required"`
	Position     int                 `json:"position" binding:"required,min=1"`
	Required     bool                `json:"required"`
	MinPassScore *int                `json:"min_pass_score,omitempty" binding:"omitempty,min=0,max=100"`
	Questions    []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// --- Catalog DTOs (learner-facing, never carry answer keys) ---

type CourseSummaryDTO struct {
	ID                 uint      `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	Price              int64     `json:"price"`
	ChapterCount       int       `json:"chapter_count"`
	QuestionnaireCount int       `json:"questionnaire_count"`
	CreatedAt          time.Time `json:"created_at"`
}

type QuestionnaireSummaryDTO struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Position     int    `json:"position"`
	Required     bool   `json:"required"`
	MinPassScore int    `json:"min_pass_score"`
}

type ChapterDTO struct {
	ID             uint                      `json:"id"`
	Title          string                    `json:"title"`
	Position       int                       `json:"position"`
	Questionnaires []QuestionnaireSummaryDTO `json:"questionnaires,omitempty"`
}

type CourseDetailDTO struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Price       int64        `json:"price"`
	Published   bool         `json:"published"`
	Chapters    []ChapterDTO `json:"chapters,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// --- Instructor dashboard ---

type QuestionnaireStatsDTO struct {
	QuestionnaireID uint    `json:"questionnaire_id"`
	Title           string  `json:"title"`
	AttemptCount    int     `json:"attempt_count"`
	AverageScore    float64 `json:"average_score"`
}

type CourseDashboardDTO struct {
	CourseID        uint                    `json:"course_id"`
	Title           string                  `json:"title"`
	EnrollmentCount int                     `json:"enrollment_count"`
	Questionnaires  []QuestionnaireStatsDTO `json:"questionnaires"`
}
