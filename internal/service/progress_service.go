package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/dto"
	"github.com/quangdng/edumart/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProgressService rolls a learner's attempt history up into a course
// completion percentage. Progress is derived on every call, never stored.
type ProgressService interface {
	GetCourseProgress(userID, courseID uint) (*dto.CourseProgressDTO, error)
}

type progressService struct {
	courseRepo  repository.CourseRepository
	attemptRepo repository.AttemptRepository
}

func NewProgressService(
	courseRepo repository.CourseRepository,
	attemptRepo repository.AttemptRepository,
) ProgressService {
	return &progressService{courseRepo: courseRepo, attemptRepo: attemptRepo}
}

// GetCourseProgress aggregates the learner's MOST RECENT attempt per
// questionnaire — not the best one. The score shown reflects current mastery,
// so a later worse attempt deliberately lowers progress. Questionnaires with
// no attempts yet are excluded from MaxScore.
func (s *progressService) GetCourseProgress(userID, courseID uint) (*dto.CourseProgressDTO, error) {
	course, err := s.courseRepo.FindByIDWithChapters(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCourseNotFound
		}
		log.Error().Err(err).Uint("courseID", courseID).Msg("GetCourseProgress: failed to load course")
		return nil, fmt.Errorf("loading course %d: %w", courseID, err)
	}

	result := &dto.CourseProgressDTO{CourseID: courseID}

	totalScore := 0
	attempted := 0
	for _, chapter := range course.Chapters {
		for _, questionnaire := range chapter.Questionnaires {
			attempts, err := s.attemptRepo.FindAllByUserAndQuestionnaire(userID, questionnaire.ID)
			if err != nil {
				log.Error().Err(err).Uint("userID", userID).Uint("questionnaireID", questionnaire.ID).Msg("GetCourseProgress: ledger read failed")
				return nil, fmt.Errorf("fetching attempts for questionnaire %d: %w", questionnaire.ID, err)
			}

			row := dto.QuestionnaireProgressDTO{
				QuestionnaireID: questionnaire.ID,
				Title:           questionnaire.Title,
				AttemptsUsed:    len(attempts),
			}
			if len(attempts) > 0 {
				latest := attempts[0] // ledger orders most recent first
				row.Attempted = true
				row.LatestScore = latest.Score
				row.Passed = latest.Score >= questionnaire.MinPassScore
				totalScore += latest.Score
				attempted++
			}
			result.Questionnaires = append(result.Questionnaires, row)
		}
	}

	// A course without quizzes (or without any attempted quiz) legitimately
	// reports zero progress rather than an error.
	result.TotalScore = totalScore
	result.MaxScore = 100 * attempted
	if result.MaxScore > 0 {
		result.Progress = int(math.Round(float64(totalScore) / float64(result.MaxScore) * 100))
	}
	return result, nil
}
