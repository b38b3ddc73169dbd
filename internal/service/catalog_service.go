package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/dto"
	"github.com/quangdng/edumart/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogService serves the learner-facing course catalog. Answer keys are
// stripped at the DTO boundary and never leave the server.
type CatalogService interface {
	GetAllCourses() ([]dto.CourseSummaryDTO, error)
	GetCourseDetails(courseID uint) (*dto.CourseDetailDTO, error)
	GetQuizForTaking(userID, questionnaireID uint) (*dto.QuizDetailDTO, error)
}

type catalogService struct {
	courseRepo        repository.CourseRepository
	questionnaireRepo repository.QuestionnaireRepository
	attemptRepo       repository.AttemptRepository
}

func NewCatalogService(
	courseRepo repository.CourseRepository,
	questionnaireRepo repository.QuestionnaireRepository,
	attemptRepo repository.AttemptRepository,
) CatalogService {
	return &catalogService{
		courseRepo:        courseRepo,
		questionnaireRepo: questionnaireRepo,
		attemptRepo:       attemptRepo,
	}
}

func (s *catalogService) GetAllCourses() ([]dto.CourseSummaryDTO, error) {
	coursesWithCounts, err := s.courseRepo.FindAllPublishedWithCounts()
	if err != nil {
		log.Error().Err(err).Msg("GetAllCourses: failed to fetch courses")
		return nil, fmt.Errorf("fetching courses: %w", err)
	}

	var summaries []dto.CourseSummaryDTO
	for _, cwc := range coursesWithCounts {
		summaries = append(summaries, dto.CourseSummaryDTO{
			ID:                 cwc.Course.ID,
			Title:              cwc.Course.Title,
			Description:        cwc.Course.Description,
			Price:              cwc.Course.Price,
			ChapterCount:       cwc.ChapterCount,
			QuestionnaireCount: cwc.QuestionnaireCount,
			CreatedAt:          cwc.Course.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *catalogService) GetCourseDetails(courseID uint) (*dto.CourseDetailDTO, error) {
	course, err := s.courseRepo.FindByIDWithChapters(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCourseNotFound
		}
		log.Error().Err(err).Uint("courseID", courseID).Msg("GetCourseDetails: failed to load course")
		return nil, fmt.Errorf("loading course %d: %w", courseID, err)
	}

	var resp dto.CourseDetailDTO
	if err := copier.Copy(&resp, course); err != nil {
		log.Error().Err(err).Msg("GetCourseDetails: failed to copy course model to DTO")
		return nil, fmt.Errorf("preparing course details response: %w", err)
	}
	return &resp, nil
}

func (s *catalogService) GetQuizForTaking(userID, questionnaireID uint) (*dto.QuizDetailDTO, error) {
	questionnaire, err := s.questionnaireRepo.FindByIDWithQuestions(questionnaireID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrQuestionnaireNotFound
		}
		log.Error().Err(err).Uint("questionnaireID", questionnaireID).Msg("GetQuizForTaking: failed to load questionnaire")
		return nil, fmt.Errorf("loading questionnaire %d: %w", questionnaireID, err)
	}

	used, err := s.attemptRepo.CountByUserAndQuestionnaire(userID, questionnaireID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("questionnaireID", questionnaireID).Msg("GetQuizForTaking: ledger read failed")
		return nil, fmt.Errorf("counting attempts: %w", err)
	}

	questions := make([]dto.QuestionTakeDTO, len(questionnaire.Questions))
	for i, q := range questionnaire.Questions {
		questions[i] = dto.QuestionTakeDTO{
			ID:       q.ID,
			Prompt:   q.Prompt,
			Options:  q.Options,
			Position: q.Position,
		}
	}

	return &dto.QuizDetailDTO{
		ID:            questionnaire.ID,
		Title:         questionnaire.Title,
		Required:      questionnaire.Required,
		MinPassScore:  questionnaire.MinPassScore,
		AttemptsUsed:  used,
		AttemptsLimit: MaxQuizAttempts,
		Questions:     questions,
	}, nil
}
