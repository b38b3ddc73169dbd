package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/dto"
	"github.com/quangdng/edumart/internal/model"
	"github.com/quangdng/edumart/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseAdminService interface {
	CreateCourse(req dto.CourseCreateDTO) (*dto.CourseDetailDTO, error)
	UpdateCourse(courseID uint, req dto.CourseUpdateDTO) (*dto.CourseDetailDTO, error)
	DeleteCourse(courseID uint) error
	AddChapter(courseID uint, req dto.ChapterCreateDTO) (*dto.ChapterDTO, error)
	AddQuestionnaire(chapterID uint, req dto.QuestionnaireCreateDTO) (*dto.QuestionnaireSummaryDTO, error)
	DeleteQuestionnaire(questionnaireID uint) error
	GetCourseDashboard(courseID uint) (*dto.CourseDashboardDTO, error)
}

type courseAdminService struct {
	courseRepo        repository.CourseRepository
	chapterRepo       repository.ChapterRepository
	questionnaireRepo repository.QuestionnaireRepository
	attemptRepo       repository.AttemptRepository
	enrollmentRepo    repository.EnrollmentRepository
}

func NewCourseAdminService(
	courseRepo repository.CourseRepository,
	chapterRepo repository.ChapterRepository,
	questionnaireRepo repository.QuestionnaireRepository,
	attemptRepo repository.AttemptRepository,
	enrollmentRepo repository.EnrollmentRepository,
) CourseAdminService {
	return &courseAdminService{
		courseRepo:        courseRepo,
		chapterRepo:       chapterRepo,
		questionnaireRepo: questionnaireRepo,
		attemptRepo:       attemptRepo,
		enrollmentRepo:    enrollmentRepo,
	}
}

func (s *courseAdminService) CreateCourse(req dto.CourseCreateDTO) (*dto.CourseDetailDTO, error) {
	course := model.Course{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Published:   req.Published,
	}
	if err := s.courseRepo.Create(&course); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreateCourse: failed to create course")
		return nil, fmt.Errorf("creating course: %w", err)
	}

	var resp dto.CourseDetailDTO
	if err := copier.Copy(&resp, &course); err != nil {
		return nil, fmt.Errorf("preparing course response: %w", err)
	}
	return &resp, nil
}

func (s *courseAdminService) UpdateCourse(courseID uint, req dto.CourseUpdateDTO) (*dto.CourseDetailDTO, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCourseNotFound
		}
		return nil, fmt.Errorf("loading course %d: %w", courseID, err)
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Published != nil {
		course.Published = *req.Published
	}

	if err := s.courseRepo.Update(course); err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("UpdateCourse: failed to update course")
		return nil, fmt.Errorf("updating course %d: %w", courseID, err)
	}

	var resp dto.CourseDetailDTO
	if err := copier.Copy(&resp, course); err != nil {
		return nil, fmt.Errorf("preparing course response: %w", err)
	}
	return &resp, nil
}

func (s *courseAdminService) DeleteCourse(courseID uint) error {
	if _, err := s.courseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrCourseNotFound
		}
		return fmt.Errorf("loading course %d: %w", courseID, err)
	}
	if err := s.courseRepo.Delete(courseID); err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("DeleteCourse: failed to delete course")
		return fmt.Errorf("deleting course %d: %w", courseID, err)
	}
	return nil
}

func (s *courseAdminService) AddChapter(courseID uint, req dto.ChapterCreateDTO) (*dto.ChapterDTO, error) {
	if _, err := s.courseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCourseNotFound
		}
		return nil, fmt.Errorf("loading course %d: %w", courseID, err)
	}

	chapter := model.Chapter{
		CourseID: courseID,
		Title:    req.Title,
		Position: req.Position,
	}
	if err := s.chapterRepo.Create(&chapter); err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("AddChapter: failed to create chapter")
		return nil, fmt.Errorf("creating chapter: %w", err)
	}

	var resp dto.ChapterDTO
	if err := copier.Copy(&resp, &chapter); err != nil {
		return nil, fmt.Errorf("preparing chapter response: %w", err)
	}
	return &resp, nil
}

// AddQuestionnaire creates a questionnaire with its questions under a
// chapter. Each question's correct answer must match one of its options,
// compared the same way the engine compares at scoring time.
func (s *courseAdminService) AddQuestionnaire(chapterID uint, req dto.QuestionnaireCreateDTO) (*dto.QuestionnaireSummaryDTO, error) {
	chapter, err := s.chapterRepo.FindByID(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chapter not found with ID %d: %w", chapterID, err)
		}
		return nil, fmt.Errorf("loading chapter %d: %w", chapterID, err)
	}

	positionMap := make(map[int]bool)
	questions := make([]model.Question, 0, len(req.Questions))
	for _, qDto := range req.Questions {
		if positionMap[qDto.Position] {
			return nil, fmt.Errorf("duplicate question position %d", qDto.Position)
		}
		positionMap[qDto.Position] = true

		matched := false
		for _, option := range qDto.Options {
			if normalizeAnswer(option) == normalizeAnswer(qDto.CorrectAnswer) {
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("correct answer %q does not match any option of question at position %d", qDto.CorrectAnswer, qDto.Position)
		}

		questions = append(questions, model.Question{
			Prompt:        qDto.Prompt,
			Options:       datatypes.NewJSONSlice(qDto.Options),
			CorrectAnswer: qDto.CorrectAnswer,
			Position:      qDto.Position,
		})
	}

	questionnaire := model.Questionnaire{
		CourseID:  chapter.CourseID,
		ChapterID: chapterID,
		Title:     req.Title,
		Position:  req.Position,
		Required:  req.Required,
		Questions: questions,
	}
	if req.MinPassScore != nil {
		questionnaire.MinPassScore = *req.MinPassScore
	} else {
		questionnaire.MinPassScore = 80
	}

	if err := s.questionnaireRepo.Create(&questionnaire); err != nil {
		log.Error().Err(err).Uint("chapterID", chapterID).Msg("AddQuestionnaire: failed to create questionnaire")
		return nil, fmt.Errorf("creating questionnaire: %w", err)
	}

	return &dto.QuestionnaireSummaryDTO{
		ID:           questionnaire.ID,
		Title:        questionnaire.Title,
		Position:     questionnaire.Position,
		Required:     questionnaire.Required,
		MinPassScore: questionnaire.MinPassScore,
	}, nil
}

// DeleteQuestionnaire removes a questionnaire and its questions. Recorded
// attempts stay in the ledger untouched.
func (s *courseAdminService) DeleteQuestionnaire(questionnaireID uint) error {
	if _, err := s.questionnaireRepo.FindByID(questionnaireID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrQuestionnaireNotFound
		}
		return fmt.Errorf("loading questionnaire %d: %w", questionnaireID, err)
	}
	if err := s.questionnaireRepo.Delete(questionnaireID); err != nil {
		log.Error().Err(err).Uint("questionnaireID", questionnaireID).Msg("DeleteQuestionnaire: failed to delete")
		return fmt.Errorf("deleting questionnaire %d: %w", questionnaireID, err)
	}
	return nil
}

func (s *courseAdminService) GetCourseDashboard(courseID uint) (*dto.CourseDashboardDTO, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCourseNotFound
		}
		return nil, fmt.Errorf("loading course %d: %w", courseID, err)
	}

	enrollments, err := s.enrollmentRepo.CountByCourse(courseID)
	if err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("GetCourseDashboard: failed to count enrollments")
		return nil, fmt.Errorf("counting enrollments: %w", err)
	}

	questionnaires, err := s.questionnaireRepo.FindByCourseID(courseID)
	if err != nil {
		return nil, fmt.Errorf("fetching questionnaires: %w", err)
	}

	stats, err := s.attemptRepo.StatsByCourse(courseID)
	if err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("GetCourseDashboard: failed to aggregate attempts")
		return nil, fmt.Errorf("aggregating attempts: %w", err)
	}
	statsByID := make(map[uint]repository.QuestionnaireStats, len(stats))
	for _, st := range stats {
		statsByID[st.QuestionnaireID] = st
	}

	rows := make([]dto.QuestionnaireStatsDTO, len(questionnaires))
	for i, questionnaire := range questionnaires {
		row := dto.QuestionnaireStatsDTO{
			QuestionnaireID: questionnaire.ID,
			Title:           questionnaire.Title,
		}
		if st, ok := statsByID[questionnaire.ID]; ok {
			row.AttemptCount = st.AttemptCount
			row.AverageScore = st.AverageScore
		}
		rows[i] = row
	}

	return &dto.CourseDashboardDTO{
		CourseID:        course.ID,
		Title:           course.Title,
		EnrollmentCount: enrollments,
		Questionnaires:  rows,
	}, nil
}
