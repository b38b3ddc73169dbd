package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/dto"
	"github.com/quangdng/edumart/internal/middleware"
	"github.com/quangdng/edumart/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	submissionService service.QuizSubmissionService
	progressService   service.ProgressService
}

func NewQuizController(submissionService service.QuizSubmissionService, progressService service.ProgressService) *QuizController {
	return &QuizController{
		submissionService: submissionService,
		progressService:   progressService,
	}
}

// SubmitAttempt godoc
// @Summary (User) Submit answers for a questionnaire
// @Description Scores the submission against the answer key, records the attempt, and returns per-question feedback. At most 3 attempts per questionnaire.
// @Tags User - Quizzes
// @Accept json
// @Produce json
// @Param questionnaire_id path int true "Questionnaire ID"
// @Param submission body dto.QuizSubmitDTO true "Answers keyed by question id"
// @Success 200 {object} dto.QuizResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Questionnaire not found"
// @Failure 409 {object} dto.AttemptLimitResponse "Attempt limit reached"
// @Failure 422 {object} dto.ErrorResponse "Questionnaire has no questions"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questionnaires/{questionnaire_id}/attempts [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	questionnaireID, ok := pathID(ctx, "questionnaire_id")
	if !ok {
		return
	}

	var req dto.QuizSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	userID := middleware.CurrentUserID(ctx)
	result, err := c.submissionService.SubmitAttempt(userID, questionnaireID, req.Answers)
	if err != nil {
		var limitErr *apperr.AttemptLimitError
		switch {
		case errors.As(err, &limitErr):
			ctx.JSON(http.StatusConflict, dto.AttemptLimitResponse{
				Message:      "Attempt limit reached for this questionnaire",
				AttemptCount: limitErr.Count,
			})
		case errors.Is(err, apperr.ErrQuestionnaireNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Questionnaire not found"})
		case errors.Is(err, apperr.ErrNoQuestions):
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "Questionnaire has no questions to score"})
		default:
			log.Error().Err(err).Uint("questionnaireID", questionnaireID).Msg("SubmitAttempt: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to process submission"})
		}
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetMyAttempts godoc
// @Summary (User) List my attempts for a questionnaire
// @Tags User - Quizzes
// @Produce json
// @Param questionnaire_id path int true "Questionnaire ID"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /questionnaires/{questionnaire_id}/attempts [get]
func (c *QuizController) GetMyAttempts(ctx *gin.Context) {
	questionnaireID, ok := pathID(ctx, "questionnaire_id")
	if !ok {
		return
	}

	attempts, err := c.submissionService.GetUserAttempts(middleware.CurrentUserID(ctx), questionnaireID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve attempts"})
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// GetAttemptCount godoc
// @Summary (User) Count my attempts for a questionnaire
// @Tags User - Quizzes
// @Produce json
// @Param questionnaire_id path int true "Questionnaire ID"
// @Success 200 {object} dto.AttemptCountDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /questionnaires/{questionnaire_id}/attempts/count [get]
func (c *QuizController) GetAttemptCount(ctx *gin.Context) {
	questionnaireID, ok := pathID(ctx, "questionnaire_id")
	if !ok {
		return
	}

	count, err := c.submissionService.CountAttempts(middleware.CurrentUserID(ctx), questionnaireID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to count attempts"})
		return
	}
	ctx.JSON(http.StatusOK, dto.AttemptCountDTO{
		QuestionnaireID: questionnaireID,
		AttemptCount:    count,
		AttemptsLimit:   service.MaxQuizAttempts,
	})
}

// GetAttemptDetails godoc
// @Summary (User) Get one of my attempts with per-question feedback
// @Tags User - Quizzes
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id} [get]
func (c *QuizController) GetAttemptDetails(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}

	detail, err := c.submissionService.GetAttemptDetails(middleware.CurrentUserID(ctx), attemptID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Attempt not found"})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// GetCourseProgress godoc
// @Summary (User) Get my progress for a course
// @Description Aggregates the most recent attempt score per questionnaire into a completion percentage.
// @Tags User - Progress
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} dto.CourseProgressDTO
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /courses/{course_id}/progress [get]
func (c *QuizController) GetCourseProgress(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "course_id")
	if !ok {
		return
	}

	progress, err := c.progressService.GetCourseProgress(middleware.CurrentUserID(ctx), courseID)
	if err != nil {
		if errors.Is(err, apperr.ErrCourseNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Course not found"})
			return
		}
		log.Error().Err(err).Uint("courseID", courseID).Msg("GetCourseProgress: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute progress"})
		return
	}
	ctx.JSON(http.StatusOK, progress)
}

// pathID parses a uint path parameter, writing the 400 response itself when
// the value is malformed.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
