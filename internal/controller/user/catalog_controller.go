package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/dto"
	"github.com/quangdng/edumart/internal/middleware"
	"github.com/quangdng/edumart/internal/service"
	"github.com/rs/zerolog/log"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// GetAllCourses godoc
// @Summary (User) List published courses
// @Tags User - Catalog
// @Produce json
// @Success 200 {array} dto.CourseSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /courses [get]
func (c *CatalogController) GetAllCourses(ctx *gin.Context) {
	courses, err := c.catalogService.GetAllCourses()
	if err != nil {
		log.Error().Err(err).Msg("GetAllCourses: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve courses"})
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// GetCourseDetails godoc
// @Summary (User) Get a course with its chapters and questionnaires
// @Tags User - Catalog
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} dto.CourseDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{course_id} [get]
func (c *CatalogController) GetCourseDetails(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "course_id")
	if !ok {
		return
	}

	course, err := c.catalogService.GetCourseDetails(courseID)
	if err != nil {
		if errors.Is(err, apperr.ErrCourseNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Course not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve course"})
		return
	}
	ctx.JSON(http.StatusOK, course)
}

// GetQuizDetails godoc
// @Summary (User) Get a questionnaire for taking
// @Description Returns prompts and options only; answer keys never leave the server.
// @Tags User - Quizzes
// @Produce json
// @Param questionnaire_id path int true "Questionnaire ID"
// @Success 200 {object} dto.QuizDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /questionnaires/{questionnaire_id} [get]
func (c *CatalogController) GetQuizDetails(ctx *gin.Context) {
	questionnaireID, ok := pathID(ctx, "questionnaire_id")
	if !ok {
		return
	}

	quiz, err := c.catalogService.GetQuizForTaking(middleware.CurrentUserID(ctx), questionnaireID)
	if err != nil {
		if errors.Is(err, apperr.ErrQuestionnaireNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Questionnaire not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve questionnaire"})
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}
