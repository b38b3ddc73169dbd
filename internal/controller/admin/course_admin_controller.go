package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/dto"
	"github.com/quangdng/edumart/internal/service"
	"github.com/rs/zerolog/log"
)

type CourseAdminController struct {
	adminService service.CourseAdminService
}

func NewCourseAdminController(adminService service.CourseAdminService) *CourseAdminController {
	return &CourseAdminController{adminService: adminService}
}

// CreateCourse godoc
// @Summary (Admin) Create a course
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Param course body dto.CourseCreateDTO true "Course data"
// @Success 201 {object} dto.CourseDetailDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/courses [post]
func (c *CourseAdminController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	course, err := c.adminService.CreateCourse(req)
	if err != nil {
		log.Error().Err(err).Msg("CreateCourse: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create course"})
		return
	}
	ctx.JSON(http.StatusCreated, course)
}

// UpdateCourse godoc
// @Summary (Admin) Update a course
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Param course_id path int true "Course ID"
// @Param course body dto.CourseUpdateDTO true "Fields to update"
// @Success 200 {object} dto.CourseDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/courses/{course_id} [put]
func (c *CourseAdminController) UpdateCourse(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "course_id")
	if !ok {
		return
	}

	var req dto.CourseUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	course, err := c.adminService.UpdateCourse(courseID, req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to update course")
		return
	}
	ctx.JSON(http.StatusOK, course)
}

// DeleteCourse godoc
// @Summary (Admin) Delete a course
// @Tags Admin - Courses
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/courses/{course_id} [delete]
func (c *CourseAdminController) DeleteCourse(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "course_id")
	if !ok {
		return
	}

	if err := c.adminService.DeleteCourse(courseID); err != nil {
		respondServiceError(ctx, err, "Failed to delete course")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AddChapter godoc
// @Summary (Admin) Add a chapter to a course
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Param course_id path int true "Course ID"
// @Param chapter body dto.ChapterCreateDTO true "Chapter data"
// @Success 201 {object} dto.ChapterDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/courses/{course_id}/chapters [post]
func (c *CourseAdminController) AddChapter(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "course_id")
	if !ok {
		return
	}

	var req dto.ChapterCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	chapter, err := c.adminService.AddChapter(courseID, req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to add chapter")
		return
	}
	ctx.JSON(http.StatusCreated, chapter)
}

// AddQuestionnaire godoc
// @Summary (Admin) Add a questionnaire with its questions to a chapter
// @Description Every question needs a non-empty option list and a correct answer matching one option (case-insensitive).
// @Tags Admin - Quizzes
// @Accept json
// @Produce json
// @Param chapter_id path int true "Chapter ID"
// @Param questionnaire body dto.QuestionnaireCreateDTO true "Questionnaire data"
// @Success 201 {object} dto.QuestionnaireSummaryDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/chapters/{chapter_id}/questionnaires [post]
func (c *CourseAdminController) AddQuestionnaire(ctx *gin.Context) {
	chapterID, ok := pathID(ctx, "chapter_id")
	if !ok {
		return
	}

	var req dto.QuestionnaireCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	questionnaire, err := c.adminService.AddQuestionnaire(chapterID, req)
	if err != nil {
		// Validation failures (duplicate positions, unmatched answer key)
		// come back as plain errors and map to 400.
		log.Warn().Err(err).Uint("chapterID", chapterID).Msg("AddQuestionnaire: rejected")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, questionnaire)
}

// DeleteQuestionnaire godoc
// @Summary (Admin) Delete a questionnaire and its questions
// @Description Historical attempts are preserved in the ledger.
// @Tags Admin - Quizzes
// @Produce json
// @Param questionnaire_id path int true "Questionnaire ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/questionnaires/{questionnaire_id} [delete]
func (c *CourseAdminController) DeleteQuestionnaire(ctx *gin.Context) {
	questionnaireID, ok := pathID(ctx, "questionnaire_id")
	if !ok {
		return
	}

	if err := c.adminService.DeleteQuestionnaire(questionnaireID); err != nil {
		if errors.Is(err, apperr.ErrQuestionnaireNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Questionnaire not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete questionnaire"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetCourseDashboard godoc
// @Summary (Admin) Instructor dashboard for a course
// @Description Enrollment count plus attempt count and average score per questionnaire.
// @Tags Admin - Courses
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} dto.CourseDashboardDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/courses/{course_id}/dashboard [get]
func (c *CourseAdminController) GetCourseDashboard(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "course_id")
	if !ok {
		return
	}

	dashboard, err := c.adminService.GetCourseDashboard(courseID)
	if err != nil {
		respondServiceError(ctx, err, "Failed to build dashboard")
		return
	}
	ctx.JSON(http.StatusOK, dashboard)
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

func respondServiceError(ctx *gin.Context, err error, fallback string) {
	if errors.Is(err, apperr.ErrCourseNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Course not found"})
		return
	}
	log.Error().Err(err).Msg(fallback)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: fallback})
}
