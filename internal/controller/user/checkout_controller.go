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

type CheckoutController struct {
	checkoutService    service.CheckoutService
	certificateService service.CertificateService
}

func NewCheckoutController(checkoutService service.CheckoutService, certificateService service.CertificateService) *CheckoutController {
	return &CheckoutController{
		checkoutService:    checkoutService,
		certificateService: certificateService,
	}
}

// Checkout godoc
// @Summary (User) Enroll in a course, via the payment gateway when priced
// @Description Free courses enroll immediately; priced courses return a gateway token and redirect URL.
// @Tags User - Checkout
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} dto.CheckoutResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Failure 500 {object} dto.ErrorResponse
// @Router /courses/{course_id}/checkout [post]
func (c *CheckoutController) Checkout(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "course_id")
	if !ok {
		return
	}

	resp, err := c.checkoutService.Checkout(middleware.CurrentUserID(ctx), courseID)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrCourseNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Course not found"})
		case errors.Is(err, apperr.ErrAlreadyEnrolled):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Already enrolled in this course"})
		default:
			log.Error().Err(err).Uint("courseID", courseID).Msg("Checkout: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start checkout"})
		}
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// PaymentNotification godoc
// @Summary Payment gateway status callback
// @Description Called by the gateway, not by users. Settled orders enroll the learner.
// @Tags Payments
// @Accept json
// @Produce json
// @Param notification body dto.PaymentNotificationDTO true "Gateway notification payload"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Router /payments/notification [post]
func (c *CheckoutController) PaymentNotification(ctx *gin.Context) {
	var req dto.PaymentNotificationDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid notification payload", Details: []string{err.Error()}})
		return
	}

	if err := c.checkoutService.HandleNotification(req); err != nil {
		log.Error().Err(err).Str("orderCode", req.OrderID).Msg("PaymentNotification: service error")
		// Gateways retry on non-2xx; a missing order will never resolve, so
		// acknowledge it anyway.
		ctx.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// IssueCertificate godoc
// @Summary (User) Request a completion certificate for a course
// @Description Issues (or returns the existing) certificate once every required questionnaire is passed.
// @Tags User - Certificates
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} dto.CertificateDTO
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 422 {object} dto.ErrorResponse "Requirements not completed"
// @Failure 500 {object} dto.ErrorResponse
// @Router /courses/{course_id}/certificate [post]
func (c *CheckoutController) IssueCertificate(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "course_id")
	if !ok {
		return
	}

	cert, err := c.certificateService.IssueCertificate(middleware.CurrentUserID(ctx), courseID)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrCourseNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Course not found"})
		case errors.Is(err, apperr.ErrCourseNotCompleted):
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "Course requirements not completed yet"})
		default:
			log.Error().Err(err).Uint("courseID", courseID).Msg("IssueCertificate: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to issue certificate"})
		}
		return
	}
	ctx.JSON(http.StatusOK, cert)
}
