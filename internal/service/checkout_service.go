package service

import (
	"errors"
	"fmt"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/quangdng/edumart/config"
	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/dto"
	"github.com/quangdng/edumart/internal/model"
	"github.com/quangdng/edumart/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/google/uuid"
)

// SnapGateway is the slice of the payment gateway this service uses.
// Satisfied by snap.Client; faked in tests.
type SnapGateway interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// CheckoutService delegates paid enrollments to the external payment
// gateway. Payment flow design lives entirely on the gateway's side; this
// service only creates an order, hands it over, and reacts to notifications.
type CheckoutService interface {
	Checkout(userID, courseID uint) (*dto.CheckoutResponseDTO, error)
	HandleNotification(req dto.PaymentNotificationDTO) error
}

type checkoutService struct {
	courseRepo     repository.CourseRepository
	orderRepo      repository.OrderRepository
	enrollmentRepo repository.EnrollmentRepository
	gateway        SnapGateway
}

func NewCheckoutService(
	cfg *config.Config,
	courseRepo repository.CourseRepository,
	orderRepo repository.OrderRepository,
	enrollmentRepo repository.EnrollmentRepository,
) CheckoutService {
	client := &snap.Client{}
	client.New(cfg.Midtrans.ServerKey, midtrans.Sandbox)
	return &checkoutService{
		courseRepo:     courseRepo,
		orderRepo:      orderRepo,
		enrollmentRepo: enrollmentRepo,
		gateway:        client,
	}
}

func (s *checkoutService) Checkout(userID, courseID uint) (*dto.CheckoutResponseDTO, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCourseNotFound
		}
		return nil, fmt.Errorf("loading course %d: %w", courseID, err)
	}
	if !course.Published {
		return nil, apperr.ErrCourseNotFound
	}

	enrolled, err := s.enrollmentRepo.Exists(userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("checking enrollment: %w", err)
	}
	if enrolled {
		return nil, apperr.ErrAlreadyEnrolled
	}

	// Free courses skip the gateway entirely.
	if course.Price == 0 {
		if err := s.enrollmentRepo.Create(&model.Enrollment{UserID: userID, CourseID: courseID}); err != nil {
			log.Error().Err(err).Uint("userID", userID).Uint("courseID", courseID).Msg("Checkout: failed to enroll in free course")
			return nil, fmt.Errorf("enrolling in course %d: %w", courseID, err)
		}
		log.Info().Uint("userID", userID).Uint("courseID", courseID).Msg("Enrolled in free course")
		return &dto.CheckoutResponseDTO{Status: "enrolled", Enrolled: true}, nil
	}

	order := model.Order{
		OrderCode: uuid.NewString(),
		UserID:    userID,
		CourseID:  courseID,
		Amount:    course.Price,
		Status:    model.OrderStatusPending,
	}
	if err := s.orderRepo.Create(&order); err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("Checkout: failed to create order")
		return nil, fmt.Errorf("creating order: %w", err)
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderCode,
			GrossAmt: order.Amount,
		},
	}
	snapResp, midErr := s.gateway.CreateTransaction(snapReq)
	if midErr != nil {
		log.Error().Err(midErr).Str("orderCode", order.OrderCode).Msg("Checkout: gateway rejected transaction")
		return nil, fmt.Errorf("creating gateway transaction for order %s: %w", order.OrderCode, midErr)
	}

	order.SnapToken = snapResp.Token
	if err := s.orderRepo.Update(&order); err != nil {
		log.Error().Err(err).Str("orderCode", order.OrderCode).Msg("Checkout: failed to store snap token")
		return nil, fmt.Errorf("updating order %s: %w", order.OrderCode, err)
	}

	return &dto.CheckoutResponseDTO{
		OrderCode:   order.OrderCode,
		Amount:      order.Amount,
		Status:      order.Status,
		SnapToken:   snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
	}, nil
}

// HandleNotification applies a gateway status callback to the matching
// order. Settled orders enroll the learner; notifications for already-paid
// orders are ignored so replays stay harmless.
func (s *checkoutService) HandleNotification(req dto.PaymentNotificationDTO) error {
	order, err := s.orderRepo.FindByOrderCode(req.OrderID)
	if err != nil {
		log.Warn().Err(err).Str("orderCode", req.OrderID).Msg("HandleNotification: unknown order")
		return fmt.Errorf("order not found with code %s: %w", req.OrderID, err)
	}
	if order.Status == model.OrderStatusPaid {
		return nil
	}

	switch req.TransactionStatus {
	case "capture":
		if req.FraudStatus != "accept" {
			log.Warn().Str("orderCode", order.OrderCode).Str("fraudStatus", req.FraudStatus).Msg("HandleNotification: capture held by fraud check")
			return nil
		}
		fallthrough
	case "settlement":
		order.Status = model.OrderStatusPaid
		if err := s.orderRepo.Update(order); err != nil {
			return fmt.Errorf("marking order %s paid: %w", order.OrderCode, err)
		}
		enrolled, err := s.enrollmentRepo.Exists(order.UserID, order.CourseID)
		if err != nil {
			return fmt.Errorf("checking enrollment: %w", err)
		}
		if !enrolled {
			if err := s.enrollmentRepo.Create(&model.Enrollment{UserID: order.UserID, CourseID: order.CourseID}); err != nil {
				log.Error().Err(err).Str("orderCode", order.OrderCode).Msg("HandleNotification: failed to enroll after payment")
				return fmt.Errorf("enrolling after payment: %w", err)
			}
		}
		log.Info().Str("orderCode", order.OrderCode).Uint("userID", order.UserID).Uint("courseID", order.CourseID).Msg("Order settled, learner enrolled")
	case "deny", "cancel", "expire":
		order.Status = model.OrderStatusFailed
		if err := s.orderRepo.Update(order); err != nil {
			return fmt.Errorf("marking order %s failed: %w", order.OrderCode, err)
		}
		log.Info().Str("orderCode", order.OrderCode).Str("status", req.TransactionStatus).Msg("Order failed")
	default:
		log.Info().Str("orderCode", order.OrderCode).Str("status", req.TransactionStatus).Msg("HandleNotification: ignoring transitional status")
	}
	return nil
}
