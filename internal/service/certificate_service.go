package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/dto"
	"github.com/quangdng/edumart/internal/model"
	"github.com/quangdng/edumart/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CertificateService issues completion certificates. A certificate is earned
// when the learner's most recent attempt on every required questionnaire of
// the course meets its passing score. Rendering the certificate image is an
// external concern; this service only records the issuance.
type CertificateService interface {
	IssueCertificate(userID, courseID uint) (*dto.CertificateDTO, error)
}

type certificateService struct {
	courseRepo        repository.CourseRepository
	questionnaireRepo repository.QuestionnaireRepository
	attemptRepo       repository.AttemptRepository
	certificateRepo   repository.CertificateRepository
}

func NewCertificateService(
	courseRepo repository.CourseRepository,
	questionnaireRepo repository.QuestionnaireRepository,
	attemptRepo repository.AttemptRepository,
	certificateRepo repository.CertificateRepository,
) CertificateService {
	return &certificateService{
		courseRepo:        courseRepo,
		questionnaireRepo: questionnaireRepo,
		attemptRepo:       attemptRepo,
		certificateRepo:   certificateRepo,
	}
}

func (s *certificateService) IssueCertificate(userID, courseID uint) (*dto.CertificateDTO, error) {
	// Re-issuing is idempotent: the existing certificate is returned as-is.
	existing, err := s.certificateRepo.FindByUserAndCourse(userID, courseID)
	if err == nil {
		return &dto.CertificateDTO{
			SerialNumber: existing.SerialNumber,
			CourseID:     existing.CourseID,
			IssuedAt:     existing.IssuedAt,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up certificate: %w", err)
	}

	if _, err := s.courseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCourseNotFound
		}
		return nil, fmt.Errorf("loading course %d: %w", courseID, err)
	}

	questionnaires, err := s.questionnaireRepo.FindByCourseID(courseID)
	if err != nil {
		return nil, fmt.Errorf("fetching questionnaires: %w", err)
	}

	// Only required questionnaires gate the certificate; the latest attempt
	// decides, same as progress aggregation.
	for _, questionnaire := range questionnaires {
		if !questionnaire.Required {
			continue
		}
		attempts, err := s.attemptRepo.FindAllByUserAndQuestionnaire(userID, questionnaire.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching attempts for questionnaire %d: %w", questionnaire.ID, err)
		}
		if len(attempts) == 0 || attempts[0].Score < questionnaire.MinPassScore {
			return nil, apperr.ErrCourseNotCompleted
		}
	}

	certificate := model.Certificate{
		SerialNumber: uuid.NewString(),
		UserID:       userID,
		CourseID:     courseID,
	}
	if err := s.certificateRepo.Create(&certificate); err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("courseID", courseID).Msg("IssueCertificate: failed to create certificate")
		return nil, fmt.Errorf("creating certificate: %w", err)
	}

	log.Info().Uint("userID", userID).Uint("courseID", courseID).Str("serial", certificate.SerialNumber).Msg("Certificate issued")
	return &dto.CertificateDTO{
		SerialNumber: certificate.SerialNumber,
		CourseID:     certificate.CourseID,
		IssuedAt:     certificate.IssuedAt,
	}, nil
}
