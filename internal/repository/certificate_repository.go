package repository

import (
	"github.com/quangdng/edumart/internal/model"
	"gorm.io/gorm"
)

type CertificateRepository interface {
	Create(certificate *model.Certificate) error
	FindByUserAndCourse(userID, courseID uint) (*model.Certificate, error)
}

type certificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Create(certificate *model.Certificate) error {
	return r.db.Create(certificate).Error
}

func (r *certificateRepository) FindByUserAndCourse(userID, courseID uint) (*model.Certificate, error) {
	var certificate model.Certificate
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&certificate).Error
	return &certificate, err
}
