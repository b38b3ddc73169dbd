package repository

import (
	"errors"

	"github.com/quangdng/edumart/internal/model"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(enrollment *model.Enrollment) error
	Exists(userID, courseID uint) (bool, error)
	CountByCourse(courseID uint) (int, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.db.Create(enrollment).Error
}

func (r *enrollmentRepository) Exists(userID, courseID uint) (bool, error) {
	var enrollment model.Enrollment
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *enrollmentRepository) CountByCourse(courseID uint) (int, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return int(count), err
}
