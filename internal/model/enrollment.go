package model

import (
	"time"

	"gorm.io/gorm"
)

type Enrollment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID  uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
