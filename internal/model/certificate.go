package model

import (
	"time"
)

// Certificate is issued once per (user, course) when every required
// questionnaire has been passed. Like attempts, certificates are never
// updated or deleted.
type Certificate struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	SerialNumber string    `json:"serial_number" gorm:"not null;uniqueIndex"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	CourseID     uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	IssuedAt     time.Time `json:"issued_at" gorm:"autoCreateTime"`
}
