package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// Order tracks a checkout delegated to the payment gateway. OrderCode is the
// identifier shared with the gateway and echoed back in its notifications.
type Order struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	OrderCode string         `json:"order_code" gorm:"not null;uniqueIndex"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	CourseID  uint           `json:"course_id" gorm:"not null;index"`
	Amount    int64          `json:"amount" gorm:"not null"`
	Status    string         `json:"status" gorm:"not null;default:'pending'"`
	SnapToken string         `json:"snap_token,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
