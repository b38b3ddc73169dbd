package dto

import "time"

type CheckoutResponseDTO struct {
	OrderCode   string `json:"order_code"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
	SnapToken   string `json:"snap_token,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Enrolled    bool   `json:"enrolled"`
}

// PaymentNotificationDTO is the subset of the gateway's webhook payload this
// service acts on.
type PaymentNotificationDTO struct {
	OrderID           string `json:"order_id" binding:"required"`
	TransactionStatus string `json:"transaction_status" binding:"required"`
	FraudStatus       string `json:"fraud_status"`
}

type CertificateDTO struct {
	SerialNumber string    `json:"serial_number"`
	CourseID     uint      `json:"course_id"`
	IssuedAt     time.Time `json:"issued_at"`
}
