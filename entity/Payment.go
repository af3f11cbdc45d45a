package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProviderPaystack    = "paystack"
	ProviderFlutterwave = "flutterwave"

	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

type Payment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BookingID *uint    `gorm:"index" json:"bookingId,omitempty"`
	Booking   *Booking `json:"-"`
	UserID    uint     `gorm:"index;not null" json:"userId"`

	Provider  string `gorm:"size:16;not null" json:"provider"`
	Reference string `gorm:"uniqueIndex;not null" json:"reference"`
	// major currency units; gateways convert as they need
	Amount   int64  `json:"amount"`
	Currency string `gorm:"size:8;not null;default:NGN" json:"currency"`
	Status   string `gorm:"size:16;not null;default:pending" json:"status"`

	PaidAt          *time.Time     `json:"paidAt,omitempty"`
	GatewayResponse datatypes.JSON `json:"gatewayResponse,omitempty"`
}
