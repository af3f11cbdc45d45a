package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusPending    = "pending"
	BookingStatusAccepted   = "accepted"
	BookingStatusInProgress = "in-progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
	BookingStatusRejected   = "rejected"
)

type Booking struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CustomerID uint  `gorm:"index;not null" json:"customerId"`
	Customer   *User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ArtisanID  uint  `gorm:"index;not null" json:"artisanId"`
	Artisan    *User `gorm:"foreignKey:ArtisanID" json:"artisan,omitempty"`

	ServiceID uint     `gorm:"not null" json:"serviceId"`
	Service   *Service `json:"service,omitempty"`

	ScheduledAt time.Time `json:"scheduledAt"`
	Address     string    `json:"address"`
	Notes       string    `json:"notes,omitempty"`
	// major currency units (NGN)
	Amount int64  `json:"amount"`
	Status string `gorm:"size:16;not null;default:pending;index" json:"status"`

	DistanceMeters int    `json:"distanceMeters,omitempty"`
	DistanceText   string `json:"distanceText,omitempty"`
	DurationText   string `json:"durationText,omitempty"`
}
