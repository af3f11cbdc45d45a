package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleArtisan  = "artisan"
	RoleAdmin    = "admin"

	KYCStatusNotSubmitted = "not_submitted"
	KYCStatusPending      = "pending"
	KYCStatusVerified     = "verified"
	KYCStatusRejected     = "rejected"
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Role        string `gorm:"not null;default:customer" json:"role"`

	EmailVerified         bool       `gorm:"not null;default:false" json:"emailVerified"`
	VerificationToken     string     `gorm:"index" json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`

	KYCStatus string `gorm:"not null;default:not_submitted" json:"kycStatus"`
	FCMToken  string `json:"-"`

	// artisans only
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	ServiceID *uint    `json:"serviceId,omitempty"`
	Service   *Service `json:"service,omitempty"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}
