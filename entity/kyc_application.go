package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	IdentityCheckSkipped = "skipped"
	IdentityCheckPassed  = "passed"
	IdentityCheckFailed  = "failed"
	IdentityCheckError   = "error"
)

// KYCApplication holds one document submission. Nothing is granted until an
// admin approves it.
type KYCApplication struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"index;not null;uniqueIndex:idx_kyc_user_pending,where:status = 'pending'" json:"userId"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	IDType   string `json:"idType"`
	IDNumber string `json:"idNumber"`

	IDProof      string `json:"idProof"`
	AddressProof string `json:"addressProof,omitempty"`
	Credentials  string `json:"credentials,omitempty"`

	// pending / verified / rejected
	Status string `gorm:"size:16;not null;default:pending;index" json:"status"`

	IdentityCheck    string         `gorm:"size:16" json:"identityCheck,omitempty"`
	IdentityResponse datatypes.JSON `json:"-"`

	ReviewerID   *uint      `json:"reviewerId,omitempty"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
	RejectReason *string    `json:"rejectReason,omitempty"`
}
