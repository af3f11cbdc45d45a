package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint           `gorm:"index;not null" json:"userId"`
	Title  string         `json:"title"`
	Body   string         `json:"body"`
	Data   datatypes.JSON `json:"data,omitempty"`
	Read   bool           `gorm:"column:is_read;not null;default:false" json:"read"`
}
