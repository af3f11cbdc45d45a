package entity

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Service is an entry of the catalogue artisans offer.
type Service struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Description string `gorm:"size:500" json:"description" validate:"max=500"`
}

func (s *Service) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
	return validateModel("service", s)
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	return s.Validate()
}
