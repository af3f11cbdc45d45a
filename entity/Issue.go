package entity

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	IssuePriorityLow      = "low"
	IssuePriorityMedium   = "medium"
	IssuePriorityHigh     = "high"
	IssuePriorityCritical = "critical"

	IssueCategoryTechnical      = "technical"
	IssueCategoryBilling        = "billing"
	IssueCategoryAccount        = "account"
	IssueCategoryGeneral        = "general"
	IssueCategoryBug            = "bug"
	IssueCategoryFeatureRequest = "feature-request"

	IssueStatusOpen       = "open"
	IssueStatusInProgress = "in-progress"
	IssueStatusResolved   = "resolved"
	IssueStatusClosed     = "closed"
)

// Issue is a support ticket raised by any marketplace user.
// Indexes: (status, priority) for the admin queue, (reporter, created_at) for "my issues".
type Issue struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"index:idx_issue_reporter_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"size:100;not null" json:"title" validate:"required,max=100"`
	Description string `gorm:"size:1000;not null" json:"description" validate:"required,max=1000"`
	Priority    string `gorm:"size:16;not null;default:medium;index:idx_issue_status_priority,priority:2" json:"priority" validate:"oneof=low medium high critical"`
	Category    string `gorm:"size:32;not null;default:general" json:"category" validate:"oneof=technical billing account general bug feature-request"`
	Status      string `gorm:"size:16;not null;default:open;index:idx_issue_status_priority,priority:1" json:"status" validate:"oneof=open in-progress resolved closed"`
	File        string `json:"file,omitempty"`

	ReporterID uint  `gorm:"not null;index:idx_issue_reporter_created,priority:1" json:"reporter" validate:"required"`
	Reporter   *User `gorm:"foreignKey:ReporterID" json:"reporterUser,omitempty" validate:"-"`

	AssignedToID *uint `json:"assignedTo,omitempty"`
	AssignedTo   *User `gorm:"foreignKey:AssignedToID" json:"assignedToUser,omitempty" validate:"-"`

	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

func (i *Issue) ApplyDefaults() {
	i.Title = strings.TrimSpace(i.Title)
	i.Description = strings.TrimSpace(i.Description)
	if i.Priority == "" {
		i.Priority = IssuePriorityMedium
	}
	if i.Category == "" {
		i.Category = IssueCategoryGeneral
	}
	if i.Status == "" {
		i.Status = IssueStatusOpen
	}
}

func (i *Issue) Validate() error {
	return validateModel("issue", i)
}

// SetStatus moves the issue and keeps ResolvedAt in step with it.
func (i *Issue) SetStatus(status string, now time.Time) {
	i.Status = status
	switch status {
	case IssueStatusResolved:
		if i.ResolvedAt == nil {
			i.ResolvedAt = &now
		}
	case IssueStatusOpen, IssueStatusInProgress:
		i.ResolvedAt = nil
	}
}

func (i *Issue) BeforeCreate(tx *gorm.DB) error {
	i.ApplyDefaults()
	return i.Validate()
}
