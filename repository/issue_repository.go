package repository

import (
	"time"

	"marketplace/entity"

	"gorm.io/gorm"
)

type IssueRepository struct {
	DB *gorm.DB
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{DB: db}
}

type IssueFilter struct {
	Status   string
	Priority string
	Category string
	Page     int
	Limit    int
}

func (r *IssueRepository) Create(issue *entity.Issue) error {
	return r.DB.Create(issue).Error
}

func (r *IssueRepository) Save(issue *entity.Issue) error {
	return r.DB.Save(issue).Error
}

func (r *IssueRepository) FindByID(id uint) (*entity.Issue, error) {
	var issue entity.Issue
	if err := r.DB.Preload("Reporter").Preload("AssignedTo").First(&issue, id).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *IssueRepository) FindByIDAndReporter(id, reporterID uint) (*entity.Issue, error) {
	var issue entity.Issue
	if err := r.DB.Preload("AssignedTo").
		Where("id = ? AND reporter_id = ?", id, reporterID).
		First(&issue).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *IssueRepository) FindAllByReporter(reporterID uint) ([]entity.Issue, error) {
	var issues []entity.Issue
	err := r.DB.Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&issues).Error
	return issues, err
}

// FindAll lists issues for the admin queue, newest first.
func (r *IssueRepository) FindAll(f IssueFilter) ([]entity.Issue, int64, error) {
	q := r.DB.Model(&entity.Issue{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var issues []entity.Issue
	err := q.Preload("Reporter").Preload("AssignedTo").
		Order("created_at DESC, id DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&issues).Error
	return issues, total, err
}

func (r *IssueRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Issue{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CloseResolvedBefore closes every issue resolved before cutoff and returns
// how many were closed.
func (r *IssueRepository) CloseResolvedBefore(cutoff time.Time) (int64, error) {
	res := r.DB.Model(&entity.Issue{}).
		Where("status = ? AND resolved_at IS NOT NULL AND resolved_at < ?", entity.IssueStatusResolved, cutoff).
		Update("status", entity.IssueStatusClosed)
	return res.RowsAffected, res.Error
}
