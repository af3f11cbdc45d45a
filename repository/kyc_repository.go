package repository

import (
	"errors"
	"time"

	"marketplace/entity"

	"gorm.io/gorm"
)

type KYCRepository struct {
	DB *gorm.DB
}

func NewKYCRepository(db *gorm.DB) *KYCRepository {
	return &KYCRepository{DB: db}
}

var ErrPendingApplication = errors.New("a submission is already under review")

// CreateApplication stores the submission and flips the user to pending in
// one transaction. A user holds at most one pending application; the partial
// unique index on KYCApplication backs the count when two submits race.
func (r *KYCRepository) CreateApplication(app *entity.KYCApplication) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var pending int64
		if err := tx.Model(&entity.KYCApplication{}).
			Where("user_id = ? AND status = ?", app.UserID, entity.KYCStatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return ErrPendingApplication
		}
		if err := tx.Create(app).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrPendingApplication
			}
			return err
		}
		return tx.Model(&entity.User{}).Where("id = ?", app.UserID).
			Update("kyc_status", entity.KYCStatusPending).Error
	})
}

func (r *KYCRepository) FindByID(id uint) (*entity.KYCApplication, error) {
	var app entity.KYCApplication
	if err := r.DB.Preload("User").First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *KYCRepository) FindByStatus(status string) ([]entity.KYCApplication, error) {
	var apps []entity.KYCApplication
	err := r.DB.
		Preload("User").
		Where("status = ?", status).
		Order("id DESC").
		Find(&apps).Error
	return apps, err
}

func (r *KYCRepository) FindLatestByUser(userID uint) (*entity.KYCApplication, error) {
	var app entity.KYCApplication
	if err := r.DB.Where("user_id = ?", userID).Order("id DESC").First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *KYCRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.KYCApplication{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Review sets the final status on a still-pending application and mirrors it
// on the user. Returns false when someone else reviewed it first.
func (r *KYCRepository) Review(app *entity.KYCApplication, status string, reviewerID uint, reason *string, now time.Time) (bool, error) {
	var ok bool
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.KYCApplication{}).
			Where("id = ? AND status = ?", app.ID, entity.KYCStatusPending).
			Updates(map[string]any{
				"status":        status,
				"reviewer_id":   reviewerID,
				"reviewed_at":   now,
				"reject_reason": reason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		ok = true
		return tx.Model(&entity.User{}).Where("id = ?", app.UserID).Update("kyc_status", status).Error
	})
	if err != nil || !ok {
		return ok, err
	}
	app.Status = status
	app.ReviewerID = &reviewerID
	app.ReviewedAt = &now
	app.RejectReason = reason
	return true, nil
}
