package repository

import (
	"marketplace/entity"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Append(n *entity.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) ListForUser(userID uint, unreadOnly bool, limit int) ([]entity.Notification, error) {
	var out []entity.Notification
	q := r.DB.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Order("id DESC").Find(&out).Error
	return out, err
}

func (r *NotificationRepository) MarkRead(userID, id uint) (int64, error) {
	res := r.DB.Model(&entity.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
