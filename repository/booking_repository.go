package repository

import (
	"time"

	"marketplace/entity"

	"gorm.io/gorm"
)

type BookingRepository struct {
	DB *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

func (r *BookingRepository) Create(b *entity.Booking) error {
	return r.DB.Create(b).Error
}

func (r *BookingRepository) FindByID(id uint) (*entity.Booking, error) {
	var b entity.Booking
	if err := r.DB.
		Preload("Customer").
		Preload("Artisan").
		Preload("Service").
		First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ListForUser returns bookings the user takes part in, as customer or artisan.
func (r *BookingRepository) ListForUser(userID uint, status string) ([]entity.Booking, error) {
	var out []entity.Booking
	q := r.DB.Preload("Service").
		Where("customer_id = ? OR artisan_id = ?", userID, userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("scheduled_at DESC").Find(&out).Error
	return out, err
}

// UpdateStatusGuard moves a booking from one status to another only if it is
// still in from. Zero rows affected means a conflicting change won.
func (r *BookingRepository) UpdateStatusGuard(tx *gorm.DB, bookingID uint, from, to string) (int64, error) {
	if tx == nil {
		tx = r.DB
	}
	res := tx.Model(&entity.Booking{}).
		Where("id = ? AND status = ?", bookingID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *BookingRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Booking{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}
