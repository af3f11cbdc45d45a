package repository

import (
	"time"

	"marketplace/entity"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(p *entity.Payment) error {
	return r.DB.Create(p).Error
}

func (r *PaymentRepository) GetByReference(reference string) (*entity.Payment, error) {
	var p entity.Payment
	if err := r.DB.Where("reference = ?", reference).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByBookingID(bookingID uint) (*entity.Payment, error) {
	var p entity.Payment
	if err := r.DB.Where("booking_id = ?", bookingID).Order("id DESC").First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStatus records the gateway answer; paidAt is only written when set.
func (r *PaymentRepository) UpdateStatus(paymentID uint, status string, paidAt *time.Time, response []byte) error {
	updates := map[string]any{
		"status": status,
	}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}
	if len(response) > 0 {
		updates["gateway_response"] = datatypes.JSON(response)
	}
	return r.DB.Model(&entity.Payment{}).Where("id = ?", paymentID).Updates(updates).Error
}

func (r *PaymentRepository) SumSuccessful() (int64, error) {
	var total int64
	err := r.DB.Model(&entity.Payment{}).
		Where("status = ?", entity.PaymentStatusSuccess).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
