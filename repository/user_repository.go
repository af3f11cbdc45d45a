package repository

import (
	"time"

	"marketplace/entity"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CountByEmail(email string) (int64, error) {
	var count int64
	if err := r.DB.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) Create(user *entity.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Update(userID uint, updates map[string]any) error {
	return r.DB.Model(&entity.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := r.DB.Preload("Service").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByVerificationToken(token string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.Where("verification_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// MarkEmailVerified clears the token so a link works only once.
func (r *UserRepository) MarkEmailVerified(userID uint) error {
	return r.DB.Model(&entity.User{}).Where("id = ?", userID).Updates(map[string]any{
		"email_verified":          true,
		"verification_token":      "",
		"verification_expires_at": nil,
	}).Error
}

func (r *UserRepository) SetVerificationToken(userID uint, token string, expiresAt time.Time) error {
	return r.DB.Model(&entity.User{}).Where("id = ?", userID).Updates(map[string]any{
		"verification_token":      token,
		"verification_expires_at": expiresAt,
	}).Error
}

func (r *UserRepository) SetKYCStatus(tx *gorm.DB, userID uint, status string) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Model(&entity.User{}).Where("id = ?", userID).Update("kyc_status", status).Error
}

// ListArtisans returns artisans, optionally only those offering serviceID.
func (r *UserRepository) ListArtisans(serviceID uint) ([]entity.User, error) {
	var users []entity.User
	q := r.DB.Preload("Service").Where("role = ?", entity.RoleArtisan)
	if serviceID != 0 {
		q = q.Where("service_id = ?", serviceID)
	}
	err := q.Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) CountByRole(role string) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
