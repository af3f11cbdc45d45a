package repository

import (
	"marketplace/entity"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	DB *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{DB: db}
}

func (r *ServiceRepository) Create(s *entity.Service) error {
	return r.DB.Create(s).Error
}

func (r *ServiceRepository) Save(s *entity.Service) error {
	return r.DB.Save(s).Error
}

func (r *ServiceRepository) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&entity.Service{}, id)
	return res.RowsAffected, res.Error
}

func (r *ServiceRepository) FindByID(id uint) (*entity.Service, error) {
	var s entity.Service
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) CountByName(name string, excludeID uint) (int64, error) {
	var count int64
	// soft-deleted rows still hold the unique name
	q := r.DB.Unscoped().Model(&entity.Service{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count, err
}

// FindAll lists services by name; q filters by a case-insensitive substring.
func (r *ServiceRepository) FindAll(q string) ([]entity.Service, error) {
	var out []entity.Service
	db := r.DB.Order("name ASC")
	if q != "" {
		db = db.Where("LOWER(name) LIKE LOWER(?)", "%"+q+"%")
	}
	err := db.Find(&out).Error
	return out, err
}
