package configs

import (
	"strings"

	"marketplace/entity"
	"marketplace/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin account from ADMIN_EMAIL/ADMIN_PASSWORD.
func SeedAdmin(db *gorm.DB, cfg *Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		logger.Default().Warn("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Default().Infof("admin already exists: %s", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{
		Email:         email,
		Password:      string(hash),
		FirstName:     "Admin",
		LastName:      "Seed",
		Role:          entity.RoleAdmin,
		EmailVerified: true,
		KYCStatus:     entity.KYCStatusVerified,
	}
	return db.Create(&admin).Error
}

var defaultServices = []entity.Service{
	{Name: "Plumbing", Description: "Pipe repairs, installations and leak fixes"},
	{Name: "Electrical", Description: "Wiring, fittings and electrical fault repairs"},
	{Name: "Carpentry", Description: "Furniture, doors and general woodwork"},
	{Name: "Cleaning", Description: "Home and office cleaning"},
	{Name: "Painting", Description: "Interior and exterior painting"},
}

// SeedServices makes sure the base service catalogue exists.
func SeedServices(db *gorm.DB) error {
	for _, s := range defaultServices {
		svc := s
		if err := db.Where(entity.Service{Name: svc.Name}).
			Attrs(entity.Service{Description: svc.Description}).
			FirstOrCreate(&svc).Error; err != nil {
			return err
		}
	}
	logger.Default().Info("service catalogue seeded")
	return nil
}
