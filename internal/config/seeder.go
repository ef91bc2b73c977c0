package config

import (
	"errors"
	"log"

	"eventaro/internal/adapters/persistence/models"
	"eventaro/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedAdminUser creates the bootstrap administrator account when
// ADMIN_EMAIL/ADMIN_PASSWORD are configured and the account does not exist yet.
func SeedAdminUser(db *gorm.DB, cfg *Config) error {
	if cfg.AdminSeed.Email == "" || cfg.AdminSeed.Password == "" {
		log.Println("ℹ️ Admin seed skipped (ADMIN_EMAIL/ADMIN_PASSWORD not set)")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", cfg.AdminSeed.Email).First(&existing).Error
	if err == nil {
		log.Printf("ℹ️ Admin account already exists: %s", cfg.AdminSeed.Email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := password.Hash(cfg.AdminSeed.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		FullName: cfg.AdminSeed.FullName,
		Email:    cfg.AdminSeed.Email,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin account seeded: %s", admin.Email)
	return nil
}
