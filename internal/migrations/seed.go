package migrations

import (
	"errors"
	"log"

	"sparklewash/internal/models"
	"sparklewash/internal/repository"
	"sparklewash/internal/services"

	"gorm.io/gorm"
)

// Seed writes the default settings and a bootstrap admin user. It is
// idempotent: existing settings are left in place and the admin is only
// created when no user exists with that email.
func Seed(db *gorm.DB) error {
	log.Println("Seeding default data...")

	settingRepo := repository.NewSettingRepository(db)
	if err := seedSettings(settingRepo); err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	if err := seedAdmin(userRepo); err != nil {
		return err
	}

	log.Println("Seed complete")
	return nil
}

func seedSettings(settingRepo repository.SettingRepository) error {
	defaults := []models.Setting{
		{
			Key:         models.SettingGSTPercentage,
			Value:       "18.0",
			ValueType:   "decimal",
			Description: "GST percentage applied to order subtotals",
		},
		{
			Key:         models.SettingBookingBufferMinutes,
			Value:       "30",
			ValueType:   "integer",
			Description: "Travel buffer between an agent's bookings, in minutes",
		},
	}

	for i := range defaults {
		if _, err := settingRepo.Get(defaults[i].Key); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := settingRepo.Set(&defaults[i]); err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(userRepo repository.UserRepository) error {
	const adminEmail = "admin@sparklewash.local"

	if _, err := userRepo.GetByEmail(adminEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	userService := services.NewUserService(userRepo)
	admin := &models.User{
		Name:  "Administrator",
		Email: adminEmail,
		Role:  models.RoleAdmin,
	}
	// TODO: read the bootstrap password from the environment once the deploy
	// pipeline carries secrets.
	return userService.CreateUser(admin, "changeme123")
}
