package bootstrap

import (
	"log"

	"github.com/inkwell-labs/inkwell/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every aggregate.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Blog{},
		&model.Comment{},
		&model.Notification{},
	)
}

// SeedDevUser creates a local account for development so the write
// endpoints can be exercised without a signup flow.
func SeedDevUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "dev@inkwell.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Dev user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte("inkwell123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	devUser := model.User{
		Username:     "dev",
		Fullname:     "Dev Writer",
		Email:        "dev@inkwell.local",
		PasswordHash: string(hashedPasswordBytes),
		Bio:          "Local development account",
	}

	if err := db.Create(&devUser).Error; err != nil {
		return err
	}

	log.Println("Dev user seeded successfully")
	log.Println("   Email: dev@inkwell.local")
	log.Println("   Password: inkwell123")

	return nil
}
