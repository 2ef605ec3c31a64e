package bootstrap

import (
	"log"
	"os"

	"github.com/tekions/clubhub-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.VerificationToken{},
		&model.Address{},
		&model.Club{},
		&model.ClubMember{},
		&model.MembershipRequest{},
		&model.Event{},
		&model.Announcement{},
		&model.Notification{},
		&model.PointLog{},
		&model.UserStats{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: "admin", Description: "Super administrator"},
		{Name: "faculty", Description: "Faculty advisor"},
		{Name: "student", Description: "Student"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return err
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@clubhub.local"
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Name:         "admin",
		Email:        email,
		PasswordHash: string(hashedPasswordBytes),
		RoleID:       &adminRole.ID,
		IsVerified:   true,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user %s", email)
	return nil
}
