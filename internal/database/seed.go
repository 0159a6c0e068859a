package database

import (
	"log"
	"strings"

	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/refdata"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSbuTypes memastikan enam tipe sertifikat lama selalu ada.
func SeedSbuTypes(db *gorm.DB) error {
	for _, row := range refdata.SeedRows() {
		var cnt int64
		if err := db.Model(&models.SbuType{}).Where("slug = ?", row.Slug).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			continue
		}
		r := row
		if err := db.Create(&r).Error; err != nil {
			return err
		}
		log.Printf("[SEED] sbu_type %s dibuat", r.Slug)
	}
	return nil
}

// SeedSuperAdmin membuat Super admin pertama bila belum ada dan kredensial diset.
func SeedSuperAdmin(db *gorm.DB, username, email, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	var cnt int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if email == "" {
		email = username + "@localhost"
	}

	user := models.User{
		FullName:     "Super Admin",
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         models.RoleSuperAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Printf("[SEED] super admin %s dibuat", user.Username)
	return nil
}
