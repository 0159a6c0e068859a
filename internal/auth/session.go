package auth

import (
	"time"

	"sertifikasi-backend/internal/config"
	"sertifikasi-backend/internal/models"

	"gorm.io/gorm"
)

// IssueToken membuat token dan baris sesinya.
func IssueToken(db *gorm.DB, cfg *config.Config, user *models.User) (string, time.Time, error) {
	token, tokenID, expiresAt, err := GenerateToken(cfg.JWTSecret, user, cfg.TokenTTL)
	if err != nil {
		return "", time.Time{}, err
	}

	session := models.AccessToken{
		UserID:    user.ID,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}
	if err := db.Create(&session).Error; err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func findActiveSession(db *gorm.DB, tokenID string) (*models.AccessToken, error) {
	var session models.AccessToken
	err := db.Where("token_id = ? AND expires_at > ?", tokenID, time.Now()).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func touchSession(db *gorm.DB, id uint) {
	now := time.Now()
	db.Model(&models.AccessToken{}).Where("id = ?", id).Update("last_used_at", now)
}

// RevokeToken menghapus sesi; token yang sama langsung ditolak middleware.
func RevokeToken(db *gorm.DB, tokenID string) error {
	return db.Where("token_id = ?", tokenID).Delete(&models.AccessToken{}).Error
}

func RevokeUserTokens(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&models.AccessToken{}).Error
}

func purgeExpired(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ? AND expires_at <= ?", userID, time.Now()).Delete(&models.AccessToken{}).Error
}
