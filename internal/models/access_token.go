package models

import "time"

// AccessToken: satu baris per token login yang masih aktif.
// Token JWT hanya dianggap valid selama barisnya ada (logout = hapus baris).
type AccessToken struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index;not null"`
	User       User      `gorm:"constraint:OnDelete:CASCADE"`
	TokenID    string    `gorm:"size:36;uniqueIndex;not null"` // jti
	ExpiresAt  time.Time `gorm:"index;not null"`
	LastUsedAt *time.Time
	CreatedAt  time.Time
}
