package models

import "time"

type UserRole string

const (
	RoleSuperAdmin UserRole = "Super admin"
	RoleAdmin      UserRole = "admin"
	RoleManager    UserRole = "manager"
	RoleKaryawan   UserRole = "karyawan"
	RoleMarketing  UserRole = "marketing"
	RoleMitra      UserRole = "mitra"
)

var AllRoles = []UserRole{
	RoleSuperAdmin,
	RoleAdmin,
	RoleManager,
	RoleKaryawan,
	RoleMarketing,
	RoleMitra,
}

func (r UserRole) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// IsAdmin: Super admin dan admin.
func (r UserRole) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// CanViewAll: admin ditambah manager, boleh melihat data semua user.
func (r UserRole) CanViewAll() bool {
	return r.IsAdmin() || r == RoleManager
}

type User struct {
	ID           uint     `gorm:"primaryKey"`
	FullName     string   `gorm:"size:150;not null"`
	Username     string   `gorm:"size:100;uniqueIndex;not null"`
	Email        string   `gorm:"size:150;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
