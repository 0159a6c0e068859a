package models

import (
	"time"

	"github.com/lib/pq"
)

type Certificate struct {
	ID       uint           `gorm:"primaryKey"`
	Name     string         `gorm:"size:150;not null"`
	SubMenus pq.StringArray `gorm:"type:text[]"`
	// SbuSlug diisi untuk sertifikat "advanced" yang punya data referensi.
	SbuSlug   *string `gorm:"size:100;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
