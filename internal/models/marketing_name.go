package models

import "time"

type MarketingName struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:150;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
