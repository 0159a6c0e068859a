package models

import "time"

// FeeP3sm: biaya bulanan P3SM, ikut dihitung di total keuntungan dashboard.
type FeeP3sm struct {
	ID        uint  `gorm:"primaryKey"`
	Biaya     int64 `gorm:"not null"`
	Bulan     int   `gorm:"uniqueIndex:idx_fee_p3sm_periode;not null"` // 1-12
	Tahun     int   `gorm:"uniqueIndex:idx_fee_p3sm_periode;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FeeP3sm) TableName() string { return "fee_p3sm" }
