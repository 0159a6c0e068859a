package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type BiayaCategory string

const (
	CategoryKualifikasi  BiayaCategory = "kualifikasi"
	CategoryBiayaSetor   BiayaCategory = "biaya_setor"
	CategoryBiayaLainnya BiayaCategory = "biaya_lainnya"
)

func (c BiayaCategory) Valid() bool {
	return c == CategoryKualifikasi || c == CategoryBiayaSetor || c == CategoryBiayaLainnya
}

type SbuType struct {
	ID         uint           `gorm:"primaryKey"`
	Slug       string         `gorm:"size:100;uniqueIndex;not null"`
	Name       string         `gorm:"size:150;not null"`
	MenuConfig datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Asosiasi struct {
	ID          uint           `gorm:"primaryKey"`
	SbuTypeID   uint           `gorm:"index;not null"`
	SbuType     SbuType        `gorm:"constraint:OnDelete:CASCADE"`
	Name        string         `gorm:"size:150;not null"`
	Klasifikasi pq.StringArray `gorm:"type:text[]"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Asosiasi) TableName() string { return "asosiasi" }

type Klasifikasi struct {
	ID             uint           `gorm:"primaryKey"`
	SbuTypeID      uint           `gorm:"index;not null"`
	SbuType        SbuType        `gorm:"constraint:OnDelete:CASCADE"`
	AsosiasiID     *uint          `gorm:"index"`
	Asosiasi       *Asosiasi      `gorm:"constraint:OnDelete:SET NULL"`
	Name           string         `gorm:"size:255;not null"`
	SubKlasifikasi pq.StringArray `gorm:"type:text[]"`
	Kualifikasi    pq.StringArray `gorm:"type:text[]"`
	SubBidang      pq.StringArray `gorm:"type:text[]"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Klasifikasi) TableName() string { return "klasifikasi" }

type BiayaItem struct {
	ID         uint          `gorm:"primaryKey"`
	SbuTypeID  uint          `gorm:"index:idx_biaya_scope;not null"`
	SbuType    SbuType       `gorm:"constraint:OnDelete:CASCADE"`
	AsosiasiID *uint         `gorm:"index"`
	Asosiasi   *Asosiasi     `gorm:"constraint:OnDelete:CASCADE"`
	Category   BiayaCategory `gorm:"size:20;index:idx_biaya_scope;not null"`
	Name       string        `gorm:"size:255;not null"`
	Kode       *string       `gorm:"size:50"`
	Biaya      int64         `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
