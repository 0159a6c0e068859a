package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission: pengajuan sertifikat. Pilihan asosiasi/klasifikasi/kualifikasi/biaya
// disimpan sebagai snapshot JSON, bukan foreign key.
type Submission struct {
	ID            uint      `gorm:"primaryKey"`
	CompanyName   string    `gorm:"size:255;not null"`
	MarketingName string    `gorm:"size:150;not null;index"`
	Date          time.Time `gorm:"type:date;index;not null"`
	SubmittedByID uint      `gorm:"index;not null"`
	SubmittedBy   User
	CertificateID uint `gorm:"index;not null"`
	Certificate   Certificate

	Asosiasi       datatypes.JSON `gorm:"type:jsonb"`
	Klasifikasi    datatypes.JSON `gorm:"type:jsonb"`
	SubKlasifikasi datatypes.JSON `gorm:"type:jsonb"`
	Kualifikasi    datatypes.JSON `gorm:"type:jsonb"`
	BiayaLainnya   datatypes.JSON `gorm:"type:jsonb"`

	BiayaSetorKantor int64 `gorm:"not null;default:0"`
	Keuntungan       int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
