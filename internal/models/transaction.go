package models

import "time"

type TransactionType string

const (
	TransactionPengeluaran TransactionType = "pengeluaran" // uang keluar
	TransactionTabungan    TransactionType = "tabungan"
	TransactionKas         TransactionType = "kas"
)

func (t TransactionType) Valid() bool {
	return t == TransactionPengeluaran || t == TransactionTabungan || t == TransactionKas
}

type Transaction struct {
	ID            uint            `gorm:"primaryKey"`
	Date          time.Time       `gorm:"type:date;index;not null"`
	Name          string          `gorm:"size:255;not null"`
	Biaya         int64           `gorm:"not null"`
	Type          TransactionType `gorm:"size:20;index;not null"`
	SubmittedByID uint            `gorm:"index;not null"`
	SubmittedBy   User
	Bukti         *string `gorm:"size:255"` // nama file bukti di UPLOAD_PATH
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
