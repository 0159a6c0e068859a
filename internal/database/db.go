package database

import (
	"log"
	"time"

	"sertifikasi-backend/internal/config"
	"sertifikasi-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	db, err := Open(cfg.DatabaseDSN, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("Tidak bisa konek ke database: %v", err)
	}
	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate gagal: %v", err)
	}

	if err := SeedSbuTypes(DB); err != nil {
		log.Fatalf("Seed sbu_types gagal: %v", err)
	}
	if err := SeedSuperAdmin(DB, cfg.SeedAdminUsername, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		log.Fatalf("Seed super admin gagal: %v", err)
	}

	log.Println("Koneksi database berhasil. Migration selesai.")
}

// Open membuka koneksi postgres dan mengatur pool.
func Open(dsn, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AccessToken{},
		&models.SbuType{},
		&models.Certificate{},
		&models.Asosiasi{},
		&models.Klasifikasi{},
		&models.BiayaItem{},
		&models.MarketingName{},
		&models.Submission{},
		&models.Transaction{},
		&models.FeeP3sm{},
		&models.AuditLog{},
	)
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
