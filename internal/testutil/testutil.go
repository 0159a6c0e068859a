// Package testutil berisi helper untuk test integrasi yang butuh Postgres.
// Test dilewati bila TEST_DATABASE_DSN tidak diset.
package testutil

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"sertifikasi-backend/internal/config"
	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const Password = "rahasia123"

var tables = []string{
	"audit_logs", "access_tokens", "submissions", "transactions", "fee_p3sm",
	"marketing_names", "biaya_items", "klasifikasi", "asosiasi", "certificates",
	"sbu_types", "users",
}

var userSeq atomic.Int64

// OpenDB membuka database test yang bersih, lalu memasang koneksinya ke database.DB.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN tidak diset, test integrasi dilewati")
	}

	db, err := database.Open(dsn, "silent")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	for _, table := range tables {
		require.NoError(t, db.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error)
	}
	require.NoError(t, database.SeedSbuTypes(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Config mengembalikan konfigurasi tetap untuk test tanpa membaca environment.
func Config(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:      "test-secret-yang-panjangnya-lebih-dari-32",
		TokenTTL:       time.Hour,
		UploadPath:     t.TempDir(),
		LoginRateLimit: 100,
		CORSOrigins:    "http://localhost:5173",
	}
}

// CreateUser membuat user dengan password Password.
func CreateUser(t *testing.T, db *gorm.DB, role models.UserRole) models.User {
	t.Helper()
	n := userSeq.Add(1)
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	u := models.User{
		FullName:     fmt.Sprintf("User %d", n),
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreateCertificate membuat sertifikat sederhana tanpa tipe SBU.
func CreateCertificate(t *testing.T, db *gorm.DB, name string) models.Certificate {
	t.Helper()
	c := models.Certificate{Name: name}
	require.NoError(t, db.Create(&c).Error)
	return c
}
