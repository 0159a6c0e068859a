package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=sertifikasi port=5432 sslmode=disable"

type Config struct {
	HTTPPort       string
	DatabaseDSN    string
	DBLogLevel     string
	JWTSecret      string
	TokenTTL       time.Duration
	CORSOrigins    string
	UploadPath     string // bukti transaksi disimpan di sini
	LoginRateLimit int

	SeedAdminUsername string
	SeedAdminEmail    string
	SeedAdminPassword string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[WARN] .env tidak ditemukan, memakai environment sistem")
	}

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", defaultDSN),
		DBLogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenTTL:          time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		UploadPath:        getEnv("UPLOAD_PATH", "./uploads"),
		LoginRateLimit:    getEnvInt("LOGIN_RATE_LIMIT", 10),
		SeedAdminUsername: getEnv("SEED_ADMIN_USERNAME", ""),
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET belum diset")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET minimal 32 karakter")
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN memakai nilai default, set koneksi Postgres sendiri untuk production")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS memakai nilai default")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[WARN] %s tidak valid (%q), memakai %d", key, v, def)
		return def
	}
	return n
}
