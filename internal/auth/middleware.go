package auth

import (
	"strings"

	"sertifikasi-backend/internal/config"
	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
	CtxUserNameKey = "user_name"
	CtxTokenIDKey  = "token_id"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Header Authorization tidak ada")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Format Authorization harus 'Bearer <token>'")
		}

		claims, err := ParseToken(cfg.JWTSecret, strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token tidak valid atau kedaluwarsa")
		}

		session, err := findActiveSession(database.DB, claims.ID)
		if err != nil || session.UserID != claims.UserID {
			return fiber.NewError(fiber.StatusUnauthorized, "Sesi sudah berakhir, silakan login lagi")
		}

		// role diambil dari DB supaya perubahan role langsung berlaku
		var user models.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "User tidak ditemukan")
		}

		touchSession(database.DB, session.ID)

		c.Locals(CtxUserIDKey, user.ID)
		c.Locals(CtxUserRoleKey, user.Role)
		c.Locals(CtxUserNameKey, user.FullName)
		c.Locals(CtxTokenIDKey, claims.ID)

		return c.Next()
	}
}

// RequireAdmin: hanya Super admin dan admin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := PolicyFor(c)
		if err != nil {
			return err
		}
		if !p.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "Anda tidak punya akses untuk aksi ini")
		}
		return c.Next()
	}
}
