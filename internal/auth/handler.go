package auth

import (
	"strings"
	"time"

	"sertifikasi-backend/internal/config"
	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

type UserProfile struct {
	ID         uint            `json:"id"`
	FullName   string          `json:"fullName"`
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	Role       models.UserRole `json:"role"`
	IsAdmin    bool            `json:"isAdmin"`
	CanViewAll bool            `json:"canViewAll"`
	CreatedAt  string          `json:"createdAt"`
}

func ProfileOf(u models.User) UserProfile {
	return UserProfile{
		ID:         u.ID,
		FullName:   u.FullName,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsAdmin:    u.Role.IsAdmin(),
		CanViewAll: u.Role.CanViewAll(),
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}

// POST /api/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}

		login := strings.TrimSpace(body.Username)

		var user models.User
		err := database.DB.
			Where("username = ? OR email = ?", login, strings.ToLower(login)).
			First(&user).Error
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Username atau password salah")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Username atau password salah")
		}

		_ = purgeExpired(database.DB, user.ID)

		token, expiresAt, err := IssueToken(database.DB, cfg, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token tidak bisa dibuat")
		}

		return response.OK(c, fiber.Map{
			"token":      token,
			"token_type": "Bearer",
			"expires_at": expiresAt.Format(time.RFC3339),
			"user":       ProfileOf(user),
		})
	}
}

// POST /api/logout
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenID, ok := c.Locals(CtxTokenIDKey).(string)
		if !ok || tokenID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Sesi tidak ditemukan")
		}
		if err := RevokeToken(database.DB, tokenID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Logout gagal")
		}
		return response.Message(c, "Logout berhasil")
	}
}

// GET /api/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := CurrentActor(c)
		if err != nil {
			return err
		}
		var user models.User
		if err := database.DB.First(&user, actor.ID).Error; err != nil {
			return response.NotFound(err, "User tidak ditemukan")
		}
		return response.OK(c, ProfileOf(user))
	}
}
