package users

import (
	"fmt"
	"strings"

	"sertifikasi-backend/internal/audit"
	"sertifikasi-backend/internal/auth"
	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/params"
	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	FullName string          `json:"fullName" validate:"required,notblank,max=150"`
	Username string          `json:"username" validate:"required,notblank,min=3,max=100"`
	Email    string          `json:"email" validate:"required,email,max=150"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"required"`
}

type UpdateUserRequest struct {
	FullName *string          `json:"fullName" validate:"omitempty,notblank,max=150"`
	Username *string          `json:"username" validate:"omitempty,notblank,min=3,max=100"`
	Email    *string          `json:"email" validate:"omitempty,email,max=150"`
	Password *string          `json:"password" validate:"omitempty,min=6"`
	Role     *models.UserRole `json:"role"`
}

func validRole(role models.UserRole) error {
	if !role.Valid() {
		return response.NewValidationError("role", fmt.Sprintf("role harus salah satu dari %v", models.AllRoles))
	}
	return nil
}

func loadUser(c *fiber.Ctx) (models.User, error) {
	var user models.User
	id, err := params.ID(c, "id")
	if err != nil {
		return user, err
	}
	if err := database.DB.First(&user, id).Error; err != nil {
		return user, response.NotFound(err, "User tidak ditemukan")
	}
	return user, nil
}

// GET /api/users?role=&q=&page=&per_page=
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.User{})

		if role := c.Query("role"); role != "" {
			dbq = dbq.Where("role = ?", role)
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("LOWER(full_name) LIKE ? OR LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
		}

		var total int64
		if err := dbq.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return err
		}

		paging := response.ResolvePaging(c, 20, 100)
		var list []models.User
		if err := dbq.Order("full_name ASC").Offset(paging.Offset).Limit(paging.PerPage).Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User tidak bisa dimuat")
		}

		res := make([]auth.UserProfile, 0, len(list))
		for _, u := range list {
			res = append(res, auth.ProfileOf(u))
		}
		return response.Paginated(c, res, response.BuildPagination(total, paging))
	}
}

// GET /api/users/:id
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := loadUser(c)
		if err != nil {
			return err
		}
		return response.OK(c, auth.ProfileOf(user))
	}
}

// POST /api/users
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}
		if err := validRole(body.Role); err != nil {
			return err
		}

		policy, err := auth.PolicyFor(c)
		if err != nil {
			return err
		}
		if !policy.CanManageRole(body.Role) {
			return fiber.NewError(fiber.StatusForbidden, "Hanya Super admin yang boleh membuat Super admin")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password tidak bisa di-hash")
		}

		user := models.User{
			FullName:     strings.TrimSpace(body.FullName),
			Username:     strings.TrimSpace(body.Username),
			Email:        strings.ToLower(strings.TrimSpace(body.Email)),
			PasswordHash: string(hash),
			Role:         body.Role,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return response.FromDBError(err)
		}

		profile := auth.ProfileOf(user)
		audit.Record(c, "user", user.ID, models.AuditActionCreate, "User dibuat: "+user.Username, nil, profile)
		return response.Created(c, profile)
	}
}

// PUT /api/users/:id
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := loadUser(c)
		if err != nil {
			return err
		}

		var body UpdateUserRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}

		policy, err := auth.PolicyFor(c)
		if err != nil {
			return err
		}
		if !policy.CanManageRole(user.Role) {
			return fiber.NewError(fiber.StatusForbidden, "Hanya Super admin yang boleh mengubah Super admin")
		}

		before := auth.ProfileOf(user)
		updates := map[string]interface{}{}

		if body.FullName != nil {
			updates["full_name"] = strings.TrimSpace(*body.FullName)
		}
		if body.Username != nil {
			updates["username"] = strings.TrimSpace(*body.Username)
		}
		if body.Email != nil {
			updates["email"] = strings.ToLower(strings.TrimSpace(*body.Email))
		}
		if body.Role != nil {
			if err := validRole(*body.Role); err != nil {
				return err
			}
			if !policy.CanManageRole(*body.Role) {
				return fiber.NewError(fiber.StatusForbidden, "Hanya Super admin yang boleh memberi role Super admin")
			}
			updates["role"] = *body.Role
		}
		if body.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Password tidak bisa di-hash")
			}
			updates["password_hash"] = string(hash)
		}

		if len(updates) == 0 {
			return response.OK(c, before)
		}

		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			return response.FromDBError(err)
		}
		if err := database.DB.First(&user, user.ID).Error; err != nil {
			return err
		}

		after := auth.ProfileOf(user)
		audit.Record(c, "user", user.ID, models.AuditActionUpdate, "User diubah: "+user.Username, before, after)
		return response.OK(c, after)
	}
}

// DELETE /api/users/:id
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := loadUser(c)
		if err != nil {
			return err
		}

		policy, err := auth.PolicyFor(c)
		if err != nil {
			return err
		}
		if policy.Actor.ID == user.ID {
			return fiber.NewError(fiber.StatusForbidden, "Tidak bisa menghapus akun sendiri")
		}
		if !policy.CanManageRole(user.Role) {
			return fiber.NewError(fiber.StatusForbidden, "Hanya Super admin yang boleh menghapus Super admin")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := auth.RevokeUserTokens(tx, user.ID); err != nil {
				return err
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			return response.FromDBError(err)
		}

		audit.Record(c, "user", user.ID, models.AuditActionDelete, "User dihapus: "+user.Username, auth.ProfileOf(user), nil)
		return response.Message(c, "User dihapus")
	}
}
