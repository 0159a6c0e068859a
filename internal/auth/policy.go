package auth

import (
	"sertifikasi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Actor adalah user yang sedang login.
type Actor struct {
	ID   uint
	Name string
	Role models.UserRole
}

func CurrentActor(c *fiber.Ctx) (Actor, error) {
	id, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Informasi user tidak tersedia")
	}
	role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	if !ok {
		return Actor{}, fiber.NewError(fiber.StatusForbidden, "Role user tidak tersedia")
	}
	name, _ := c.Locals(CtxUserNameKey).(string)
	return Actor{ID: id, Name: name, Role: role}, nil
}

// Policy mengumpulkan semua cek hak akses di satu tempat.
type Policy struct {
	Actor Actor
}

func PolicyFor(c *fiber.Ctx) (Policy, error) {
	a, err := CurrentActor(c)
	if err != nil {
		return Policy{}, err
	}
	return Policy{Actor: a}, nil
}

func (p Policy) IsAdmin() bool {
	return p.Actor.Role.IsAdmin()
}

func (p Policy) CanViewAll() bool {
	return p.Actor.Role.CanViewAll()
}

func (p Policy) CanManageUsers() bool {
	return p.IsAdmin()
}

func (p Policy) CanManageReferenceData() bool {
	return p.IsAdmin()
}

// CanManageRole: akun Super admin hanya boleh diurus oleh Super admin.
func (p Policy) CanManageRole(target models.UserRole) bool {
	if !p.CanManageUsers() {
		return false
	}
	if target == models.RoleSuperAdmin {
		return p.Actor.Role == models.RoleSuperAdmin
	}
	return true
}

// CanAccessOwned untuk data yang punya submitted_by_id.
func (p Policy) CanAccessOwned(ownerID uint) bool {
	return p.CanViewAll() || p.Actor.ID == ownerID
}

// AuthorizeOwned mengembalikan 403 bila user tidak boleh menyentuh data milik ownerID.
func (p Policy) AuthorizeOwned(ownerID uint) error {
	if !p.CanAccessOwned(ownerID) {
		return fiber.NewError(fiber.StatusForbidden, "Anda tidak punya akses ke data ini")
	}
	return nil
}

// ScopeOwned membatasi query ke data milik user sendiri kecuali role boleh melihat semua.
func (p Policy) ScopeOwned(q *gorm.DB, column string) *gorm.DB {
	if p.CanViewAll() {
		return q
	}
	return q.Where(column+" = ?", p.Actor.ID)
}
