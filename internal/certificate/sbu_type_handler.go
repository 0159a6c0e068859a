package certificate

import (
	"regexp"
	"strings"

	"sertifikasi-backend/internal/audit"
	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/refdata"
	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type CreateSbuTypeRequest struct {
	Slug       string              `json:"slug" validate:"required,notblank,max=100"`
	Name       string              `json:"name" validate:"required,notblank,max=150"`
	MenuConfig *refdata.MenuConfig `json:"menuConfig"`
}

type UpdateSbuTypeRequest struct {
	Name       *string             `json:"name" validate:"omitempty,notblank,max=150"`
	MenuConfig *refdata.MenuConfig `json:"menuConfig"`
}

type SbuTypeResponse struct {
	ID             uint                `json:"id"`
	Slug           string              `json:"slug"`
	Name           string              `json:"name"`
	MenuConfig     *refdata.MenuConfig `json:"menuConfig"`
	Legacy         bool                `json:"legacy"`
	AsosiasiScoped bool                `json:"asosiasiScoped"`
	ItemKeys       []string            `json:"itemKeys"`
}

func toSbuTypeResponse(t models.SbuType) SbuTypeResponse {
	menu, _ := refdata.ParseMenuConfig(t.MenuConfig)
	return SbuTypeResponse{
		ID:             t.ID,
		Slug:           t.Slug,
		Name:           t.Name,
		MenuConfig:     menu,
		Legacy:         refdata.IsLegacy(t.Slug),
		AsosiasiScoped: refdata.IsAsosiasiScoped(t.Slug),
		ItemKeys:       refdata.ItemKeys(t.Slug),
	}
}

func validateMenu(m *refdata.MenuConfig) error {
	if m == nil {
		return nil
	}
	return response.Validate(m)
}

func loadSbuType(c *fiber.Ctx) (models.SbuType, error) {
	var t models.SbuType
	if err := database.DB.Where("slug = ?", c.Params("slug")).First(&t).Error; err != nil {
		return t, response.NotFound(err, "Tipe sertifikat tidak ditemukan")
	}
	return t, nil
}

// GET /api/sbu-types
func ListSbuTypesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.SbuType
		if err := database.DB.Order("id ASC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tipe sertifikat tidak bisa dimuat")
		}
		res := make([]SbuTypeResponse, 0, len(list))
		for _, t := range list {
			res = append(res, toSbuTypeResponse(t))
		}
		return response.OK(c, res)
	}
}

// POST /api/sbu-types (admin)
func CreateSbuTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSbuTypeRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}
		body.Slug = strings.ToLower(strings.TrimSpace(body.Slug))
		if !slugPattern.MatchString(body.Slug) {
			return response.NewValidationError("slug", "slug hanya boleh huruf kecil, angka dan tanda minus")
		}
		if err := validateMenu(body.MenuConfig); err != nil {
			return err
		}

		t := models.SbuType{
			Slug: body.Slug,
			Name: strings.TrimSpace(body.Name),
		}
		if body.MenuConfig != nil {
			t.MenuConfig = body.MenuConfig.JSON()
		}
		if err := database.DB.Create(&t).Error; err != nil {
			return response.FromDBError(err)
		}

		res := toSbuTypeResponse(t)
		audit.Record(c, "sbu_type", t.ID, models.AuditActionCreate, "Tipe sertifikat dibuat: "+t.Slug, nil, res)
		return response.Created(c, res)
	}
}

// PUT /api/sbu-types/:slug (admin)
func UpdateSbuTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := loadSbuType(c)
		if err != nil {
			return err
		}
		var body UpdateSbuTypeRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}
		if err := validateMenu(body.MenuConfig); err != nil {
			return err
		}

		before := toSbuTypeResponse(t)
		if body.Name != nil {
			t.Name = strings.TrimSpace(*body.Name)
		}
		if body.MenuConfig != nil {
			t.MenuConfig = body.MenuConfig.JSON()
		}
		if err := database.DB.Save(&t).Error; err != nil {
			return response.FromDBError(err)
		}

		after := toSbuTypeResponse(t)
		audit.Record(c, "sbu_type", t.ID, models.AuditActionUpdate, "Tipe sertifikat diubah: "+t.Slug, before, after)
		return response.OK(c, after)
	}
}

// DELETE /api/sbu-types/:slug (admin)
func DeleteSbuTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := loadSbuType(c)
		if err != nil {
			return err
		}
		if refdata.IsLegacy(t.Slug) {
			return response.Unprocessable("Tipe sertifikat bawaan tidak bisa dihapus")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("sbu_type_id = ?", t.ID).Delete(&models.BiayaItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("sbu_type_id = ?", t.ID).Delete(&models.Klasifikasi{}).Error; err != nil {
				return err
			}
			if err := tx.Where("sbu_type_id = ?", t.ID).Delete(&models.Asosiasi{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Certificate{}).Where("sbu_slug = ?", t.Slug).Update("sbu_slug", nil).Error; err != nil {
				return err
			}
			return tx.Delete(&t).Error
		})
		if err != nil {
			return response.FromDBError(err)
		}

		audit.Record(c, "sbu_type", t.ID, models.AuditActionDelete, "Tipe sertifikat dihapus: "+t.Slug, toSbuTypeResponse(t), nil)
		return response.Message(c, "Tipe sertifikat dihapus")
	}
}
