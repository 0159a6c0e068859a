package marketing

import (
	"strings"

	"sertifikasi-backend/internal/audit"
	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/params"
	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
)

type MarketingNameRequest struct {
	Name string `json:"name" validate:"required,notblank,max=150"`
}

type MarketingNameResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func loadName(c *fiber.Ctx) (models.MarketingName, error) {
	var m models.MarketingName
	id, err := params.ID(c, "id")
	if err != nil {
		return m, err
	}
	if err := database.DB.First(&m, id).Error; err != nil {
		return m, response.NotFound(err, "Nama marketing tidak ditemukan")
	}
	return m, nil
}

// GET /api/marketing-names
func ListMarketingNamesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.MarketingName
		if err := database.DB.Order("name ASC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Nama marketing tidak bisa dimuat")
		}
		res := make([]MarketingNameResponse, 0, len(list))
		for _, m := range list {
			res = append(res, MarketingNameResponse{ID: m.ID, Name: m.Name})
		}
		return response.OK(c, res)
	}
}

// POST /api/marketing-names (admin)
func CreateMarketingNameHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MarketingNameRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}
		m := models.MarketingName{Name: strings.TrimSpace(body.Name)}
		if m.Name == "" {
			return response.NewValidationError("name", "required")
		}
		if err := database.DB.Create(&m).Error; err != nil {
			return response.FromDBError(err)
		}

		res := MarketingNameResponse{ID: m.ID, Name: m.Name}
		audit.Record(c, "marketing_name", m.ID, models.AuditActionCreate, "Nama marketing dibuat: "+m.Name, nil, res)
		return response.Created(c, res)
	}
}

// PUT /api/marketing-names/:id (admin)
func UpdateMarketingNameHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := loadName(c)
		if err != nil {
			return err
		}
		var body MarketingNameRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}

		before := MarketingNameResponse{ID: m.ID, Name: m.Name}
		m.Name = strings.TrimSpace(body.Name)
		if err := database.DB.Save(&m).Error; err != nil {
			return response.FromDBError(err)
		}

		after := MarketingNameResponse{ID: m.ID, Name: m.Name}
		audit.Record(c, "marketing_name", m.ID, models.AuditActionUpdate, "Nama marketing diubah: "+m.Name, before, after)
		return response.OK(c, after)
	}
}

// DELETE /api/marketing-names/:id (admin)
func DeleteMarketingNameHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := loadName(c)
		if err != nil {
			return err
		}
		if err := database.DB.Delete(&m).Error; err != nil {
			return response.FromDBError(err)
		}
		audit.Record(c, "marketing_name", m.ID, models.AuditActionDelete, "Nama marketing dihapus: "+m.Name, MarketingNameResponse{ID: m.ID, Name: m.Name}, nil)
		return response.Message(c, "Nama marketing dihapus")
	}
}
