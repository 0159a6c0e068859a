package fee

import (
	"fmt"
	"strconv"

	"sertifikasi-backend/internal/audit"
	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/params"
	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
)

type FeeRequest struct {
	Biaya int64 `json:"biaya" validate:"gte=0"`
	Bulan int   `json:"bulan" validate:"required,min=1,max=12"`
	Tahun int   `json:"tahun" validate:"required,min=2000,max=2100"`
}

type FeeResponse struct {
	ID    uint  `json:"id"`
	Biaya int64 `json:"biaya"`
	Bulan int   `json:"bulan"`
	Tahun int   `json:"tahun"`
}

func toResponse(f models.FeeP3sm) FeeResponse {
	return FeeResponse{ID: f.ID, Biaya: f.Biaya, Bulan: f.Bulan, Tahun: f.Tahun}
}

func periodLabel(f models.FeeP3sm) string {
	return fmt.Sprintf("%02d/%d", f.Bulan, f.Tahun)
}

// periodTaken: satu periode (bulan, tahun) hanya boleh punya satu fee.
func periodTaken(bulan, tahun int, exceptID uint) error {
	var cnt int64
	q := database.DB.Model(&models.FeeP3sm{}).Where("bulan = ? AND tahun = ?", bulan, tahun)
	if exceptID > 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return response.NewValidationError("bulan", "fee untuk periode ini sudah ada")
	}
	return nil
}

func loadFee(c *fiber.Ctx) (models.FeeP3sm, error) {
	var f models.FeeP3sm
	id, err := params.ID(c, "id")
	if err != nil {
		return f, err
	}
	if err := database.DB.First(&f, id).Error; err != nil {
		return f, response.NotFound(err, "Fee P3SM tidak ditemukan")
	}
	return f, nil
}

// GET /api/fee-p3sm?tahun=
func ListFeesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.FeeP3sm{})
		if v := c.Query("tahun"); v != "" {
			tahun, err := strconv.Atoi(v)
			if err != nil {
				return response.NewValidationError("tahun", "tahun tidak valid")
			}
			dbq = dbq.Where("tahun = ?", tahun)
		}

		var list []models.FeeP3sm
		if err := dbq.Order("tahun DESC, bulan DESC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fee P3SM tidak bisa dimuat")
		}
		res := make([]FeeResponse, 0, len(list))
		for _, f := range list {
			res = append(res, toResponse(f))
		}
		return response.OK(c, res)
	}
}

// POST /api/fee-p3sm (admin)
func CreateFeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body FeeRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}
		if err := periodTaken(body.Bulan, body.Tahun, 0); err != nil {
			return err
		}

		f := models.FeeP3sm{Biaya: body.Biaya, Bulan: body.Bulan, Tahun: body.Tahun}
		if err := database.DB.Create(&f).Error; err != nil {
			return response.FromDBError(err)
		}

		res := toResponse(f)
		audit.Record(c, "fee_p3sm", f.ID, models.AuditActionCreate, "Fee P3SM dibuat: "+periodLabel(f), nil, res)
		return response.Created(c, res)
	}
}

// PUT /api/fee-p3sm/:id (admin)
func UpdateFeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := loadFee(c)
		if err != nil {
			return err
		}
		var body FeeRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}
		if err := periodTaken(body.Bulan, body.Tahun, f.ID); err != nil {
			return err
		}

		before := toResponse(f)
		f.Biaya, f.Bulan, f.Tahun = body.Biaya, body.Bulan, body.Tahun
		if err := database.DB.Save(&f).Error; err != nil {
			return response.FromDBError(err)
		}

		after := toResponse(f)
		audit.Record(c, "fee_p3sm", f.ID, models.AuditActionUpdate, "Fee P3SM diubah: "+periodLabel(f), before, after)
		return response.OK(c, after)
	}
}

// DELETE /api/fee-p3sm/:id (admin)
func DeleteFeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := loadFee(c)
		if err != nil {
			return err
		}
		if err := database.DB.Delete(&f).Error; err != nil {
			return response.FromDBError(err)
		}
		audit.Record(c, "fee_p3sm", f.ID, models.AuditActionDelete, "Fee P3SM dihapus: "+periodLabel(f), toResponse(f), nil)
		return response.Message(c, "Fee P3SM dihapus")
	}
}
