package transaction

import (
	"fmt"
	"strings"
	"time"

	"sertifikasi-backend/internal/audit"
	"sertifikasi-backend/internal/auth"
	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/params"
	"sertifikasi-backend/internal/report"
	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateTransactionRequest struct {
	Date  string                 `json:"date" validate:"required"`
	Name  string                 `json:"name" validate:"required,notblank,max=255"`
	Biaya int64                  `json:"biaya" validate:"gte=0"`
	Type  models.TransactionType `json:"type" validate:"required"`
}

type UpdateTransactionRequest struct {
	Date  *string                 `json:"date"`
	Name  *string                 `json:"name" validate:"omitempty,notblank,max=255"`
	Biaya *int64                  `json:"biaya" validate:"omitempty,gte=0"`
	Type  *models.TransactionType `json:"type"`
}

type TransactionResponse struct {
	ID            uint                   `json:"id"`
	Date          string                 `json:"date"`
	Name          string                 `json:"name"`
	Biaya         int64                  `json:"biaya"`
	Type          models.TransactionType `json:"type"`
	SubmittedByID uint                   `json:"submittedById"`
	SubmittedBy   string                 `json:"submittedBy,omitempty"`
	Bukti         *string                `json:"bukti"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

func toResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		Date:          t.Date.Format(params.DateLayout),
		Name:          t.Name,
		Biaya:         t.Biaya,
		Type:          t.Type,
		SubmittedByID: t.SubmittedByID,
		SubmittedBy:   t.SubmittedBy.FullName,
		Bukti:         t.Bukti,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func validType(t models.TransactionType) error {
	if !t.Valid() {
		return response.NewValidationError("type", "type harus pengeluaran, tabungan atau kas")
	}
	return nil
}

func filteredQuery(c *fiber.Ctx, policy auth.Policy) (*gorm.DB, error) {
	dbq := policy.ScopeOwned(database.DB.Model(&models.Transaction{}), "submitted_by_id")

	if typ := c.Query("type"); typ != "" {
		if err := validType(models.TransactionType(typ)); err != nil {
			return nil, err
		}
		dbq = dbq.Where("type = ?", typ)
	}
	rng, err := params.QueryDateRange(c)
	if err != nil {
		return nil, err
	}
	if rng.Start != nil {
		dbq = dbq.Where("date >= ?", *rng.Start)
	}
	if rng.End != nil {
		dbq = dbq.Where("date <= ?", *rng.End)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		dbq = dbq.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	return dbq, nil
}

func loadOwned(c *fiber.Ctx) (models.Transaction, error) {
	var t models.Transaction
	policy, err := auth.PolicyFor(c)
	if err != nil {
		return t, err
	}
	id, err := params.ID(c, "id")
	if err != nil {
		return t, err
	}
	if err := database.DB.Preload("SubmittedBy").First(&t, id).Error; err != nil {
		return t, response.NotFound(err, "Transaksi tidak ditemukan")
	}
	if err := policy.AuthorizeOwned(t.SubmittedByID); err != nil {
		return t, err
	}
	return t, nil
}

// GET /api/transactions?type=&start_date=&end_date=&q=
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		policy, err := auth.PolicyFor(c)
		if err != nil {
			return err
		}
		dbq, err := filteredQuery(c, policy)
		if err != nil {
			return err
		}

		var total int64
		if err := dbq.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return err
		}

		paging := response.ResolvePaging(c, 20, 100)
		var list []models.Transaction
		if err := dbq.Preload("SubmittedBy").Order("date DESC, id DESC").
			Offset(paging.Offset).Limit(paging.PerPage).Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaksi tidak bisa dimuat")
		}

		res := make([]TransactionResponse, 0, len(list))
		for _, t := range list {
			res = append(res, toResponse(t))
		}
		return response.Paginated(c, res, response.BuildPagination(total, paging))
	}
}

// GET /api/transactions/:id
func GetTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := loadOwned(c)
		if err != nil {
			return err
		}
		return response.OK(c, toResponse(t))
	}
}

// POST /api/transactions
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}
		var body CreateTransactionRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}
		if err := validType(body.Type); err != nil {
			return err
		}
		date, err := params.ParseDate("date", body.Date)
		if err != nil {
			return err
		}

		t := models.Transaction{
			Date:          date,
			Name:          strings.TrimSpace(body.Name),
			Biaya:         body.Biaya,
			Type:          body.Type,
			SubmittedByID: actor.ID,
		}
		if err := database.DB.Create(&t).Error; err != nil {
			return response.FromDBError(err)
		}
		t.SubmittedBy.FullName = actor.Name

		res := toResponse(t)
		audit.Record(c, "transaction", t.ID, models.AuditActionCreate, "Transaksi dibuat: "+t.Name, nil, res)
		return response.Created(c, res)
	}
}

// PUT /api/transactions/:id
func UpdateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := loadOwned(c)
		if err != nil {
			return err
		}
		var body UpdateTransactionRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}

		before := toResponse(t)
		updates := map[string]interface{}{}
		if body.Date != nil {
			d, err := params.ParseDate("date", *body.Date)
			if err != nil {
				return err
			}
			updates["date"] = d
			t.Date = d
		}
		if body.Name != nil {
			t.Name = strings.TrimSpace(*body.Name)
			updates["name"] = t.Name
		}
		if body.Biaya != nil {
			t.Biaya = *body.Biaya
			updates["biaya"] = t.Biaya
		}
		if body.Type != nil {
			if err := validType(*body.Type); err != nil {
				return err
			}
			t.Type = *body.Type
			updates["type"] = t.Type
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&models.Transaction{}).Where("id = ?", t.ID).Updates(updates).Error; err != nil {
				return response.FromDBError(err)
			}
			// ambil ulang supaya updated_at sama dengan DB
			if err := database.DB.Preload("SubmittedBy").First(&t, t.ID).Error; err != nil {
				return err
			}
		}

		after := toResponse(t)
		audit.Record(c, "transaction", t.ID, models.AuditActionUpdate, "Transaksi diubah: "+t.Name, before, after)
		return response.OK(c, after)
	}
}

// DELETE /api/transactions/:id
func DeleteTransactionHandler(uploadPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := loadOwned(c)
		if err != nil {
			return err
		}
		if err := database.DB.Delete(&models.Transaction{}, t.ID).Error; err != nil {
			return response.FromDBError(err)
		}
		if t.Bukti != nil {
			removeBukti(uploadPath, *t.Bukti)
		}
		audit.Record(c, "transaction", t.ID, models.AuditActionDelete, "Transaksi dihapus: "+t.Name, toResponse(t), nil)
		return response.Message(c, "Transaksi dihapus")
	}
}

// GET /api/transactions/export
func ExportTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		policy, err := auth.PolicyFor(c)
		if err != nil {
			return err
		}
		dbq, err := filteredQuery(c, policy)
		if err != nil {
			return err
		}

		var list []models.Transaction
		if err := dbq.Preload("SubmittedBy").Order("date ASC, id ASC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaksi tidak bisa dimuat")
		}

		rows := make([][]interface{}, 0, len(list))
		for i, t := range list {
			rows = append(rows, []interface{}{
				i + 1, t.Date.Format(params.DateLayout), t.Name, string(t.Type), t.Biaya, t.SubmittedBy.FullName,
			})
		}
		return report.Send(c, fmt.Sprintf("transaksi-%s.xlsx", time.Now().Format("20060102")), report.Table{
			Sheet:   "Transaksi",
			Headers: []string{"No", "Tanggal", "Nama", "Jenis", "Biaya", "Diinput Oleh"},
			Rows:    rows,
		})
	}
}
