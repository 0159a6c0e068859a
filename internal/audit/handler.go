package audit

import (
	"strconv"
	"time"

	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      uint               `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	BeforeData  datatypes.JSON     `json:"before_data"`
	AfterData   datatypes.JSON     `json:"after_data"`
}

// GET /api/audit-logs?entity_type=submission&entity_id=1&user_id=2 (admin)
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.AuditLog{})

		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if v := c.Query("entity_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return response.NewValidationError("entity_id", "entity_id tidak valid")
			}
			dbq = dbq.Where("entity_id = ?", id)
		}
		if v := c.Query("user_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return response.NewValidationError("user_id", "user_id tidak valid")
			}
			dbq = dbq.Where("user_id = ?", id)
		}

		var total int64
		if err := dbq.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return err
		}

		paging := response.ResolvePaging(c, 50, 200)
		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC, id DESC").
			Offset(paging.Offset).Limit(paging.PerPage).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit log tidak bisa dimuat")
		}

		res := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			res = append(res, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format(time.RFC3339),
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
				BeforeData:  l.BeforeData,
				AfterData:   l.AfterData,
			})
		}
		return response.Paginated(c, res, response.BuildPagination(total, paging))
	}
}
