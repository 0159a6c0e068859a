package audit

import (
	"fmt"
	"log"

	"sertifikasi-backend/internal/auth"
	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/models"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func toJSON(v any) datatypes.JSON {
	// jsonb tidak menerima string kosong
	if v == nil {
		return datatypes.JSON("null")
	}
	b, err := sonic.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}

func WriteLog(opts LogOptions) error {
	return WriteLogTx(database.DB, opts)
}

// WriteLogTx menulis log di dalam transaksi yang sedang berjalan.
func WriteLogTx(db *gorm.DB, opts LogOptions) error {
	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  toJSON(opts.Before),
		AfterData:   toJSON(opts.After),
	}
	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log tidak tersimpan: %w", err)
	}
	return nil
}

// Record menulis log atas nama user yang sedang login. Kegagalan hanya dicatat.
func Record(c *fiber.Ctx, entityType string, entityID uint, action models.AuditAction, description string, before, after any) {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		return
	}
	if err := WriteLog(LogOptions{
		UserID:      actor.ID,
		UserName:    actor.Name,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
		Before:      before,
		After:       after,
	}); err != nil {
		log.Printf("[WARN] %v", err)
	}
}
