package transaction

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"sertifikasi-backend/internal/audit"
	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxBuktiSize = 5 << 20

var allowedBuktiExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// BuktiFileName membuat nama file acak dengan ekstensi aslinya. Ekstensi di luar daftar ditolak.
func BuktiFileName(original string, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if !allowedBuktiExt[ext] {
		return "", response.NewValidationError("bukti", "file harus jpg, jpeg, png atau pdf")
	}
	if size > maxBuktiSize {
		return "", response.NewValidationError("bukti", "ukuran file maksimal 5 MB")
	}
	return uuid.NewString() + ext, nil
}

func removeBukti(uploadPath, name string) {
	// nama file dari DB selalu buatan server, tapi jangan sampai keluar dari folder upload
	path := filepath.Join(uploadPath, filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] bukti %s tidak bisa dihapus: %v", path, err)
	}
}

// POST /api/transactions/:id/bukti (multipart, field "bukti")
func UploadBuktiHandler(uploadPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := loadOwned(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("bukti")
		if err != nil {
			return response.NewValidationError("bukti", "file bukti wajib diunggah")
		}
		name, err := BuktiFileName(fileHeader.Filename, fileHeader.Size)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(uploadPath, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Folder upload tidak bisa dibuat")
		}
		if err := c.SaveFile(fileHeader, filepath.Join(uploadPath, name)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "File bukti tidak bisa disimpan")
		}

		if err := database.DB.Model(&models.Transaction{}).Where("id = ?", t.ID).Update("bukti", name).Error; err != nil {
			removeBukti(uploadPath, name)
			return response.FromDBError(err)
		}

		before := toResponse(t)
		if t.Bukti != nil {
			removeBukti(uploadPath, *t.Bukti)
		}
		t.Bukti = &name

		after := toResponse(t)
		audit.Record(c, "transaction", t.ID, models.AuditActionUpdate, "Bukti transaksi diunggah: "+t.Name, before, after)
		return response.OK(c, after)
	}
}

// GET /api/transactions/:id/bukti
func DownloadBuktiHandler(uploadPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := loadOwned(c)
		if err != nil {
			return err
		}
		if t.Bukti == nil {
			return fiber.NewError(fiber.StatusNotFound, "Transaksi belum punya bukti")
		}
		return c.SendFile(filepath.Join(uploadPath, filepath.Base(*t.Bukti)))
	}
}
