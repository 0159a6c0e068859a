package certificate

import (
	"errors"
	"strings"

	"sertifikasi-backend/internal/audit"
	"sertifikasi-backend/internal/auth"
	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/params"
	"sertifikasi-backend/internal/refdata"
	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CertificateRequest struct {
	Name     string   `json:"name" validate:"required,notblank,max=150"`
	SubMenus []string `json:"subMenus" validate:"omitempty,dive,max=150"`
	SbuSlug  *string  `json:"sbuSlug"`
}

type CertificateResponse struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	SubMenus []string `json:"subMenus"`
	SbuSlug  *string  `json:"sbuSlug"`
	Advanced bool     `json:"advanced"`
}

func toCertificateResponse(cert models.Certificate) CertificateResponse {
	subMenus := []string(cert.SubMenus)
	if subMenus == nil {
		subMenus = []string{}
	}
	return CertificateResponse{
		ID:       cert.ID,
		Name:     cert.Name,
		SubMenus: subMenus,
		SbuSlug:  cert.SbuSlug,
		Advanced: cert.SbuSlug != nil,
	}
}

// resolveSbuSlug memastikan slug yang dirujuk ada. String kosong = bukan sertifikat advanced.
func resolveSbuSlug(slug *string) (*string, error) {
	if slug == nil || strings.TrimSpace(*slug) == "" {
		return nil, nil
	}
	s := strings.TrimSpace(*slug)
	var cnt int64
	if err := database.DB.Model(&models.SbuType{}).Where("slug = ?", s).Count(&cnt).Error; err != nil {
		return nil, err
	}
	if cnt == 0 {
		return nil, response.NewValidationError("sbuSlug", "tipe SBU "+s+" tidak ditemukan")
	}
	return &s, nil
}

func loadCertificate(c *fiber.Ctx) (models.Certificate, error) {
	var cert models.Certificate
	id, err := params.ID(c, "id")
	if err != nil {
		return cert, err
	}
	if err := database.DB.First(&cert, id).Error; err != nil {
		return cert, response.NotFound(err, "Sertifikat tidak ditemukan")
	}
	return cert, nil
}

// GET /api/certificates
func ListCertificatesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var certs []models.Certificate
		if err := database.DB.Order("id ASC").Find(&certs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sertifikat tidak bisa dimuat")
		}

		rows, err := LoadRows(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Data referensi tidak bisa dimuat")
		}

		list := make([]CertificateResponse, 0, len(certs))
		for _, cert := range certs {
			list = append(list, toCertificateResponse(cert))
		}

		types := make([]SbuTypeResponse, 0, len(rows.SbuTypes))
		for _, t := range rows.SbuTypes {
			types = append(types, toSbuTypeResponse(t))
		}

		return response.OK(c, fiber.Map{
			"certificates":  list,
			"sbuTypes":      types,
			"referenceData": refdata.BuildBundle(rows),
		})
	}
}

// GET /api/certificates/reference-data?slug=
func GetReferenceDataHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if slug := strings.TrimSpace(c.Query("slug")); slug != "" {
			var sbu models.SbuType
			if err := database.DB.Where("slug = ?", slug).First(&sbu).Error; err != nil {
				return response.NotFound(err, "Tipe sertifikat tidak ditemukan")
			}
			entry, err := LoadEntry(database.DB, sbu)
			if err != nil {
				return err
			}
			return response.OK(c, entry)
		}

		bundle, err := LoadBundle(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Data referensi tidak bisa dimuat")
		}
		return response.OK(c, bundle)
	}
}

// PUT /api/certificates/reference-data (admin)
func ReplaceReferenceDataHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		policy, err := auth.PolicyFor(c)
		if err != nil {
			return err
		}
		if !policy.CanManageReferenceData() {
			return fiber.NewError(fiber.StatusForbidden, "Anda tidak punya akses untuk aksi ini")
		}

		var body refdata.ReplacePayload
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}
		body.Slug = strings.TrimSpace(body.Slug)

		entry, err := ReplaceReferenceData(database.DB, policy.Actor, body)
		if err != nil {
			return err
		}
		return response.OK(c, entry)
	}
}

// GET /api/certificates/:id
func GetCertificateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cert, err := loadCertificate(c)
		if err != nil {
			return err
		}
		return response.OK(c, toCertificateResponse(cert))
	}
}

// POST /api/certificates (admin)
func CreateCertificateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CertificateRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}
		slug, err := resolveSbuSlug(body.SbuSlug)
		if err != nil {
			return err
		}

		cert := models.Certificate{
			Name:     strings.TrimSpace(body.Name),
			SubMenus: cleanList(body.SubMenus),
			SbuSlug:  slug,
		}
		if err := database.DB.Create(&cert).Error; err != nil {
			return response.FromDBError(err)
		}

		res := toCertificateResponse(cert)
		audit.Record(c, "certificate", cert.ID, models.AuditActionCreate, "Sertifikat dibuat: "+cert.Name, nil, res)
		return response.Created(c, res)
	}
}

// PUT /api/certificates/:id (admin)
func UpdateCertificateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cert, err := loadCertificate(c)
		if err != nil {
			return err
		}
		var body CertificateRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}
		slug, err := resolveSbuSlug(body.SbuSlug)
		if err != nil {
			return err
		}

		before := toCertificateResponse(cert)
		cert.Name = strings.TrimSpace(body.Name)
		cert.SubMenus = cleanList(body.SubMenus)
		cert.SbuSlug = slug

		if err := database.DB.Save(&cert).Error; err != nil {
			return response.FromDBError(err)
		}

		after := toCertificateResponse(cert)
		audit.Record(c, "certificate", cert.ID, models.AuditActionUpdate, "Sertifikat diubah: "+cert.Name, before, after)
		return response.OK(c, after)
	}
}

// DELETE /api/certificates/:id (admin)
func DeleteCertificateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cert, err := loadCertificate(c)
		if err != nil {
			return err
		}

		var used int64
		if err := database.DB.Model(&models.Submission{}).Where("certificate_id = ?", cert.ID).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return response.Unprocessable("Sertifikat masih dipakai oleh pengajuan")
		}

		if err := database.DB.Delete(&cert).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sertifikat tidak ditemukan")
			}
			return response.FromDBError(err)
		}

		audit.Record(c, "certificate", cert.ID, models.AuditActionDelete, "Sertifikat dihapus: "+cert.Name, toCertificateResponse(cert), nil)
		return response.Message(c, "Sertifikat dihapus")
	}
}
