package submission

import (
	"fmt"
	"log"
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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type userRef struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
}

type certificateRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type SubmissionResponse struct {
	ID               uint            `json:"id"`
	CompanyName      string          `json:"companyName"`
	MarketingName    string          `json:"marketingName"`
	Date             string          `json:"date"`
	CertificateID    uint            `json:"certificateId"`
	Certificate      *certificateRef `json:"certificate,omitempty"`
	SubmittedByID    uint            `json:"submittedById"`
	SubmittedBy      *userRef        `json:"submittedBy,omitempty"`
	Asosiasi         datatypes.JSON  `json:"asosiasi"`
	Klasifikasi      datatypes.JSON  `json:"klasifikasi"`
	SubKlasifikasi   datatypes.JSON  `json:"subKlasifikasi"`
	Kualifikasi      datatypes.JSON  `json:"kualifikasi"`
	BiayaLainnya     datatypes.JSON  `json:"biayaLainnya"`
	BiayaSetorKantor int64           `json:"biayaSetorKantor"`
	Keuntungan       int64           `json:"keuntungan"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func toResponse(s models.Submission) SubmissionResponse {
	res := SubmissionResponse{
		ID:               s.ID,
		CompanyName:      s.CompanyName,
		MarketingName:    s.MarketingName,
		Date:             s.Date.Format(params.DateLayout),
		CertificateID:    s.CertificateID,
		SubmittedByID:    s.SubmittedByID,
		Asosiasi:         normalize(s.Asosiasi),
		Klasifikasi:      normalize(s.Klasifikasi),
		SubKlasifikasi:   normalize(s.SubKlasifikasi),
		Kualifikasi:      normalize(s.Kualifikasi),
		BiayaLainnya:     normalize(s.BiayaLainnya),
		BiayaSetorKantor: s.BiayaSetorKantor,
		Keuntungan:       s.Keuntungan,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if s.Certificate.ID != 0 {
		res.Certificate = &certificateRef{ID: s.Certificate.ID, Name: s.Certificate.Name}
	}
	if s.SubmittedBy.ID != 0 {
		res.SubmittedBy = &userRef{ID: s.SubmittedBy.ID, FullName: s.SubmittedBy.FullName}
	}
	return res
}

func certificateExists(id uint) error {
	var cnt int64
	if err := database.DB.Model(&models.Certificate{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return response.NewValidationError("certificateId", "sertifikat tidak ditemukan")
	}
	return nil
}

// filteredQuery menerapkan scope role dan filter query string yang sama untuk list dan export.
func filteredQuery(c *fiber.Ctx, policy auth.Policy) (*gorm.DB, error) {
	dbq := policy.ScopeOwned(database.DB.Model(&models.Submission{}), "submitted_by_id")

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

	certID, err := params.QueryUint(c, "certificate_id")
	if err != nil {
		return nil, err
	}
	if certID > 0 {
		dbq = dbq.Where("certificate_id = ?", certID)
	}
	if name := strings.TrimSpace(c.Query("marketing_name")); name != "" {
		dbq = dbq.Where("marketing_name = ?", name)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		dbq = dbq.Where("LOWER(company_name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	return dbq, nil
}

// loadOwned memuat pengajuan lalu memastikan user boleh menyentuhnya.
func loadOwned(c *fiber.Ctx) (models.Submission, auth.Policy, error) {
	var s models.Submission
	policy, err := auth.PolicyFor(c)
	if err != nil {
		return s, policy, err
	}
	id, err := params.ID(c, "id")
	if err != nil {
		return s, policy, err
	}
	if err := database.DB.Preload("Certificate").Preload("SubmittedBy").First(&s, id).Error; err != nil {
		return s, policy, response.NotFound(err, "Pengajuan tidak ditemukan")
	}
	if err := policy.AuthorizeOwned(s.SubmittedByID); err != nil {
		return s, policy, err
	}
	return s, policy, nil
}

// GET /api/submissions
func ListSubmissionsHandler() fiber.Handler {
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
		var list []models.Submission
		if err := dbq.Preload("Certificate").Preload("SubmittedBy").
			Order("date DESC, id DESC").
			Offset(paging.Offset).Limit(paging.PerPage).
			Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pengajuan tidak bisa dimuat")
		}

		res := make([]SubmissionResponse, 0, len(list))
		for _, s := range list {
			res = append(res, toResponse(s))
		}
		return response.Paginated(c, res, response.BuildPagination(total, paging))
	}
}

// GET /api/submissions/:id
func GetSubmissionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, _, err := loadOwned(c)
		if err != nil {
			return err
		}
		return response.OK(c, toResponse(s))
	}
}

// reload mengisi ulang relasi setelah simpan. Row sudah tersimpan, jadi
// kegagalan di sini cukup dicatat.
func reload(s *models.Submission) {
	if err := database.DB.Preload("Certificate").Preload("SubmittedBy").First(s, s.ID).Error; err != nil {
		log.Printf("[WARN] gagal memuat ulang pengajuan %d: %v", s.ID, err)
	}
}

// POST /api/submissions
func CreateSubmissionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		policy, err := auth.PolicyFor(c)
		if err != nil {
			return err
		}
		var body CreateSubmissionRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}

		s, err := NewSubmission(body, policy.Actor.ID)
		if err != nil {
			return err
		}
		if err := certificateExists(s.CertificateID); err != nil {
			return err
		}
		if err := database.DB.Create(&s).Error; err != nil {
			return response.FromDBError(err)
		}
		reload(&s)

		res := toResponse(s)
		audit.Record(c, "submission", s.ID, models.AuditActionCreate, "Pengajuan dibuat: "+s.CompanyName, nil, res)
		return response.Created(c, res)
	}
}

// PUT /api/submissions/:id
func UpdateSubmissionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, _, err := loadOwned(c)
		if err != nil {
			return err
		}
		var body UpdateSubmissionRequest
		if err := response.ParseBody(c, &body); err != nil {
			return err
		}
		if body.CertificateID != nil {
			if err := certificateExists(*body.CertificateID); err != nil {
				return err
			}
		}

		before := toResponse(s)
		if _, err := ApplyUpdate(&s, body); err != nil {
			return err
		}
		// Certificate yang sudah di-preload bisa ikut tersimpan lewat Save, jadi diabaikan.
		if err := database.DB.Omit("Certificate", "SubmittedBy").Save(&s).Error; err != nil {
			return response.FromDBError(err)
		}
		reload(&s)

		after := toResponse(s)
		audit.Record(c, "submission", s.ID, models.AuditActionUpdate, "Pengajuan diubah: "+s.CompanyName, before, after)
		return response.OK(c, after)
	}
}

// DELETE /api/submissions/:id
func DeleteSubmissionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, _, err := loadOwned(c)
		if err != nil {
			return err
		}
		if err := database.DB.Delete(&models.Submission{}, s.ID).Error; err != nil {
			return response.FromDBError(err)
		}
		audit.Record(c, "submission", s.ID, models.AuditActionDelete, "Pengajuan dihapus: "+s.CompanyName, toResponse(s), nil)
		return response.Message(c, "Pengajuan dihapus")
	}
}

func snapshotName(raw datatypes.JSON) string {
	snap, err := ParseCostSnapshot(raw)
	if err != nil || snap == nil {
		return ""
	}
	return snap.Name
}

// GET /api/submissions/export
func ExportSubmissionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		policy, err := auth.PolicyFor(c)
		if err != nil {
			return err
		}
		dbq, err := filteredQuery(c, policy)
		if err != nil {
			return err
		}

		var list []models.Submission
		if err := dbq.Preload("Certificate").Preload("SubmittedBy").Order("date ASC, id ASC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pengajuan tidak bisa dimuat")
		}

		rows := make([][]interface{}, 0, len(list))
		for i, s := range list {
			rows = append(rows, []interface{}{
				i + 1,
				s.Date.Format(params.DateLayout),
				s.CompanyName,
				s.MarketingName,
				s.Certificate.Name,
				snapshotName(s.Kualifikasi),
				s.BiayaSetorKantor,
				snapshotName(s.BiayaLainnya),
				s.Keuntungan,
				s.SubmittedBy.FullName,
			})
		}

		return report.Send(c, fmt.Sprintf("pengajuan-%s.xlsx", time.Now().Format("20060102")), report.Table{
			Sheet: "Pengajuan",
			Headers: []string{
				"No", "Tanggal", "Perusahaan", "Marketing", "Sertifikat",
				"Kualifikasi", "Biaya Setor Kantor", "Biaya Lainnya", "Keuntungan", "Diinput Oleh",
			},
			Rows: rows,
		})
	}
}
