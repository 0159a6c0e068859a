package submission

import (
	"strings"
	"time"

	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/params"
	"sertifikasi-backend/internal/response"

	"gorm.io/datatypes"
)

type CreateSubmissionRequest struct {
	CompanyName      string         `json:"companyName" validate:"required,notblank,max=255"`
	MarketingName    string         `json:"marketingName" validate:"required,notblank,max=150"`
	Date             string         `json:"date" validate:"required"`
	CertificateID    uint           `json:"certificateId" validate:"required"`
	Asosiasi         datatypes.JSON `json:"asosiasi"`
	Klasifikasi      datatypes.JSON `json:"klasifikasi"`
	SubKlasifikasi   datatypes.JSON `json:"subKlasifikasi"`
	Kualifikasi      datatypes.JSON `json:"kualifikasi"`
	BiayaLainnya     datatypes.JSON `json:"biayaLainnya"`
	BiayaSetorKantor int64          `json:"biayaSetorKantor" validate:"gte=0"`

	// Diterima agar client lama tidak error, tapi selalu dihitung ulang.
	Keuntungan *int64 `json:"keuntungan"`
}

type UpdateSubmissionRequest struct {
	CompanyName      *string        `json:"companyName" validate:"omitempty,notblank,max=255"`
	MarketingName    *string        `json:"marketingName" validate:"omitempty,notblank,max=150"`
	Date             *string        `json:"date"`
	CertificateID    *uint          `json:"certificateId" validate:"omitempty,gt=0"`
	Asosiasi         datatypes.JSON `json:"asosiasi"`
	Klasifikasi      datatypes.JSON `json:"klasifikasi"`
	SubKlasifikasi   datatypes.JSON `json:"subKlasifikasi"`
	Kualifikasi      datatypes.JSON `json:"kualifikasi"`
	BiayaLainnya     datatypes.JSON `json:"biayaLainnya"`
	BiayaSetorKantor *int64         `json:"biayaSetorKantor" validate:"omitempty,gte=0"`
	Keuntungan       *int64         `json:"keuntungan"`
}

// snapshotErrors memeriksa bentuk snapshot. Field yang tidak dikirim dilewati.
func snapshotErrors(asosiasi, klasifikasi, subKlasifikasi, kualifikasi, biayaLainnya datatypes.JSON) error {
	fields := map[string]string{}
	for name, raw := range map[string]datatypes.JSON{
		"asosiasi":       asosiasi,
		"klasifikasi":    klasifikasi,
		"subKlasifikasi": subKlasifikasi,
	} {
		if !isNull(raw) && !isObject(raw) {
			fields[name] = errNotObject.Error()
		}
	}
	for name, raw := range map[string]datatypes.JSON{
		"kualifikasi":  kualifikasi,
		"biayaLainnya": biayaLainnya,
	} {
		if _, err := ParseCostSnapshot(raw); err != nil {
			fields[name] = err.Error()
		}
	}
	if len(fields) > 0 {
		return &response.ValidationError{Message: "Validasi gagal", Fields: fields}
	}
	return nil
}

// normalize mengubah snapshot kosong jadi JSON null supaya kolom jsonb tetap valid.
func normalize(raw datatypes.JSON) datatypes.JSON {
	if isNull(raw) {
		return datatypes.JSON("null")
	}
	return raw
}

func computeProfit(deposit int64, kualifikasi, biayaLainnya datatypes.JSON) int64 {
	k, _ := ParseCostSnapshot(kualifikasi)
	b, _ := ParseCostSnapshot(biayaLainnya)
	return Keuntungan(deposit, k, b)
}

// NewSubmission membangun row baru milik submittedByID. Nilai keuntungan dari client diabaikan.
func NewSubmission(req CreateSubmissionRequest, submittedByID uint) (models.Submission, error) {
	date, err := params.ParseDate("date", req.Date)
	if err != nil {
		return models.Submission{}, err
	}
	if err := snapshotErrors(req.Asosiasi, req.Klasifikasi, req.SubKlasifikasi, req.Kualifikasi, req.BiayaLainnya); err != nil {
		return models.Submission{}, err
	}

	return models.Submission{
		CompanyName:      strings.TrimSpace(req.CompanyName),
		MarketingName:    strings.TrimSpace(req.MarketingName),
		Date:             date,
		SubmittedByID:    submittedByID,
		CertificateID:    req.CertificateID,
		Asosiasi:         normalize(req.Asosiasi),
		Klasifikasi:      normalize(req.Klasifikasi),
		SubKlasifikasi:   normalize(req.SubKlasifikasi),
		Kualifikasi:      normalize(req.Kualifikasi),
		BiayaLainnya:     normalize(req.BiayaLainnya),
		BiayaSetorKantor: req.BiayaSetorKantor,
		Keuntungan:       computeProfit(req.BiayaSetorKantor, req.Kualifikasi, req.BiayaLainnya),
	}, nil
}

// ApplyUpdate menerapkan perubahan parsial ke s. Keuntungan hanya dihitung ulang
// bila setor kantor, kualifikasi atau biaya lainnya berubah; hasil kedua bernilai true saat itu terjadi.
func ApplyUpdate(s *models.Submission, req UpdateSubmissionRequest) (bool, error) {
	if err := snapshotErrors(req.Asosiasi, req.Klasifikasi, req.SubKlasifikasi, req.Kualifikasi, req.BiayaLainnya); err != nil {
		return false, err
	}

	var date time.Time
	if req.Date != nil {
		d, err := params.ParseDate("date", *req.Date)
		if err != nil {
			return false, err
		}
		date = d
	}

	stored := ProfitInputs{
		BiayaSetorKantor: s.BiayaSetorKantor,
		Kualifikasi:      s.Kualifikasi,
		BiayaLainnya:     s.BiayaLainnya,
	}

	if req.CompanyName != nil {
		s.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.MarketingName != nil {
		s.MarketingName = strings.TrimSpace(*req.MarketingName)
	}
	if req.Date != nil {
		s.Date = date
	}
	if req.CertificateID != nil {
		s.CertificateID = *req.CertificateID
	}
	if req.Asosiasi != nil {
		s.Asosiasi = normalize(req.Asosiasi)
	}
	if req.Klasifikasi != nil {
		s.Klasifikasi = normalize(req.Klasifikasi)
	}
	if req.SubKlasifikasi != nil {
		s.SubKlasifikasi = normalize(req.SubKlasifikasi)
	}
	if req.Kualifikasi != nil {
		s.Kualifikasi = normalize(req.Kualifikasi)
	}
	if req.BiayaLainnya != nil {
		s.BiayaLainnya = normalize(req.BiayaLainnya)
	}
	if req.BiayaSetorKantor != nil {
		s.BiayaSetorKantor = *req.BiayaSetorKantor
	}

	next := ProfitInputs{
		BiayaSetorKantor: s.BiayaSetorKantor,
		Kualifikasi:      s.Kualifikasi,
		BiayaLainnya:     s.BiayaLainnya,
	}
	if !ProfitInputsChanged(stored, next) {
		return false, nil
	}
	s.Keuntungan = computeProfit(s.BiayaSetorKantor, s.Kualifikasi, s.BiayaLainnya)
	return true, nil
}
