package submission

import (
	"testing"

	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func validCreate() CreateSubmissionRequest {
	return CreateSubmissionRequest{
		CompanyName:      "  PT Maju Jaya ",
		MarketingName:    "Budi",
		Date:             "2024-03-15",
		CertificateID:    1,
		Asosiasi:         datatypes.JSON(`{"id":1,"name":"P3SM"}`),
		Kualifikasi:      datatypes.JSON(`{"name":"Kecil","biaya":3000000}`),
		BiayaLainnya:     datatypes.JSON(`{"name":"Materai","biaya":250000}`),
		BiayaSetorKantor: 5000000,
	}
}

func TestNewSubmissionIgnoresClientProfit(t *testing.T) {
	req := validCreate()
	bogus := int64(999999999)
	req.Keuntungan = &bogus

	s, err := NewSubmission(req, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1750000), s.Keuntungan)
	assert.Equal(t, uint(7), s.SubmittedByID)
	assert.Equal(t, "PT Maju Jaya", s.CompanyName)
	assert.Equal(t, "2024-03-15", s.Date.Format("2006-01-02"))
	assert.Equal(t, "null", string(s.Klasifikasi))
}

func TestNewSubmissionValidation(t *testing.T) {
	req := validCreate()
	req.Date = "15/03/2024"
	_, err := NewSubmission(req, 1)
	var ve *response.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "date")

	req = validCreate()
	req.Kualifikasi = datatypes.JSON(`{"name":"Kecil"}`)
	req.Klasifikasi = datatypes.JSON(`["bukan objek"]`)
	_, err = NewSubmission(req, 1)
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "kualifikasi")
	assert.Contains(t, ve.Fields, "klasifikasi")
}

func TestSubmissionRequestsRejectBlankNames(t *testing.T) {
	req := validCreate()
	req.CompanyName = "   "
	req.MarketingName = "\t "
	var ve *response.ValidationError
	require.ErrorAs(t, response.Validate(req), &ve)
	assert.Equal(t, "notblank", ve.Fields["companyName"])
	assert.Equal(t, "notblank", ve.Fields["marketingName"])

	blank := "  "
	require.ErrorAs(t, response.Validate(UpdateSubmissionRequest{CompanyName: &blank, MarketingName: &blank}), &ve)
	assert.Contains(t, ve.Fields, "companyName")
	assert.Contains(t, ve.Fields, "marketingName")

	assert.NoError(t, response.Validate(UpdateSubmissionRequest{}))
}

func storedSubmission() models.Submission {
	return models.Submission{
		ID:               1,
		CompanyName:      "PT Lama",
		BiayaSetorKantor: 5000000,
		Kualifikasi:      datatypes.JSON(`{"name":"Kecil","biaya":3000000}`),
		BiayaLainnya:     datatypes.JSON(`null`),
		// nilai lama sengaja tidak cocok rumus supaya kelihatan bila dihitung ulang
		Keuntungan: 123,
	}
}

func TestApplyUpdateWithoutProfitInputsKeepsProfit(t *testing.T) {
	s := storedSubmission()
	name := "PT Baru"
	bogus := int64(1)

	recomputed, err := ApplyUpdate(&s, UpdateSubmissionRequest{CompanyName: &name, Keuntungan: &bogus})
	require.NoError(t, err)
	assert.False(t, recomputed)
	assert.Equal(t, int64(123), s.Keuntungan)
	assert.Equal(t, "PT Baru", s.CompanyName)

	// snapshot yang sama dengan urutan key berbeda tidak dianggap perubahan
	recomputed, err = ApplyUpdate(&s, UpdateSubmissionRequest{
		Kualifikasi: datatypes.JSON(`{"biaya":3000000,"name":"Kecil"}`),
	})
	require.NoError(t, err)
	assert.False(t, recomputed)
	assert.Equal(t, int64(123), s.Keuntungan)
}

func TestApplyUpdateRecomputesWhenInputsChange(t *testing.T) {
	s := storedSubmission()
	deposit := int64(6000000)

	recomputed, err := ApplyUpdate(&s, UpdateSubmissionRequest{BiayaSetorKantor: &deposit})
	require.NoError(t, err)
	assert.True(t, recomputed)
	assert.Equal(t, int64(3000000), s.Keuntungan)

	recomputed, err = ApplyUpdate(&s, UpdateSubmissionRequest{BiayaLainnya: datatypes.JSON(`{"name":"Materai","biaya":500000}`)})
	require.NoError(t, err)
	assert.True(t, recomputed)
	assert.Equal(t, int64(2500000), s.Keuntungan)

	// null eksplisit menghapus snapshot
	recomputed, err = ApplyUpdate(&s, UpdateSubmissionRequest{Kualifikasi: datatypes.JSON(`null`)})
	require.NoError(t, err)
	assert.True(t, recomputed)
	assert.Equal(t, int64(5500000), s.Keuntungan)
}

func TestApplyUpdateRejectsBadSnapshotWithoutChanges(t *testing.T) {
	s := storedSubmission()
	name := "PT Baru"
	_, err := ApplyUpdate(&s, UpdateSubmissionRequest{
		CompanyName: &name,
		Kualifikasi: datatypes.JSON(`{"biaya":-5}`),
	})
	require.Error(t, err)
	assert.Equal(t, "PT Lama", s.CompanyName)
}
