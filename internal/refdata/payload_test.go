package refdata

import (
	"testing"

	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPlanOrdersItemsByKey(t *testing.T) {
	p := ReplacePayload{
		Slug:     SlugSbuKonstruksi,
		Asosiasi: []AsosiasiInput{{Name: "P3SM"}, {Name: "GAPEKNAS"}},
		Items: map[string][]ItemInput{
			"kualifikasiP3sm": {{Name: "Kecil", Biaya: 1000}, {Name: "Menengah", Biaya: 2000}},
			KeyBiayaLainnya:   {{Name: "Materai", Biaya: 10}},
		},
	}
	planned, err := Plan(p.Slug, p)
	require.NoError(t, err)
	require.Len(t, planned, 3)

	assert.Equal(t, KeyBiayaLainnya, planned[0].Key)
	assert.Equal(t, "", planned[0].Target.Asosiasi)
	assert.Equal(t, "Kecil", planned[1].Input.Name)
	assert.Equal(t, "Menengah", planned[2].Input.Name)
	assert.Equal(t, ItemTarget{Category: models.CategoryKualifikasi, Asosiasi: "P3SM"}, planned[2].Target)
}

func TestPlanErrors(t *testing.T) {
	tests := []struct {
		name  string
		slug  string
		p     ReplacePayload
		field string
	}{
		{
			name:  "duplicate asosiasi",
			slug:  SlugSbuKonsultan,
			p:     ReplacePayload{Asosiasi: []AsosiasiInput{{Name: "INKINDO"}, {Name: " INKINDO "}}},
			field: "asosiasi[1].name",
		},
		{
			name: "klasifikasi refers to missing asosiasi",
			slug: SlugSbuKonsultan,
			p: ReplacePayload{
				Asosiasi:    []AsosiasiInput{{Name: "INKINDO"}},
				Klasifikasi: []KlasifikasiInput{{Name: "Arsitektur", Asosiasi: strPtr("PERKINDO")}},
			},
			field: "klasifikasi[0].asosiasi",
		},
		{
			name:  "unknown key",
			slug:  SlugSmap,
			p:     ReplacePayload{Items: map[string][]ItemInput{KeyKualifikasi: {{Name: "x"}}}},
			field: "items.kualifikasi",
		},
		{
			name: "mapped asosiasi missing",
			slug: SlugSbuKonstruksi,
			p: ReplacePayload{
				Asosiasi: []AsosiasiInput{{Name: "P3SM"}},
				Items:    map[string][]ItemInput{"biayaSetorGapeknas": {{Name: "Setor", Biaya: 1}}},
			},
			field: "items.biayaSetorGapeknas",
		},
		{
			name:  "blank asosiasi name",
			slug:  SlugSbuKonstruksi,
			p:     ReplacePayload{Asosiasi: []AsosiasiInput{{Name: "   "}}},
			field: "asosiasi[0].name",
		},
		{
			name:  "blank klasifikasi name",
			slug:  SlugSmap,
			p:     ReplacePayload{Klasifikasi: []KlasifikasiInput{{Name: " \t"}}},
			field: "klasifikasi[0].name",
		},
		{
			name: "blank item name",
			slug: SlugSbuKonstruksi,
			p: ReplacePayload{
				Asosiasi: []AsosiasiInput{{Name: "P3SM"}},
				Items:    map[string][]ItemInput{"kualifikasiP3sm": {{Name: "Kecil", Biaya: 1}, {Name: "  ", Biaya: 1}}},
			},
			field: "items.kualifikasiP3sm[1].name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(tt.slug, tt.p)
			var pe *PayloadError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestPlanAllowsEmptyKeyWithoutAsosiasi(t *testing.T) {
	p := ReplacePayload{
		Asosiasi: []AsosiasiInput{{Name: "P3SM"}},
		Items:    map[string][]ItemInput{"kualifikasiGapeknas": {}},
	}
	planned, err := Plan(SlugSbuKonstruksi, p)
	require.NoError(t, err)
	assert.Empty(t, planned)
}

func TestReplacePayloadRejectsBlankNames(t *testing.T) {
	p := ReplacePayload{
		Slug:        "  ",
		Asosiasi:    []AsosiasiInput{{Name: "   "}},
		Klasifikasi: []KlasifikasiInput{{Name: "\t"}},
		Items:       map[string][]ItemInput{KeyKualifikasi: {{Name: "  ", Biaya: 1}}},
	}
	err := response.Validate(p)
	var ve *response.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "notblank", ve.Fields["slug"])
	assert.Equal(t, "notblank", ve.Fields["asosiasi[0].name"])
	assert.Equal(t, "notblank", ve.Fields["klasifikasi[0].name"])
	assert.Equal(t, "notblank", ve.Fields["items[kualifikasi][0].name"])
}
