package refdata

import (
	"testing"

	"sertifikasi-backend/internal/models"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func sampleRows() Rows {
	return Rows{
		SbuTypes: []models.SbuType{
			{ID: 1, Slug: SlugSbuKonstruksi, Name: "SBU Konstruksi"},
			{ID: 2, Slug: SlugSmap, Name: "SMAP"},
			{ID: 3, Slug: "iso-9001", Name: "ISO 9001"},
		},
		Asosiasi: []models.Asosiasi{
			{ID: 10, SbuTypeID: 1, Name: "P3SM", Klasifikasi: pq.StringArray{"BG"}},
			{ID: 11, SbuTypeID: 1, Name: "GAPEKNAS"},
			{ID: 12, SbuTypeID: 3, Name: "KAN"},
		},
		Klasifikasi: []models.Klasifikasi{
			{ID: 20, SbuTypeID: 1, AsosiasiID: uintPtr(10), Name: "Bangunan Gedung", SubKlasifikasi: pq.StringArray{"BG001"}},
			{ID: 21, SbuTypeID: 3, Name: "Umum"},
		},
		Items: []models.BiayaItem{
			{ID: 100, SbuTypeID: 1, AsosiasiID: uintPtr(10), Category: models.CategoryKualifikasi, Name: "Kecil", Biaya: 1000},
			{ID: 101, SbuTypeID: 1, AsosiasiID: uintPtr(11), Category: models.CategoryKualifikasi, Name: "Menengah", Biaya: 2000},
			{ID: 102, SbuTypeID: 1, AsosiasiID: uintPtr(10), Category: models.CategoryBiayaSetor, Name: "Setor P3SM", Biaya: 500},
			{ID: 103, SbuTypeID: 1, Category: models.CategoryBiayaLainnya, Name: "Materai", Biaya: 10},
			{ID: 104, SbuTypeID: 2, Category: models.CategoryBiayaSetor, Name: "Setor SMAP", Biaya: 700},
			{ID: 105, SbuTypeID: 3, AsosiasiID: uintPtr(12), Category: models.CategoryKualifikasi, Name: "Sertifikat", Biaya: 900},
		},
	}
}

func itemIDs(items []ItemDTO) []uint {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestFilterItemsScoped(t *testing.T) {
	rows := sampleRows()

	got := FilterItems(rows.Items, 1, models.CategoryKualifikasi, uintPtr(10), true)
	assert.Equal(t, []uint{100}, itemIDs(got))

	// nil hanya cocok dengan item tanpa asosiasi
	got = FilterItems(rows.Items, 1, models.CategoryKualifikasi, nil, true)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	got = FilterItems(rows.Items, 1, models.CategoryBiayaLainnya, nil, true)
	assert.Equal(t, []uint{103}, itemIDs(got))
}

func TestFilterItemsUnscopedIgnoresAsosiasi(t *testing.T) {
	rows := sampleRows()
	got := FilterItems(rows.Items, 1, models.CategoryKualifikasi, nil, false)
	assert.Equal(t, []uint{100, 101}, itemIDs(got))
}

func TestBuildEntryScopedType(t *testing.T) {
	rows := sampleRows()
	e := BuildEntry(rows.SbuTypes[0], rows)

	assert.True(t, e.AsosiasiScoped)
	assert.Empty(t, e.Kualifikasi)
	assert.Equal(t, []uint{103}, itemIDs(e.BiayaLainnya))

	require.Len(t, e.Asosiasi, 2)
	assert.Equal(t, "P3SM", e.Asosiasi[0].Name)
	assert.Equal(t, []uint{100}, itemIDs(e.Asosiasi[0].Kualifikasi))
	assert.Equal(t, []uint{102}, itemIDs(e.Asosiasi[0].BiayaSetor))
	assert.Equal(t, []string{"BG"}, e.Asosiasi[0].Klasifikasi)
	assert.Equal(t, []uint{101}, itemIDs(e.Asosiasi[1].Kualifikasi))
	assert.Equal(t, []string{}, e.Asosiasi[1].Klasifikasi)

	require.Len(t, e.Klasifikasi, 1)
	require.NotNil(t, e.Klasifikasi[0].Asosiasi)
	assert.Equal(t, "P3SM", *e.Klasifikasi[0].Asosiasi)
	assert.Equal(t, []string{}, e.Klasifikasi[0].SubBidang)
}

func TestBuildEntryUnscopedType(t *testing.T) {
	rows := sampleRows()
	e := BuildEntry(rows.SbuTypes[2], rows)

	assert.False(t, e.AsosiasiScoped)
	assert.Equal(t, []uint{105}, itemIDs(e.Kualifikasi))
	require.Len(t, e.Asosiasi, 1)
	assert.Empty(t, e.Asosiasi[0].Kualifikasi)
	require.Len(t, e.Klasifikasi, 1)
	assert.Nil(t, e.Klasifikasi[0].Asosiasi)
}

func TestBuildBundleLegacyAndBySlug(t *testing.T) {
	b := BuildBundle(sampleRows())

	require.Len(t, b.BySlug, 3)
	assert.Contains(t, b.BySlug, "iso-9001")

	require.NotNil(t, b.SbuKonstruksi)
	assert.Equal(t, []uint{100}, itemIDs(b.SbuKonstruksi.Kualifikasi["P3SM"]))
	assert.Equal(t, []uint{101}, itemIDs(b.SbuKonstruksi.Kualifikasi["GAPEKNAS"]))
	assert.Empty(t, b.SbuKonstruksi.BiayaSetor["GAPEKNAS"])
	assert.Equal(t, []uint{103}, itemIDs(b.SbuKonstruksi.BiayaLainnya))

	require.NotNil(t, b.Smap)
	assert.Equal(t, []uint{104}, itemIDs(b.Smap.BiayaSetor))

	// tipe lama yang tidak ada di tabel tetap nil
	assert.Nil(t, b.SbuKonsultan)
	assert.Nil(t, b.Notaris)
}
