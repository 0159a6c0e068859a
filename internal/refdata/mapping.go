package refdata

import (
	"fmt"
	"sort"

	"sertifikasi-backend/internal/models"
)

// ItemTarget adalah tujuan satu key payload saat replace data referensi.
// Asosiasi kosong berarti item tidak punya asosiasi.
type ItemTarget struct {
	Category models.BiayaCategory
	Asosiasi string
}

const (
	KeyKualifikasi  = "kualifikasi"
	KeyBiayaSetor   = "biayaSetor"
	KeyBiayaLainnya = "biayaLainnya"
)

var genericMapping = map[string]ItemTarget{
	KeyKualifikasi:  {Category: models.CategoryKualifikasi},
	KeyBiayaSetor:   {Category: models.CategoryBiayaSetor},
	KeyBiayaLainnya: {Category: models.CategoryBiayaLainnya},
}

var legacyMappings = map[string]map[string]ItemTarget{
	SlugSbuKonstruksi: {
		"kualifikasiP3sm":     {Category: models.CategoryKualifikasi, Asosiasi: "P3SM"},
		"kualifikasiGapeknas": {Category: models.CategoryKualifikasi, Asosiasi: "GAPEKNAS"},
		"biayaSetorP3sm":      {Category: models.CategoryBiayaSetor, Asosiasi: "P3SM"},
		"biayaSetorGapeknas":  {Category: models.CategoryBiayaSetor, Asosiasi: "GAPEKNAS"},
		KeyBiayaLainnya:       {Category: models.CategoryBiayaLainnya},
	},
	SlugSbuKonsultan: {
		"kualifikasiInkindo":  {Category: models.CategoryKualifikasi, Asosiasi: "INKINDO"},
		"kualifikasiPerkindo": {Category: models.CategoryKualifikasi, Asosiasi: "PERKINDO"},
		"biayaSetorInkindo":   {Category: models.CategoryBiayaSetor, Asosiasi: "INKINDO"},
		"biayaSetorPerkindo":  {Category: models.CategoryBiayaSetor, Asosiasi: "PERKINDO"},
		KeyBiayaLainnya:       {Category: models.CategoryBiayaLainnya},
	},
	SlugSkkKonstruksi: {
		KeyKualifikasi:  {Category: models.CategoryKualifikasi},
		KeyBiayaSetor:   {Category: models.CategoryBiayaSetor},
		KeyBiayaLainnya: {Category: models.CategoryBiayaLainnya},
	},
	SlugSmap: {
		KeyBiayaSetor:   {Category: models.CategoryBiayaSetor},
		KeyBiayaLainnya: {Category: models.CategoryBiayaLainnya},
	},
	SlugSimpk: {
		KeyBiayaSetor:   {Category: models.CategoryBiayaSetor},
		KeyBiayaLainnya: {Category: models.CategoryBiayaLainnya},
	},
	SlugNotaris: {
		KeyKualifikasi:  {Category: models.CategoryKualifikasi},
		KeyBiayaSetor:   {Category: models.CategoryBiayaSetor},
		KeyBiayaLainnya: {Category: models.CategoryBiayaLainnya},
	},
}

// ItemMapping mengembalikan tabel key payload untuk slug. Slug yang tidak
// dikenal memakai pemetaan umum tiga kategori.
func ItemMapping(slug string) map[string]ItemTarget {
	if m, ok := legacyMappings[slug]; ok {
		return m
	}
	return genericMapping
}

// ResolveItemKey mencari satu key payload milik slug.
func ResolveItemKey(slug, key string) (ItemTarget, error) {
	target, ok := ItemMapping(slug)[key]
	if !ok {
		return ItemTarget{}, fmt.Errorf("key %q tidak dikenal untuk %s (pilihan: %v)", key, slug, ItemKeys(slug))
	}
	return target, nil
}

// ItemKeys: daftar key payload yang diterima slug, urutannya tetap.
func ItemKeys(slug string) []string {
	m := ItemMapping(slug)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KeyFor kebalikan ResolveItemKey: mencari key payload untuk item dengan
// kategori dan nama asosiasi tertentu.
func KeyFor(slug string, category models.BiayaCategory, asosiasi string) (string, bool) {
	for k, t := range ItemMapping(slug) {
		if t.Category == category && t.Asosiasi == asosiasi {
			return k, true
		}
	}
	return "", false
}
