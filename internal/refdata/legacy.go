// Package refdata berisi aturan data referensi tipe sertifikat: tabel tipe
// lama, pemetaan key payload untuk replace penuh, dan pembentukan bundle
// baca (format lama dan per slug).
package refdata

import "sertifikasi-backend/internal/models"

const (
	SlugSbuKonstruksi = "sbu-konstruksi"
	SlugSbuKonsultan  = "sbu-konsultan"
	SlugSkkKonstruksi = "skk-konstruksi"
	SlugSmap          = "smap"
	SlugSimpk         = "simpk"
	SlugNotaris       = "notaris"
)

// LegacyType adalah salah satu dari enam tipe awal yang dibaca client lama
// lewat nama field tetap.
type LegacyType struct {
	Slug string
	Name string
	// tipe AsosiasiScoped juga memfilter item biaya per id asosiasi
	AsosiasiScoped bool
	Menu           MenuConfig
}

var LegacyTypes = []LegacyType{
	{
		Slug:           SlugSbuKonstruksi,
		Name:           "SBU Konstruksi",
		AsosiasiScoped: true,
		Menu:           MenuConfig{Sections: []string{SectionAsosiasi, SectionKlasifikasi, SectionKualifikasi, SectionBiayaSetor, SectionBiayaLainnya}},
	},
	{
		Slug:           SlugSbuKonsultan,
		Name:           "SBU Konsultan",
		AsosiasiScoped: true,
		Menu:           MenuConfig{Sections: []string{SectionAsosiasi, SectionKlasifikasi, SectionKualifikasi, SectionBiayaSetor, SectionBiayaLainnya}},
	},
	{
		Slug: SlugSkkKonstruksi,
		Name: "SKK Konstruksi",
		Menu: MenuConfig{
			Sections: []string{SectionKlasifikasi, SectionKualifikasi, SectionBiayaSetor, SectionBiayaLainnya},
			Labels:   map[string]string{SectionKualifikasi: "Jenjang"},
		},
	},
	{
		Slug: SlugSmap,
		Name: "SMAP",
		Menu: MenuConfig{Sections: []string{SectionBiayaSetor, SectionBiayaLainnya}},
	},
	{
		Slug: SlugSimpk,
		Name: "SIMPK",
		Menu: MenuConfig{Sections: []string{SectionBiayaSetor, SectionBiayaLainnya}},
	},
	{
		Slug: SlugNotaris,
		Name: "Notaris",
		Menu: MenuConfig{Sections: []string{SectionKualifikasi, SectionBiayaSetor, SectionBiayaLainnya}},
	},
}

func LookupLegacy(slug string) (LegacyType, bool) {
	for _, t := range LegacyTypes {
		if t.Slug == slug {
			return t, true
		}
	}
	return LegacyType{}, false
}

func IsLegacy(slug string) bool {
	_, ok := LookupLegacy(slug)
	return ok
}

// IsAsosiasiScoped: item biaya tipe ini dikelompokkan per asosiasi.
func IsAsosiasiScoped(slug string) bool {
	t, ok := LookupLegacy(slug)
	return ok && t.AsosiasiScoped
}

// SeedRows mengembalikan row SbuType untuk tipe lama.
func SeedRows() []models.SbuType {
	rows := make([]models.SbuType, 0, len(LegacyTypes))
	for _, t := range LegacyTypes {
		rows = append(rows, models.SbuType{
			Slug:       t.Slug,
			Name:       t.Name,
			MenuConfig: t.Menu.JSON(),
		})
	}
	return rows
}
