package refdata

import (
	"sort"

	"sertifikasi-backend/internal/models"
)

// Rows adalah isi mentah tabel referensi.
type Rows struct {
	SbuTypes    []models.SbuType
	Asosiasi    []models.Asosiasi
	Klasifikasi []models.Klasifikasi
	Items       []models.BiayaItem
}

type ItemDTO struct {
	ID         uint                 `json:"id"`
	AsosiasiID *uint                `json:"asosiasiId"`
	Category   models.BiayaCategory `json:"category"`
	Name       string               `json:"name"`
	Kode       *string              `json:"kode"`
	Biaya      int64                `json:"biaya"`
}

type AsosiasiDTO struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Klasifikasi  []string  `json:"klasifikasi"`
	Kualifikasi  []ItemDTO `json:"kualifikasi"`
	BiayaSetor   []ItemDTO `json:"biayaSetor"`
	BiayaLainnya []ItemDTO `json:"biayaLainnya"`
}

type KlasifikasiDTO struct {
	ID             uint     `json:"id"`
	AsosiasiID     *uint    `json:"asosiasiId"`
	Asosiasi       *string  `json:"asosiasi"`
	Name           string   `json:"name"`
	SubKlasifikasi []string `json:"subKlasifikasi"`
	Kualifikasi    []string `json:"kualifikasi"`
	SubBidang      []string `json:"subBidang"`
}

// SbuEntry adalah bentuk umum per slug.
type SbuEntry struct {
	ID             uint             `json:"id"`
	Slug           string           `json:"slug"`
	Name           string           `json:"name"`
	MenuConfig     *MenuConfig      `json:"menuConfig"`
	AsosiasiScoped bool             `json:"asosiasiScoped"`
	Asosiasi       []AsosiasiDTO    `json:"asosiasi"`
	Klasifikasi    []KlasifikasiDTO `json:"klasifikasi"`
	Kualifikasi    []ItemDTO        `json:"kualifikasi"`
	BiayaSetor     []ItemDTO        `json:"biayaSetor"`
	BiayaLainnya   []ItemDTO        `json:"biayaLainnya"`
}

// ScopedLegacy adalah blok lama untuk dua tipe konstruksi, di mana biaya
// kualifikasi dan setor dikelompokkan per nama asosiasi.
type ScopedLegacy struct {
	Asosiasi     []AsosiasiDTO        `json:"asosiasi"`
	Klasifikasi  []KlasifikasiDTO     `json:"klasifikasi"`
	Kualifikasi  map[string][]ItemDTO `json:"kualifikasi"`
	BiayaSetor   map[string][]ItemDTO `json:"biayaSetor"`
	BiayaLainnya []ItemDTO            `json:"biayaLainnya"`
}

type FlatLegacy struct {
	Klasifikasi  []KlasifikasiDTO `json:"klasifikasi"`
	Kualifikasi  []ItemDTO        `json:"kualifikasi"`
	BiayaSetor   []ItemDTO        `json:"biayaSetor"`
	BiayaLainnya []ItemDTO        `json:"biayaLainnya"`
}

// Bundle menyimpan field lama untuk client lama di samping map umum yang
// mencakup semua tipe.
type Bundle struct {
	SbuKonstruksi *ScopedLegacy       `json:"sbuKonstruksi"`
	SbuKonsultan  *ScopedLegacy       `json:"sbuKonsultan"`
	SkkKonstruksi *FlatLegacy         `json:"skkKonstruksi"`
	Smap          *FlatLegacy         `json:"smap"`
	Simpk         *FlatLegacy         `json:"simpk"`
	Notaris       *FlatLegacy         `json:"notaris"`
	BySlug        map[string]SbuEntry `json:"bySlug"`
}

func sameAsosiasi(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// FilterItems memilih item biaya satu tipe dan kategori. Bila scoped, asosiasi
// juga harus cocok; asosiasiID nil hanya cocok dengan item tanpa asosiasi.
func FilterItems(items []models.BiayaItem, sbuTypeID uint, category models.BiayaCategory, asosiasiID *uint, scoped bool) []ItemDTO {
	out := make([]ItemDTO, 0)
	for _, it := range items {
		if it.SbuTypeID != sbuTypeID || it.Category != category {
			continue
		}
		if scoped && !sameAsosiasi(it.AsosiasiID, asosiasiID) {
			continue
		}
		out = append(out, toItemDTO(it))
	}
	return out
}

func toItemDTO(it models.BiayaItem) ItemDTO {
	return ItemDTO{
		ID:         it.ID,
		AsosiasiID: it.AsosiasiID,
		Category:   it.Category,
		Name:       it.Name,
		Kode:       it.Kode,
		Biaya:      it.Biaya,
	}
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// BuildEntry membentuk entry satu SbuType.
func BuildEntry(t models.SbuType, rows Rows) SbuEntry {
	scoped := IsAsosiasiScoped(t.Slug)
	menu, _ := ParseMenuConfig(t.MenuConfig)

	entry := SbuEntry{
		ID:             t.ID,
		Slug:           t.Slug,
		Name:           t.Name,
		MenuConfig:     menu,
		AsosiasiScoped: scoped,
		Asosiasi:       make([]AsosiasiDTO, 0),
		Klasifikasi:    make([]KlasifikasiDTO, 0),
		Kualifikasi:    FilterItems(rows.Items, t.ID, models.CategoryKualifikasi, nil, scoped),
		BiayaSetor:     FilterItems(rows.Items, t.ID, models.CategoryBiayaSetor, nil, scoped),
		BiayaLainnya:   FilterItems(rows.Items, t.ID, models.CategoryBiayaLainnya, nil, scoped),
	}

	names := make(map[uint]string)
	for _, a := range rows.Asosiasi {
		if a.SbuTypeID != t.ID {
			continue
		}
		names[a.ID] = a.Name
		dto := AsosiasiDTO{
			ID:           a.ID,
			Name:         a.Name,
			Klasifikasi:  stringsOrEmpty(a.Klasifikasi),
			Kualifikasi:  make([]ItemDTO, 0),
			BiayaSetor:   make([]ItemDTO, 0),
			BiayaLainnya: make([]ItemDTO, 0),
		}
		if scoped {
			id := a.ID
			dto.Kualifikasi = FilterItems(rows.Items, t.ID, models.CategoryKualifikasi, &id, true)
			dto.BiayaSetor = FilterItems(rows.Items, t.ID, models.CategoryBiayaSetor, &id, true)
			dto.BiayaLainnya = FilterItems(rows.Items, t.ID, models.CategoryBiayaLainnya, &id, true)
		}
		entry.Asosiasi = append(entry.Asosiasi, dto)
	}

	for _, k := range rows.Klasifikasi {
		if k.SbuTypeID != t.ID {
			continue
		}
		dto := KlasifikasiDTO{
			ID:             k.ID,
			AsosiasiID:     k.AsosiasiID,
			Name:           k.Name,
			SubKlasifikasi: stringsOrEmpty(k.SubKlasifikasi),
			Kualifikasi:    stringsOrEmpty(k.Kualifikasi),
			SubBidang:      stringsOrEmpty(k.SubBidang),
		}
		if k.AsosiasiID != nil {
			if name, ok := names[*k.AsosiasiID]; ok {
				dto.Asosiasi = &name
			}
		}
		entry.Klasifikasi = append(entry.Klasifikasi, dto)
	}

	return entry
}

func scopedLegacy(e SbuEntry) *ScopedLegacy {
	l := &ScopedLegacy{
		Asosiasi:     e.Asosiasi,
		Klasifikasi:  e.Klasifikasi,
		Kualifikasi:  make(map[string][]ItemDTO),
		BiayaSetor:   make(map[string][]ItemDTO),
		BiayaLainnya: e.BiayaLainnya,
	}
	for _, a := range e.Asosiasi {
		l.Kualifikasi[a.Name] = a.Kualifikasi
		l.BiayaSetor[a.Name] = a.BiayaSetor
	}
	return l
}

func flatLegacy(e SbuEntry) *FlatLegacy {
	return &FlatLegacy{
		Klasifikasi:  e.Klasifikasi,
		Kualifikasi:  e.Kualifikasi,
		BiayaSetor:   e.BiayaSetor,
		BiayaLainnya: e.BiayaLainnya,
	}
}

// BuildBundle menghasilkan kedua bentuk baca dari row yang sama.
func BuildBundle(rows Rows) Bundle {
	b := Bundle{BySlug: make(map[string]SbuEntry, len(rows.SbuTypes))}

	types := append([]models.SbuType(nil), rows.SbuTypes...)
	sort.SliceStable(types, func(i, j int) bool { return types[i].ID < types[j].ID })

	for _, t := range types {
		e := BuildEntry(t, rows)
		b.BySlug[t.Slug] = e

		switch t.Slug {
		case SlugSbuKonstruksi:
			b.SbuKonstruksi = scopedLegacy(e)
		case SlugSbuKonsultan:
			b.SbuKonsultan = scopedLegacy(e)
		case SlugSkkKonstruksi:
			b.SkkKonstruksi = flatLegacy(e)
		case SlugSmap:
			b.Smap = flatLegacy(e)
		case SlugSimpk:
			b.Simpk = flatLegacy(e)
		case SlugNotaris:
			b.Notaris = flatLegacy(e)
		}
	}
	return b
}
