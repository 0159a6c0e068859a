package refdata

import (
	"fmt"
	"sort"
	"strings"
)

type AsosiasiInput struct {
	Name        string   `json:"name" validate:"required,notblank,max=150"`
	Klasifikasi []string `json:"klasifikasi"`
}

type KlasifikasiInput struct {
	Name           string   `json:"name" validate:"required,notblank,max=255"`
	Asosiasi       *string  `json:"asosiasi"`
	SubKlasifikasi []string `json:"subKlasifikasi"`
	Kualifikasi    []string `json:"kualifikasi"`
	SubBidang      []string `json:"subBidang"`
}

type ItemInput struct {
	Name  string  `json:"name" validate:"required,notblank,max=255"`
	Kode  *string `json:"kode" validate:"omitempty,max=50"`
	Biaya int64   `json:"biaya" validate:"gte=0"`
}

// ReplacePayload adalah body replace penuh data referensi.
type ReplacePayload struct {
	Slug        string                 `json:"slug" validate:"required,notblank"`
	Asosiasi    []AsosiasiInput        `json:"asosiasi" validate:"dive"`
	Klasifikasi []KlasifikasiInput     `json:"klasifikasi" validate:"dive"`
	Items       map[string][]ItemInput `json:"items" validate:"dive,dive"`
}

// PayloadError: payload valid secara format tapi tidak cocok dengan tipe
// tujuan. Pemanggil melaporkannya sebagai error validasi.
type PayloadError struct {
	Field   string
	Message string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PlannedItem adalah satu item biaya dengan kategori dan nama asosiasinya.
type PlannedItem struct {
	Key    string
	Target ItemTarget
	Input  ItemInput
}

// Plan mencocokkan payload dengan pemetaan key slug dan mengembalikan item
// sesuai urutan insert (key diurutkan, urutan payload di dalam key).
// Nama asosiasi hanya dicek terhadap payload karena asosiasi dibuat ulang darinya.
func Plan(slug string, p ReplacePayload) ([]PlannedItem, error) {
	asosiasi := make(map[string]bool, len(p.Asosiasi))
	for i, a := range p.Asosiasi {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, &PayloadError{Field: fmt.Sprintf("asosiasi[%d].name", i), Message: "nama wajib diisi"}
		}
		if asosiasi[name] {
			return nil, &PayloadError{
				Field:   fmt.Sprintf("asosiasi[%d].name", i),
				Message: fmt.Sprintf("asosiasi %q duplikat", name),
			}
		}
		asosiasi[name] = true
	}

	for i, k := range p.Klasifikasi {
		if strings.TrimSpace(k.Name) == "" {
			return nil, &PayloadError{Field: fmt.Sprintf("klasifikasi[%d].name", i), Message: "nama wajib diisi"}
		}
		if k.Asosiasi == nil || strings.TrimSpace(*k.Asosiasi) == "" {
			continue
		}
		if !asosiasi[strings.TrimSpace(*k.Asosiasi)] {
			return nil, &PayloadError{
				Field:   fmt.Sprintf("klasifikasi[%d].asosiasi", i),
				Message: fmt.Sprintf("asosiasi %q tidak ada di payload", *k.Asosiasi),
			}
		}
	}

	keys := make([]string, 0, len(p.Items))
	for k := range p.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	planned := make([]PlannedItem, 0)
	for _, key := range keys {
		target, err := ResolveItemKey(slug, key)
		if err != nil {
			return nil, &PayloadError{Field: "items." + key, Message: err.Error()}
		}
		items := p.Items[key]
		if target.Asosiasi != "" && len(items) > 0 && !asosiasi[target.Asosiasi] {
			return nil, &PayloadError{
				Field:   "items." + key,
				Message: fmt.Sprintf("butuh asosiasi %q di payload", target.Asosiasi),
			}
		}
		for j, in := range items {
			if strings.TrimSpace(in.Name) == "" {
				return nil, &PayloadError{Field: fmt.Sprintf("items.%s[%d].name", key, j), Message: "nama wajib diisi"}
			}
			planned = append(planned, PlannedItem{Key: key, Target: target, Input: in})
		}
	}
	return planned, nil
}
