package refdata

import (
	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

const (
	SectionAsosiasi     = "asosiasi"
	SectionKlasifikasi  = "klasifikasi"
	SectionKualifikasi  = "kualifikasi"
	SectionBiayaSetor   = "biayaSetor"
	SectionBiayaLainnya = "biayaLainnya"
)

var AllSections = []string{
	SectionAsosiasi,
	SectionKlasifikasi,
	SectionKualifikasi,
	SectionBiayaSetor,
	SectionBiayaLainnya,
}

// MenuConfig menentukan bagian referensi mana yang tampil untuk satu tipe
// sertifikat beserta labelnya.
type MenuConfig struct {
	Sections []string          `json:"sections" validate:"omitempty,dive,oneof=asosiasi klasifikasi kualifikasi biayaSetor biayaLainnya"`
	Labels   map[string]string `json:"labels,omitempty"`
}

func (m MenuConfig) JSON() datatypes.JSON {
	b, err := sonic.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// ParseMenuConfig mengembalikan nil untuk kolom kosong.
func ParseMenuConfig(raw datatypes.JSON) (*MenuConfig, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var m MenuConfig
	if err := sonic.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
