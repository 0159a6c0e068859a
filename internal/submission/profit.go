package submission

import (
	"bytes"
	"errors"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

var (
	errNotObject  = errors.New("harus berupa objek JSON")
	errNotInteger = errors.New("biaya harus bilangan bulat")
)

// CostSnapshot adalah salinan item biaya yang dipilih saat pengajuan dibuat.
type CostSnapshot struct {
	ID    *uint   `json:"id,omitempty"`
	Name  string  `json:"name"`
	Kode  *string `json:"kode,omitempty"`
	Biaya int64   `json:"biaya"`
}

func isNull(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func isObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// ParseCostSnapshot mengembalikan nil untuk snapshot kosong.
func ParseCostSnapshot(raw datatypes.JSON) (*CostSnapshot, error) {
	if isNull(raw) {
		return nil, nil
	}
	if !isObject(raw) {
		return nil, errNotObject
	}
	var probe map[string]interface{}
	if err := sonic.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	biaya, ok := probe["biaya"]
	if !ok {
		return nil, errors.New("biaya wajib diisi")
	}
	// null lolos Unmarshal sebagai 0, jadi tolak di sini
	if _, isNumber := biaya.(float64); !isNumber {
		return nil, errNotInteger
	}
	var snap CostSnapshot
	if err := sonic.Unmarshal(raw, &snap); err != nil {
		return nil, errNotInteger
	}
	if snap.Biaya < 0 {
		return nil, errors.New("biaya tidak boleh negatif")
	}
	return &snap, nil
}

func costOf(s *CostSnapshot) int64 {
	if s == nil {
		return 0
	}
	return s.Biaya
}

// Keuntungan = setor kantor - biaya kualifikasi - biaya lainnya. Boleh negatif.
func Keuntungan(deposit int64, kualifikasi, biayaLainnya *CostSnapshot) int64 {
	return deposit - costOf(kualifikasi) - costOf(biayaLainnya)
}

// sameJSON membandingkan dua dokumen JSON tanpa peduli urutan key dan spasi.
func sameJSON(a, b []byte) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) == isNull(b)
	}
	var va, vb interface{}
	if sonic.Unmarshal(a, &va) != nil || sonic.Unmarshal(b, &vb) != nil {
		return bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b))
	}
	na, errA := sonic.ConfigStd.Marshal(va)
	nb, errB := sonic.ConfigStd.Marshal(vb)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(na, nb)
}

// ProfitInputs adalah tiga nilai yang menentukan keuntungan.
type ProfitInputs struct {
	BiayaSetorKantor int64
	Kualifikasi      datatypes.JSON
	BiayaLainnya     datatypes.JSON
}

// ProfitInputsChanged true bila salah satu input keuntungan berbeda dari yang tersimpan.
func ProfitInputsChanged(stored, next ProfitInputs) bool {
	if stored.BiayaSetorKantor != next.BiayaSetorKantor {
		return true
	}
	return !sameJSON(stored.Kualifikasi, next.Kualifikasi) || !sameJSON(stored.BiayaLainnya, next.BiayaLainnya)
}
