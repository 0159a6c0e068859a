package certificate

import (
	"errors"
	"fmt"
	"strings"

	"sertifikasi-backend/internal/audit"
	"sertifikasi-backend/internal/auth"
	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/refdata"
	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// LoadRows membaca tabel referensi. Tanpa sbuTypeIDs semua tipe dibaca.
func LoadRows(db *gorm.DB, sbuTypeIDs ...uint) (refdata.Rows, error) {
	var rows refdata.Rows

	scope := func(q *gorm.DB, col string) *gorm.DB {
		if len(sbuTypeIDs) == 0 {
			return q
		}
		return q.Where(col+" IN ?", sbuTypeIDs)
	}

	if err := scope(db.Order("id ASC"), "id").Find(&rows.SbuTypes).Error; err != nil {
		return rows, err
	}
	if err := scope(db.Order("id ASC"), "sbu_type_id").Find(&rows.Asosiasi).Error; err != nil {
		return rows, err
	}
	if err := scope(db.Order("id ASC"), "sbu_type_id").Find(&rows.Klasifikasi).Error; err != nil {
		return rows, err
	}
	if err := scope(db.Order("id ASC"), "sbu_type_id").Find(&rows.Items).Error; err != nil {
		return rows, err
	}
	return rows, nil
}

func LoadBundle(db *gorm.DB) (refdata.Bundle, error) {
	rows, err := LoadRows(db)
	if err != nil {
		return refdata.Bundle{}, err
	}
	return refdata.BuildBundle(rows), nil
}

func LoadEntry(db *gorm.DB, sbu models.SbuType) (refdata.SbuEntry, error) {
	rows, err := LoadRows(db, sbu.ID)
	if err != nil {
		return refdata.SbuEntry{}, err
	}
	return refdata.BuildEntry(sbu, rows), nil
}

func cleanList(in []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ReplaceReferenceData mengganti seluruh asosiasi, klasifikasi dan biaya satu
// tipe sertifikat dalam satu transaksi. Gagal di langkah mana pun = rollback.
// Replace paralel untuk slug yang sama tidak dikoordinasikan selain oleh isolasi DB.
func ReplaceReferenceData(db *gorm.DB, actor auth.Actor, p refdata.ReplacePayload) (refdata.SbuEntry, error) {
	var sbu models.SbuType
	if err := db.Where("slug = ?", p.Slug).First(&sbu).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return refdata.SbuEntry{}, fiber.NewError(fiber.StatusNotFound, "Tipe sertifikat tidak ditemukan")
		}
		return refdata.SbuEntry{}, err
	}

	planned, err := refdata.Plan(sbu.Slug, p)
	if err != nil {
		var pe *refdata.PayloadError
		if errors.As(err, &pe) {
			return refdata.SbuEntry{}, response.NewValidationError(pe.Field, pe.Message)
		}
		return refdata.SbuEntry{}, err
	}

	before, err := LoadEntry(db, sbu)
	if err != nil {
		return refdata.SbuEntry{}, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sbu_type_id = ?", sbu.ID).Delete(&models.BiayaItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sbu_type_id = ?", sbu.ID).Delete(&models.Klasifikasi{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sbu_type_id = ?", sbu.ID).Delete(&models.Asosiasi{}).Error; err != nil {
			return err
		}

		asosiasiIDs := make(map[string]uint, len(p.Asosiasi))
		for _, in := range p.Asosiasi {
			a := models.Asosiasi{
				SbuTypeID:   sbu.ID,
				Name:        strings.TrimSpace(in.Name),
				Klasifikasi: cleanList(in.Klasifikasi),
			}
			if err := tx.Create(&a).Error; err != nil {
				return err
			}
			asosiasiIDs[a.Name] = a.ID
		}

		for _, in := range p.Klasifikasi {
			k := models.Klasifikasi{
				SbuTypeID:      sbu.ID,
				Name:           strings.TrimSpace(in.Name),
				SubKlasifikasi: cleanList(in.SubKlasifikasi),
				Kualifikasi:    cleanList(in.Kualifikasi),
				SubBidang:      cleanList(in.SubBidang),
			}
			if in.Asosiasi != nil && strings.TrimSpace(*in.Asosiasi) != "" {
				id, ok := asosiasiIDs[strings.TrimSpace(*in.Asosiasi)]
				if !ok {
					return fmt.Errorf("asosiasi %q tidak ditemukan", *in.Asosiasi)
				}
				k.AsosiasiID = &id
			}
			if err := tx.Create(&k).Error; err != nil {
				return err
			}
		}

		for _, pi := range planned {
			item := models.BiayaItem{
				SbuTypeID: sbu.ID,
				Category:  pi.Target.Category,
				Name:      strings.TrimSpace(pi.Input.Name),
				Kode:      pi.Input.Kode,
				Biaya:     pi.Input.Biaya,
			}
			if pi.Target.Asosiasi != "" {
				id, ok := asosiasiIDs[pi.Target.Asosiasi]
				if !ok {
					return fmt.Errorf("asosiasi %q tidak ditemukan", pi.Target.Asosiasi)
				}
				item.AsosiasiID = &id
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		return audit.WriteLogTx(tx, audit.LogOptions{
			UserID:      actor.ID,
			UserName:    actor.Name,
			EntityType:  "reference_data",
			EntityID:    sbu.ID,
			Action:      models.AuditActionReplace,
			Description: fmt.Sprintf("Data referensi %s diganti (%d asosiasi, %d klasifikasi, %d biaya)", sbu.Slug, len(p.Asosiasi), len(p.Klasifikasi), len(planned)),
			Before:      before,
			After:       p,
		})
	})
	if err != nil {
		return refdata.SbuEntry{}, err
	}

	return LoadEntry(db, sbu)
}
