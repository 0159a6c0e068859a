package dashboard

import (
	"sertifikasi-backend/internal/auth"
	"sertifikasi-backend/internal/models"

	"gorm.io/gorm"
)

type Summary struct {
	TotalSubmissions          int64 `json:"totalSubmissions"`
	TotalKeuntunganSubmission int64 `json:"totalKeuntunganSubmission"`
	TotalFeeP3sm              int64 `json:"totalFeeP3sm"`
	TotalKeuntungan           int64 `json:"totalKeuntungan"`
	TotalBiayaSetor           int64 `json:"totalBiayaSetor"`
	TotalPengeluaran          int64 `json:"totalPengeluaran"`
	TotalTabungan             int64 `json:"totalTabungan"`
	TotalKas                  int64 `json:"totalKas"`
}

type RankingEntry struct {
	MarketingName   string `json:"marketingName" gorm:"column:marketing_name"`
	TotalSubmission int64  `json:"totalSubmission" gorm:"column:total_submission"`
	TotalKeuntungan int64  `json:"totalKeuntungan" gorm:"column:total_keuntungan"`
}

type ChartPoint struct {
	Bulan       int   `json:"bulan"`
	Keuntungan  int64 `json:"keuntungan"`
	FeeP3sm     int64 `json:"feeP3sm"`
	Pengeluaran int64 `json:"pengeluaran"`
	Total       int64 `json:"total"`
}

type Chart struct {
	Tahun  int          `json:"tahun"`
	Points []ChartPoint `json:"points"`
	Totals ChartPoint   `json:"totals"`
}

type monthTotal struct {
	Bulan int
	Total int64
}

func withDates(q *gorm.DB, p Period) *gorm.DB {
	if p.Start != nil {
		q = q.Where("date >= ?", *p.Start)
	}
	if p.End != nil {
		q = q.Where("date <= ?", *p.End)
	}
	return q
}

// withFeePeriod: fee ikut dihitung bila bulannya beririsan dengan periode.
func withFeePeriod(q *gorm.DB, p Period) *gorm.DB {
	lo, hi := p.FeeMonthRange()
	if lo != nil {
		q = q.Where("tahun * 12 + (bulan - 1) >= ?", *lo)
	}
	if hi != nil {
		q = q.Where("tahun * 12 + (bulan - 1) <= ?", *hi)
	}
	return q
}

// Summarize menghitung angka ringkasan. Pengajuan dan transaksi mengikuti scope role,
// fee P3SM berlaku untuk semua role.
func Summarize(db *gorm.DB, policy auth.Policy, p Period) (Summary, error) {
	var s Summary

	var sub struct {
		Cnt        int64
		Keuntungan int64
		BiayaSetor int64
	}
	subQ := withDates(policy.ScopeOwned(db.Model(&models.Submission{}), "submitted_by_id"), p)
	if err := subQ.Select("COUNT(*) AS cnt, COALESCE(SUM(keuntungan), 0) AS keuntungan, COALESCE(SUM(biaya_setor_kantor), 0) AS biaya_setor").
		Scan(&sub).Error; err != nil {
		return s, err
	}

	var fee int64
	if err := withFeePeriod(db.Model(&models.FeeP3sm{}), p).
		Select("COALESCE(SUM(biaya), 0)").Scan(&fee).Error; err != nil {
		return s, err
	}

	var perType []struct {
		Type  models.TransactionType
		Total int64
	}
	trxQ := withDates(policy.ScopeOwned(db.Model(&models.Transaction{}), "submitted_by_id"), p)
	if err := trxQ.Select("type, COALESCE(SUM(biaya), 0) AS total").Group("type").Scan(&perType).Error; err != nil {
		return s, err
	}

	s.TotalSubmissions = sub.Cnt
	s.TotalKeuntunganSubmission = sub.Keuntungan
	s.TotalBiayaSetor = sub.BiayaSetor
	s.TotalFeeP3sm = fee
	s.TotalKeuntungan = sub.Keuntungan + fee
	for _, t := range perType {
		switch t.Type {
		case models.TransactionPengeluaran:
			s.TotalPengeluaran = t.Total
		case models.TransactionTabungan:
			s.TotalTabungan = t.Total
		case models.TransactionKas:
			s.TotalKas = t.Total
		}
	}
	return s, nil
}

// Rank mengurutkan marketing berdasarkan jumlah pengajuan lalu total keuntungan.
func Rank(db *gorm.DB, policy auth.Policy, p Period, limit int) ([]RankingEntry, error) {
	list := make([]RankingEntry, 0)
	q := withDates(policy.ScopeOwned(db.Model(&models.Submission{}), "submitted_by_id"), p)
	err := q.Select("marketing_name, COUNT(*) AS total_submission, COALESCE(SUM(keuntungan), 0) AS total_keuntungan").
		Group("marketing_name").
		Order("total_submission DESC, total_keuntungan DESC, marketing_name ASC").
		Limit(limit).
		Scan(&list).Error
	return list, err
}

// MonthlyChart membuat 12 titik (Januari..Desember) untuk satu tahun.
func MonthlyChart(db *gorm.DB, policy auth.Policy, year int) (Chart, error) {
	chart := Chart{Tahun: year, Points: make([]ChartPoint, 12)}
	for i := range chart.Points {
		chart.Points[i].Bulan = i + 1
	}
	p := MonthPeriod(year, 0)

	var profit []monthTotal
	if err := withDates(policy.ScopeOwned(db.Model(&models.Submission{}), "submitted_by_id"), p).
		Select("CAST(EXTRACT(MONTH FROM date) AS INTEGER) AS bulan, COALESCE(SUM(keuntungan), 0) AS total").
		Group("bulan").Scan(&profit).Error; err != nil {
		return chart, err
	}

	var fees []monthTotal
	if err := db.Model(&models.FeeP3sm{}).Where("tahun = ?", year).
		Select("bulan, COALESCE(SUM(biaya), 0) AS total").
		Group("bulan").Scan(&fees).Error; err != nil {
		return chart, err
	}

	var spend []monthTotal
	if err := withDates(policy.ScopeOwned(db.Model(&models.Transaction{}), "submitted_by_id"), p).
		Where("type = ?", models.TransactionPengeluaran).
		Select("CAST(EXTRACT(MONTH FROM date) AS INTEGER) AS bulan, COALESCE(SUM(biaya), 0) AS total").
		Group("bulan").Scan(&spend).Error; err != nil {
		return chart, err
	}

	fill(chart.Points, profit, func(pt *ChartPoint, v int64) { pt.Keuntungan = v })
	fill(chart.Points, fees, func(pt *ChartPoint, v int64) { pt.FeeP3sm = v })
	fill(chart.Points, spend, func(pt *ChartPoint, v int64) { pt.Pengeluaran = v })

	for i := range chart.Points {
		pt := &chart.Points[i]
		pt.Total = pt.Keuntungan + pt.FeeP3sm
		chart.Totals.Keuntungan += pt.Keuntungan
		chart.Totals.FeeP3sm += pt.FeeP3sm
		chart.Totals.Pengeluaran += pt.Pengeluaran
		chart.Totals.Total += pt.Total
	}
	return chart, nil
}

func fill(points []ChartPoint, rows []monthTotal, set func(*ChartPoint, int64)) {
	for _, r := range rows {
		if r.Bulan >= 1 && r.Bulan <= len(points) {
			set(&points[r.Bulan-1], r.Total)
		}
	}
}
