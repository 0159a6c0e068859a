package dashboard

import (
	"strconv"
	"time"

	"sertifikasi-backend/internal/params"
	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
)

// Period adalah rentang tanggal inklusif. Batas nil berarti tidak dibatasi.
type Period struct {
	Start *time.Time
	End   *time.Time
}

// monthIndex memberi nomor urut bulan sehingga (tahun, bulan) bisa dibandingkan sebagai satu angka.
func monthIndex(year, month int) int {
	return year*12 + (month - 1)
}

// FeeMonthRange mengembalikan batas monthIndex fee yang periodenya beririsan dengan p.
func (p Period) FeeMonthRange() (lo, hi *int) {
	if p.Start != nil {
		v := monthIndex(p.Start.Year(), int(p.Start.Month()))
		lo = &v
	}
	if p.End != nil {
		v := monthIndex(p.End.Year(), int(p.End.Month()))
		hi = &v
	}
	return lo, hi
}

// MonthPeriod: seluruh bulan tertentu, atau seluruh tahun bila month = 0.
func MonthPeriod(year, month int) Period {
	var start, end time.Time
	if month == 0 {
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	} else {
		start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	}
	return Period{Start: &start, End: &end}
}

func queryInt(c *fiber.Ctx, name string, min, max int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		return 0, response.NewValidationError(name, name+" tidak valid")
	}
	return n, nil
}

// ResolvePeriod membaca ?start_date=&end_date= atau ?bulan=&tahun=.
func ResolvePeriod(c *fiber.Ctx) (Period, error) {
	tahun, err := queryInt(c, "tahun", 2000, 2100)
	if err != nil {
		return Period{}, err
	}
	bulan, err := queryInt(c, "bulan", 1, 12)
	if err != nil {
		return Period{}, err
	}
	if bulan > 0 && tahun == 0 {
		return Period{}, response.NewValidationError("tahun", "tahun wajib diisi bila bulan diisi")
	}
	if tahun > 0 {
		return MonthPeriod(tahun, bulan), nil
	}

	rng, err := params.QueryDateRange(c)
	if err != nil {
		return Period{}, err
	}
	return Period{Start: rng.Start, End: rng.End}, nil
}
