// Package params membaca nilai path dan query yang dipakai bersama oleh handler.
package params

import (
	"strconv"
	"strings"
	"time"

	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
)

const DateLayout = "2006-01-02"

func ID(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "Data tidak ditemukan")
	}
	return uint(v), nil
}

func ParseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, response.NewValidationError(field, "format tanggal harus YYYY-MM-DD")
	}
	return d, nil
}

// DateRange membaca ?start_date= dan ?end_date= (inklusif). Nilai kosong = tanpa batas.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) Empty() bool {
	return r.Start == nil && r.End == nil
}

func QueryDateRange(c *fiber.Ctx) (DateRange, error) {
	var r DateRange
	if v := c.Query("start_date"); v != "" {
		d, err := ParseDate("start_date", v)
		if err != nil {
			return r, err
		}
		r.Start = &d
	}
	if v := c.Query("end_date"); v != "" {
		d, err := ParseDate("end_date", v)
		if err != nil {
			return r, err
		}
		r.End = &d
	}
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return r, response.NewValidationError("end_date", "end_date tidak boleh sebelum start_date")
	}
	return r, nil
}

// QueryUint membaca query angka positif, 0 bila kosong.
func QueryUint(c *fiber.Ctx, name string) (uint, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, response.NewValidationError(name, name+" tidak valid")
	}
	return uint(n), nil
}
