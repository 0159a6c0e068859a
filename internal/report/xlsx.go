// Package report membuat file Excel untuk endpoint export.
package report

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Table adalah satu sheet: baris header lalu baris data.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]interface{}
}

// Build menulis tabel ke workbook baru. Sheet bawaan "Sheet1" diganti nama.
func Build(t Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", t.Sheet); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(t.Sheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil && len(t.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
		_ = f.SetCellStyle(t.Sheet, "A1", last, bold)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		r := row
		if err := f.SetSheetRow(t.Sheet, cell, &r); err != nil {
			f.Close()
			return nil, fmt.Errorf("baris %d: %w", i+1, err)
		}
	}
	return f, nil
}

// Send mengirim tabel sebagai attachment .xlsx.
func Send(c *fiber.Ctx, filename string, t Table) error {
	f, err := Build(t)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "File Excel tidak bisa dibuat")
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "File Excel tidak bisa ditulis")
	}

	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, contentTypeXLSX)
	return c.Send(buf.Bytes())
}
