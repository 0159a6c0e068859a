package response

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ValidationError dikirim sebagai 422 beserta detail per field.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{
		Message: msg,
		Fields:  map[string]string{field: msg},
	}
}

// Unprocessable: 422 tanpa detail field.
func Unprocessable(msg string) error {
	return fiber.NewError(fiber.StatusUnprocessableEntity, msg)
}

// NotFound mengubah gorm.ErrRecordNotFound jadi 404 dengan pesan msg.
// Error DB lain diteruskan supaya tercatat sebagai 500.
func NotFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, msg)
	}
	return err
}

// ErrorHandler dipasang di fiber.Config, semua error handler lewat sini.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": ve.Message,
			"errors":  ve.Fields,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Fail(c, fe.Code, fe.Message)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail(c, fiber.StatusNotFound, "Data tidak ditemukan")
	}

	if mapped := FromDBError(err); mapped != err {
		return ErrorHandler(c, mapped)
	}

	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	return Fail(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
}

// FromDBError menerjemahkan pelanggaran constraint Postgres ke 422.
// Error lain dikembalikan apa adanya.
func FromDBError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return &ValidationError{
			Message: "Data sudah ada",
			Fields:  map[string]string{columnOf(pgErr): "unique"},
		}
	case "23503":
		return Unprocessable("Data masih dipakai oleh data lain")
	}
	return err
}

func columnOf(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return "data"
}
