package response

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// notblank: string berisi spasi saja dianggap kosong
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	// pakai nama field JSON di pesan error
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func Validator() *validator.Validate {
	return validate
}

// Validate menjalankan tag `validate` dan mengubah hasilnya jadi *ValidationError.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return &ValidationError{Message: "Input tidak valid", Fields: map[string]string{}}
	}
	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		key := fe.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[key] = rule
	}
	return &ValidationError{Message: "Validasi gagal", Fields: fields}
}

// ParseBody membaca body JSON lalu memvalidasinya.
func ParseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return &ValidationError{
			Message: "Body request tidak valid",
			Fields:  map[string]string{"body": err.Error()},
		}
	}
	return Validate(dst)
}
