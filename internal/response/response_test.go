package response

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Errors     map[string]string `json:"errors"`
	Data       interface{}       `json:"data"`
	Pagination *Pagination       `json:"pagination"`
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
	})
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, sonic.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestErrorHandlerMapping(t *testing.T) {
	app := newApp()
	app.Get("/validation", func(c *fiber.Ctx) error { return NewValidationError("name", "wajib diisi") })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusForbidden, "dilarang") })
	app.Get("/notfound", func(c *fiber.Ctx) error { return gorm.ErrRecordNotFound })
	app.Get("/unique", func(c *fiber.Ctx) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"}
	})
	app.Get("/fk", func(c *fiber.Ctx) error { return &pgconn.PgError{Code: "23503"} })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("rahasia internal") })

	code, env := doRequest(t, app, "GET", "/validation", "")
	assert.Equal(t, 422, code)
	assert.False(t, env.Success)
	assert.Equal(t, "wajib diisi", env.Errors["name"])

	code, env = doRequest(t, app, "GET", "/fiber", "")
	assert.Equal(t, 403, code)
	assert.Equal(t, "dilarang", env.Message)

	code, _ = doRequest(t, app, "GET", "/notfound", "")
	assert.Equal(t, 404, code)

	code, env = doRequest(t, app, "GET", "/unique", "")
	assert.Equal(t, 422, code)
	assert.Equal(t, "unique", env.Errors["idx_users_username"])

	code, _ = doRequest(t, app, "GET", "/fk", "")
	assert.Equal(t, 422, code)

	code, env = doRequest(t, app, "GET", "/boom", "")
	assert.Equal(t, 500, code)
	assert.NotContains(t, env.Message, "rahasia")
}

func TestNotFoundOnlyMapsMissingRows(t *testing.T) {
	app := newApp()
	app.Get("/missing", func(c *fiber.Ctx) error {
		return NotFound(gorm.ErrRecordNotFound, "Transaksi tidak ditemukan")
	})
	app.Get("/down", func(c *fiber.Ctx) error {
		return NotFound(errors.New("driver: bad connection"), "Transaksi tidak ditemukan")
	})

	code, env := doRequest(t, app, "GET", "/missing", "")
	assert.Equal(t, 404, code)
	assert.Equal(t, "Transaksi tidak ditemukan", env.Message)

	code, env = doRequest(t, app, "GET", "/down", "")
	assert.Equal(t, 500, code)
	assert.NotEqual(t, "Transaksi tidak ditemukan", env.Message)
}

type sample struct {
	Name  string `json:"name" validate:"required,max=5"`
	Count int    `json:"count" validate:"gte=0"`
}

func TestParseBody(t *testing.T) {
	app := newApp()
	app.Post("/", func(c *fiber.Ctx) error {
		var s sample
		if err := ParseBody(c, &s); err != nil {
			return err
		}
		return OK(c, s)
	})

	code, env := doRequest(t, app, "POST", "/", `{"name":"abc","count":2}`)
	assert.Equal(t, 200, code)
	assert.True(t, env.Success)

	code, env = doRequest(t, app, "POST", "/", `{"name":"terlalu panjang","count":-1}`)
	assert.Equal(t, 422, code)
	assert.Equal(t, "max=5", env.Errors["name"])
	assert.Equal(t, "gte=0", env.Errors["count"])

	code, env = doRequest(t, app, "POST", "/", `{"name":`)
	assert.Equal(t, 422, code)
	assert.Contains(t, env.Errors, "body")
}

func TestPaging(t *testing.T) {
	app := newApp()
	app.Get("/", func(c *fiber.Ctx) error {
		p := ResolvePaging(c, 20, 50)
		return Paginated(c, []int{}, BuildPagination(45, p))
	})

	_, env := doRequest(t, app, "GET", "/?page=2&per_page=20", "")
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 3, env.Pagination.TotalPages)
	assert.True(t, env.Pagination.HasNext)
	assert.True(t, env.Pagination.HasPrev)

	_, env = doRequest(t, app, "GET", "/?page=-1&per_page=500", "")
	assert.Equal(t, 1, env.Pagination.Page)
	assert.Equal(t, 50, env.Pagination.PerPage)
	assert.Equal(t, 1, env.Pagination.TotalPages)
	assert.False(t, env.Pagination.HasNext)
}
