package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sertifikasi-backend/internal/auth"
	"sertifikasi-backend/internal/config"
	"sertifikasi-backend/internal/models"
	"sertifikasi-backend/internal/testutil"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Errors  map[string]string      `json:"errors"`
	Data    map[string]interface{} `json:"data"`
	List    []interface{}          `json:"-"`
	Raw     []byte                 `json:"-"`
	Page    struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

type harness struct {
	t   *testing.T
	db  *gorm.DB
	cfg *config.Config
	app *fiber.App
}

func newHarness(t *testing.T) *harness {
	db := testutil.OpenDB(t)
	cfg := testutil.Config(t)
	return &harness{t: t, db: db, cfg: cfg, app: New(cfg)}
}

func (h *harness) token(u models.User) string {
	h.t.Helper()
	tok, _, err := auth.IssueToken(h.db, h.cfg, &u)
	require.NoError(h.t, err)
	return tok
}

func (h *harness) send(req *http.Request, token string) (int, envelope) {
	h.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)

	var env envelope
	env.Raw = raw
	if len(raw) > 0 && raw[0] == '{' {
		var generic map[string]interface{}
		require.NoError(h.t, sonic.Unmarshal(raw, &generic), string(raw))
		if list, ok := generic["data"].([]interface{}); ok {
			env.List = list
			delete(generic, "data")
			raw, _ = sonic.Marshal(generic)
		}
		require.NoError(h.t, sonic.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (h *harness) do(method, path, token string, body interface{}) (int, envelope) {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return h.send(req, token)
}

func submissionBody(certID uint, deposit, kualifikasi int64) fiber.Map {
	return fiber.Map{
		"companyName":      "PT Contoh",
		"marketingName":    "Budi",
		"date":             "2024-03-15",
		"certificateId":    certID,
		"kualifikasi":      fiber.Map{"name": "Kecil", "biaya": kualifikasi},
		"biayaLainnya":     fiber.Map{"name": "Materai", "biaya": 10000},
		"biayaSetorKantor": deposit,
	}
}

func idOf(env envelope) uint {
	return uint(env.Data["id"].(float64))
}

func TestHealthAndAuthRequired(t *testing.T) {
	h := newHarness(t)

	resp, err := h.app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	code, env := h.do("GET", "/api/submissions", "", nil)
	assert.Equal(t, 401, code)
	assert.False(t, env.Success)

	code, _ = h.do("GET", "/api/submissions", "bukan-token", nil)
	assert.Equal(t, 401, code)
}

func TestLoginMeLogout(t *testing.T) {
	h := newHarness(t)
	u := testutil.CreateUser(t, h.db, models.RoleKaryawan)

	code, _ := h.do("POST", "/api/login", "", fiber.Map{"username": u.Username, "password": "salah"})
	assert.Equal(t, 401, code)

	code, env := h.do("POST", "/api/login", "", fiber.Map{"username": u.Email, "password": testutil.Password})
	require.Equal(t, 200, code, string(env.Raw))
	tok := env.Data["token"].(string)
	require.NotEmpty(t, tok)

	code, env = h.do("GET", "/api/me", tok, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, u.Username, env.Data["username"])
	assert.Equal(t, false, env.Data["canViewAll"])

	code, _ = h.do("POST", "/api/logout", tok, nil)
	require.Equal(t, 200, code)

	code, _ = h.do("GET", "/api/me", tok, nil)
	assert.Equal(t, 401, code)
}

func TestSubmissionProfitIsServerSide(t *testing.T) {
	h := newHarness(t)
	cert := testutil.CreateCertificate(t, h.db, "SBU Konstruksi")
	u := testutil.CreateUser(t, h.db, models.RoleMarketing)
	tok := h.token(u)

	body := submissionBody(cert.ID, 5000000, 3000000)
	body["keuntungan"] = 999999999
	code, env := h.do("POST", "/api/submissions", tok, body)
	require.Equal(t, 201, code, string(env.Raw))
	assert.Equal(t, float64(1990000), env.Data["keuntungan"])
	id := idOf(env)

	var stored models.Submission
	require.NoError(t, h.db.First(&stored, id).Error)
	assert.Equal(t, int64(1990000), stored.Keuntungan)
	assert.Equal(t, u.ID, stored.SubmittedByID)

	// nilai tersimpan dibuat beda supaya terlihat bila dihitung ulang
	require.NoError(t, h.db.Model(&models.Submission{}).Where("id = ?", id).Update("keuntungan", 42).Error)

	code, _ = h.do("PUT", "/api/submissions/"+itoa(id), tok, fiber.Map{"companyName": "PT Baru", "keuntungan": 7})
	require.Equal(t, 200, code)
	require.NoError(t, h.db.First(&stored, id).Error)
	assert.Equal(t, int64(42), stored.Keuntungan)
	assert.Equal(t, "PT Baru", stored.CompanyName)

	code, _ = h.do("PUT", "/api/submissions/"+itoa(id), tok, fiber.Map{"biayaSetorKantor": 6000000})
	require.Equal(t, 200, code)
	require.NoError(t, h.db.First(&stored, id).Error)
	assert.Equal(t, int64(2990000), stored.Keuntungan)

	code, env = h.do("POST", "/api/submissions", tok, submissionBody(9999, 1, 0))
	assert.Equal(t, 422, code)
	assert.Contains(t, env.Errors, "certificateId")
}

func TestSubmissionOwnership(t *testing.T) {
	h := newHarness(t)
	cert := testutil.CreateCertificate(t, h.db, "SMAP")
	owner := testutil.CreateUser(t, h.db, models.RoleMarketing)
	other := testutil.CreateUser(t, h.db, models.RoleKaryawan)
	manager := testutil.CreateUser(t, h.db, models.RoleManager)
	ownerTok, otherTok, managerTok := h.token(owner), h.token(other), h.token(manager)

	code, env := h.do("POST", "/api/submissions", ownerTok, submissionBody(cert.ID, 1000, 100))
	require.Equal(t, 201, code)
	rowID := idOf(env)
	id := itoa(rowID)

	code, _ = h.do("POST", "/api/submissions", otherTok, submissionBody(cert.ID, 2000, 100))
	require.Equal(t, 201, code)

	code, _ = h.do("GET", "/api/submissions/"+id, otherTok, nil)
	assert.Equal(t, 403, code)
	code, _ = h.do("PUT", "/api/submissions/"+id, otherTok, fiber.Map{"companyName": "Dibajak", "biayaSetorKantor": 1})
	assert.Equal(t, 403, code)
	code, _ = h.do("DELETE", "/api/submissions/"+id, otherTok, nil)
	assert.Equal(t, 403, code)

	var stored models.Submission
	require.NoError(t, h.db.First(&stored, rowID).Error)
	assert.Equal(t, "PT Contoh", stored.CompanyName)
	assert.Equal(t, int64(1000), stored.BiayaSetorKantor)

	_, env = h.do("GET", "/api/submissions", ownerTok, nil)
	assert.Equal(t, int64(1), env.Page.Total)
	_, env = h.do("GET", "/api/submissions", managerTok, nil)
	assert.Equal(t, int64(2), env.Page.Total)

	code, _ = h.do("PUT", "/api/submissions/"+id, managerTok, fiber.Map{"companyName": "PT Dikoreksi"})
	assert.Equal(t, 200, code)
	code, _ = h.do("DELETE", "/api/submissions/"+id, ownerTok, nil)
	assert.Equal(t, 200, code)
	code, _ = h.do("GET", "/api/submissions/"+id, ownerTok, nil)
	assert.Equal(t, 404, code)
}

func TestTransactionOwnershipAndBukti(t *testing.T) {
	h := newHarness(t)
	owner := testutil.CreateUser(t, h.db, models.RoleKaryawan)
	other := testutil.CreateUser(t, h.db, models.RoleMitra)
	ownerTok, otherTok := h.token(owner), h.token(other)

	code, env := h.do("POST", "/api/transactions", ownerTok, fiber.Map{
		"date": "2024-03-01", "name": "Beli ATK", "biaya": 150000, "type": "pengeluaran",
	})
	require.Equal(t, 201, code, string(env.Raw))
	rowID := idOf(env)
	id := itoa(rowID)

	code, _ = h.do("POST", "/api/transactions", ownerTok, fiber.Map{
		"date": "2024-03-01", "name": "x", "biaya": 1, "type": "hutang",
	})
	assert.Equal(t, 422, code)
	code, env = h.do("POST", "/api/transactions", ownerTok, fiber.Map{
		"date": "2024-03-01", "name": "   ", "biaya": 1, "type": "pengeluaran",
	})
	assert.Equal(t, 422, code)
	assert.Equal(t, "notblank", env.Errors["name"])

	code, _ = h.do("PUT", "/api/transactions/"+id, otherTok, fiber.Map{"name": "Dibajak", "biaya": 1})
	assert.Equal(t, 403, code)
	code, _ = h.do("DELETE", "/api/transactions/"+id, otherTok, nil)
	assert.Equal(t, 403, code)

	var stored models.Transaction
	require.NoError(t, h.db.First(&stored, rowID).Error)
	assert.Equal(t, "Beli ATK", stored.Name)
	assert.Equal(t, int64(150000), stored.Biaya)

	code, env = h.do("PUT", "/api/transactions/"+id, ownerTok, fiber.Map{"name": "Beli ATK kantor"})
	require.Equal(t, 200, code, string(env.Raw))
	require.NoError(t, h.db.First(&stored, rowID).Error)
	assert.Equal(t, "Beli ATK kantor", stored.Name)
	updatedAt, err := time.Parse(time.RFC3339Nano, env.Data["updatedAt"].(string))
	require.NoError(t, err)
	assert.True(t, stored.UpdatedAt.Equal(updatedAt), "updatedAt %s != %s", updatedAt, stored.UpdatedAt)

	upload := func(token, filename string) (int, envelope) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("bukti", filename)
		require.NoError(t, err)
		_, _ = part.Write([]byte("%PDF-1.4 isi"))
		require.NoError(t, w.Close())
		req := httptest.NewRequest("POST", "/api/transactions/"+id+"/bukti", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		return h.send(req, token)
	}

	code, _ = upload(otherTok, "nota.pdf")
	assert.Equal(t, 403, code)
	code, _ = upload(ownerTok, "nota.exe")
	assert.Equal(t, 422, code)

	code, env = upload(ownerTok, "nota.pdf")
	require.Equal(t, 200, code, string(env.Raw))
	first := env.Data["bukti"].(string)
	_, err = os.Stat(filepath.Join(h.cfg.UploadPath, first))
	require.NoError(t, err)

	code, env = upload(ownerTok, "nota-baru.pdf")
	require.Equal(t, 200, code)
	second := env.Data["bukti"].(string)
	assert.NotEqual(t, first, second)
	_, err = os.Stat(filepath.Join(h.cfg.UploadPath, first))
	assert.True(t, os.IsNotExist(err))

	code, _ = h.do("DELETE", "/api/transactions/"+id, ownerTok, nil)
	require.Equal(t, 200, code)
	_, err = os.Stat(filepath.Join(h.cfg.UploadPath, second))
	assert.True(t, os.IsNotExist(err))
}

func TestDashboardSummaryIncludesFees(t *testing.T) {
	h := newHarness(t)
	cert := testutil.CreateCertificate(t, h.db, "SKK")
	admin := testutil.CreateUser(t, h.db, models.RoleAdmin)
	marketing := testutil.CreateUser(t, h.db, models.RoleMarketing)
	adminTok, marketingTok := h.token(admin), h.token(marketing)

	for _, c := range []struct {
		tok     string
		deposit int64
	}{
		{adminTok, 500000},
		{marketingTok, 300000},
		{marketingTok, 200000},
	} {
		code, env := h.do("POST", "/api/submissions", c.tok, submissionBody(cert.ID, c.deposit, 100000))
		require.Equal(t, 201, code, string(env.Raw))
	}

	code, _ := h.do("POST", "/api/fee-p3sm", adminTok, fiber.Map{"biaya": 75000, "bulan": 3, "tahun": 2024})
	require.Equal(t, 201, code)
	code, _ = h.do("POST", "/api/fee-p3sm", adminTok, fiber.Map{"biaya": 99999, "bulan": 5, "tahun": 2024})
	require.Equal(t, 201, code)
	code, _ = h.do("POST", "/api/fee-p3sm", adminTok, fiber.Map{"biaya": 1, "bulan": 3, "tahun": 2024})
	assert.Equal(t, 422, code)
	code, _ = h.do("POST", "/api/fee-p3sm", marketingTok, fiber.Map{"biaya": 1, "bulan": 1, "tahun": 2024})
	assert.Equal(t, 403, code)

	// setiap pengajuan: deposit - 100000 - 10000
	code, env := h.do("GET", "/api/dashboard/summary?bulan=3&tahun=2024", adminTok, nil)
	require.Equal(t, 200, code, string(env.Raw))
	assert.Equal(t, float64(3), env.Data["totalSubmissions"])
	assert.Equal(t, float64(670000), env.Data["totalKeuntunganSubmission"])
	assert.Equal(t, float64(75000), env.Data["totalFeeP3sm"])
	assert.Equal(t, float64(745000), env.Data["totalKeuntungan"])

	code, env = h.do("GET", "/api/dashboard/summary?bulan=3&tahun=2024", marketingTok, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, float64(2), env.Data["totalSubmissions"])
	assert.Equal(t, float64(280000), env.Data["totalKeuntunganSubmission"])
	assert.Equal(t, float64(355000), env.Data["totalKeuntungan"])

	code, env = h.do("GET", "/api/dashboard/ranking?tahun=2024", adminTok, nil)
	require.Equal(t, 200, code)
	require.Len(t, env.List, 1)
	top := env.List[0].(map[string]interface{})
	assert.Equal(t, "Budi", top["marketingName"])
	assert.Equal(t, float64(3), top["totalSubmission"])

	code, env = h.do("GET", "/api/dashboard/chart?tahun=2024", adminTok, nil)
	require.Equal(t, 200, code)
	points := env.Data["points"].([]interface{})
	require.Len(t, points, 12)
	march := points[2].(map[string]interface{})
	assert.Equal(t, float64(670000), march["keuntungan"])
	assert.Equal(t, float64(75000), march["feeP3sm"])
}

func TestAdminOnlyRoutes(t *testing.T) {
	h := newHarness(t)
	karyawan := testutil.CreateUser(t, h.db, models.RoleKaryawan)
	admin := testutil.CreateUser(t, h.db, models.RoleAdmin)
	tok, adminTok := h.token(karyawan), h.token(admin)

	for _, r := range []struct{ method, path string }{
		{"GET", "/api/users"},
		{"PUT", "/api/certificates/reference-data"},
		{"POST", "/api/sbu-types"},
		{"POST", "/api/marketing-names"},
		{"GET", "/api/audit-logs"},
	} {
		code, _ := h.do(r.method, r.path, tok, fiber.Map{})
		assert.Equal(t, 403, code, r.path)
	}

	code, env := h.do("GET", "/api/certificates", tok, nil)
	require.Equal(t, 200, code)
	assert.Len(t, env.Data["sbuTypes"], 6)

	code, env = h.do("PUT", "/api/certificates/reference-data", adminTok, fiber.Map{
		"slug":  "notaris",
		"items": fiber.Map{"kualifikasi": []fiber.Map{{"name": "Akta", "biaya": 500000}}},
	})
	require.Equal(t, 200, code, string(env.Raw))
	assert.Len(t, env.Data["kualifikasi"], 1)

	code, _ = h.do("DELETE", "/api/sbu-types/notaris", adminTok, nil)
	assert.Equal(t, 422, code)

	code, env = h.do("GET", "/api/audit-logs?entity_type=reference_data", adminTok, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, int64(1), env.Page.Total)
}

func TestUserManagementRules(t *testing.T) {
	h := newHarness(t)
	super := testutil.CreateUser(t, h.db, models.RoleSuperAdmin)
	admin := testutil.CreateUser(t, h.db, models.RoleAdmin)
	superTok, adminTok := h.token(super), h.token(admin)

	newUser := func(handle, role string) fiber.Map {
		return fiber.Map{
			"fullName": "Pegawai Baru", "username": handle, "email": handle + "@example.com",
			"password": "rahasia123", "role": role,
		}
	}

	code, _ := h.do("POST", "/api/users", adminTok, newUser("bos", "Super admin"))
	assert.Equal(t, 403, code)
	code, env := h.do("POST", "/api/users", adminTok, newUser("aneh", "jabatan"))
	assert.Equal(t, 422, code)
	assert.Contains(t, env.Errors, "role")

	code, env = h.do("POST", "/api/users", adminTok, newUser("pegawai", "karyawan"))
	require.Equal(t, 201, code, string(env.Raw))
	created := itoa(idOf(env))

	code, env = h.do("POST", "/api/users", adminTok, newUser("pegawai", "karyawan"))
	assert.Equal(t, 422, code)
	assert.False(t, env.Success)

	code, _ = h.do("DELETE", "/api/users/"+itoa(admin.ID), adminTok, nil)
	assert.Equal(t, 403, code)
	code, _ = h.do("DELETE", "/api/users/"+itoa(super.ID), adminTok, nil)
	assert.Equal(t, 403, code)

	code, env = h.do("PUT", "/api/users/"+created, superTok, fiber.Map{"role": "manager"})
	require.Equal(t, 200, code)
	assert.Equal(t, "manager", env.Data["role"])
	assert.Equal(t, true, env.Data["canViewAll"])

	code, _ = h.do("DELETE", "/api/users/"+created, superTok, nil)
	assert.Equal(t, 200, code)
}
