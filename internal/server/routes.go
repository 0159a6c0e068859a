package server

import (
	"sertifikasi-backend/internal/audit"
	"sertifikasi-backend/internal/auth"
	"sertifikasi-backend/internal/certificate"
	"sertifikasi-backend/internal/config"
	"sertifikasi-backend/internal/dashboard"
	"sertifikasi-backend/internal/fee"
	"sertifikasi-backend/internal/marketing"
	"sertifikasi-backend/internal/submission"
	"sertifikasi-backend/internal/transaction"
	"sertifikasi-backend/internal/users"

	"github.com/gofiber/fiber/v2"
)

func registerRoutes(app *fiber.App, cfg *config.Config) {
	api := app.Group("/api")

	// Public
	api.Post("/login", loginLimiter(cfg.LoginRateLimit), auth.LoginHandler(cfg))

	protected := api.Group("", auth.JWTMiddleware(cfg))
	admin := auth.RequireAdmin()

	protected.Post("/logout", auth.LogoutHandler())
	protected.Get("/me", auth.MeHandler())

	// User
	protected.Get("/users", admin, users.ListUsersHandler())
	protected.Get("/users/:id", admin, users.GetUserHandler())
	protected.Post("/users", admin, users.CreateUserHandler())
	protected.Put("/users/:id", admin, users.UpdateUserHandler())
	protected.Delete("/users/:id", admin, users.DeleteUserHandler())

	// Sertifikat & data referensi
	protected.Get("/certificates", certificate.ListCertificatesHandler())
	protected.Get("/certificates/reference-data", certificate.GetReferenceDataHandler())
	protected.Put("/certificates/reference-data", admin, certificate.ReplaceReferenceDataHandler())
	protected.Get("/certificates/:id", certificate.GetCertificateHandler())
	protected.Post("/certificates", admin, certificate.CreateCertificateHandler())
	protected.Put("/certificates/:id", admin, certificate.UpdateCertificateHandler())
	protected.Delete("/certificates/:id", admin, certificate.DeleteCertificateHandler())

	protected.Get("/sbu-types", certificate.ListSbuTypesHandler())
	protected.Post("/sbu-types", admin, certificate.CreateSbuTypeHandler())
	protected.Put("/sbu-types/:slug", admin, certificate.UpdateSbuTypeHandler())
	protected.Delete("/sbu-types/:slug", admin, certificate.DeleteSbuTypeHandler())

	// Pengajuan
	protected.Get("/submissions/export", submission.ExportSubmissionsHandler())
	protected.Get("/submissions", submission.ListSubmissionsHandler())
	protected.Get("/submissions/:id", submission.GetSubmissionHandler())
	protected.Post("/submissions", submission.CreateSubmissionHandler())
	protected.Put("/submissions/:id", submission.UpdateSubmissionHandler())
	protected.Delete("/submissions/:id", submission.DeleteSubmissionHandler())

	// Transaksi
	protected.Get("/transactions/export", transaction.ExportTransactionsHandler())
	protected.Get("/transactions", transaction.ListTransactionsHandler())
	protected.Get("/transactions/:id", transaction.GetTransactionHandler())
	protected.Post("/transactions", transaction.CreateTransactionHandler())
	protected.Put("/transactions/:id", transaction.UpdateTransactionHandler())
	protected.Delete("/transactions/:id", transaction.DeleteTransactionHandler(cfg.UploadPath))
	protected.Post("/transactions/:id/bukti", transaction.UploadBuktiHandler(cfg.UploadPath))
	protected.Get("/transactions/:id/bukti", transaction.DownloadBuktiHandler(cfg.UploadPath))

	// Fee P3SM
	protected.Get("/fee-p3sm", fee.ListFeesHandler())
	protected.Post("/fee-p3sm", admin, fee.CreateFeeHandler())
	protected.Put("/fee-p3sm/:id", admin, fee.UpdateFeeHandler())
	protected.Delete("/fee-p3sm/:id", admin, fee.DeleteFeeHandler())

	// Nama marketing
	protected.Get("/marketing-names", marketing.ListMarketingNamesHandler())
	protected.Post("/marketing-names", admin, marketing.CreateMarketingNameHandler())
	protected.Put("/marketing-names/:id", admin, marketing.UpdateMarketingNameHandler())
	protected.Delete("/marketing-names/:id", admin, marketing.DeleteMarketingNameHandler())

	// Dashboard
	protected.Get("/dashboard/summary", dashboard.SummaryHandler())
	protected.Get("/dashboard/ranking", dashboard.RankingHandler())
	protected.Get("/dashboard/chart", dashboard.ChartHandler())

	// Audit
	protected.Get("/audit-logs", admin, audit.ListAuditLogsHandler())
}
