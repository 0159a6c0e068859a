package dashboard

import (
	"log"
	"time"

	"sertifikasi-backend/internal/auth"
	"sertifikasi-backend/internal/database"
	"sertifikasi-backend/internal/response"

	"github.com/gofiber/fiber/v2"
)

// GET /api/dashboard/summary?start_date=&end_date= atau ?bulan=&tahun=
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		policy, err := auth.PolicyFor(c)
		if err != nil {
			return err
		}
		period, err := ResolvePeriod(c)
		if err != nil {
			return err
		}

		summary, err := Summarize(database.DB, policy, period)
		if err != nil {
			log.Printf("[ERROR] dashboard summary: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Ringkasan dashboard tidak bisa dihitung")
		}
		return response.OK(c, summary)
	}
}

// GET /api/dashboard/ranking?start_date=&end_date=&limit=
func RankingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		policy, err := auth.PolicyFor(c)
		if err != nil {
			return err
		}
		period, err := ResolvePeriod(c)
		if err != nil {
			return err
		}
		limit, err := queryInt(c, "limit", 1, 100)
		if err != nil {
			return err
		}
		if limit == 0 {
			limit = 10
		}

		list, err := Rank(database.DB, policy, period, limit)
		if err != nil {
			log.Printf("[ERROR] dashboard ranking: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Ranking marketing tidak bisa dihitung")
		}
		return response.OK(c, list)
	}
}

// GET /api/dashboard/chart?tahun=
func ChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		policy, err := auth.PolicyFor(c)
		if err != nil {
			return err
		}
		year, err := queryInt(c, "tahun", 2000, 2100)
		if err != nil {
			return err
		}
		if year == 0 {
			year = time.Now().Year()
		}

		chart, err := MonthlyChart(database.DB, policy, year)
		if err != nil {
			log.Printf("[ERROR] dashboard chart: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Grafik dashboard tidak bisa dibuat")
		}
		return response.OK(c, chart)
	}
}
