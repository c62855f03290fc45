package handler

import (
	"time"

	"go-stockdash/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStats returns the overview cards.
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

// GetStockMovement returns per-day in/out totals for the chart.
// GET /api/v1/dashboard/stock-movement?days=7
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 365 {
		days = 7
	}

	movement, err := h.service.GetStockMovement(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}
	return c.JSON(movement)
}

// GetFinancialSummary aggregates transaction value over a preset range.
// GET /api/v1/dashboard/financial?range=1m
func (h *DashboardHandler) GetFinancialSummary(c *fiber.Ctx) error {
	endDate := time.Now()
	var startDate time.Time

	switch c.Query("range", "1m") {
	case "7d":
		startDate = endDate.AddDate(0, 0, -7)
	case "1m":
		startDate = endDate.AddDate(0, -1, 0)
	case "3m":
		startDate = endDate.AddDate(0, -3, 0)
	case "6m":
		startDate = endDate.AddDate(0, -6, 0)
	case "12m":
		startDate = endDate.AddDate(0, -12, 0)
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Invalid range, use 7d, 1m, 3m, 6m or 12m"})
	}

	summary, err := h.service.GetFinancialSummary(startDate, endDate)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch financial summary"})
	}
	return c.JSON(summary)
}
