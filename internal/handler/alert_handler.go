package handler

import (
	"go-stockdash/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AlertHandler struct {
	service service.AlertService
}

func NewAlertHandler(s service.AlertService) *AlertHandler {
	return &AlertHandler{service: s}
}

// GetAlerts returns current low-stock alerts.
// Query params: severity (medium|high|critical), search (name or category).
// GET /api/v1/alerts
func (h *AlertHandler) GetAlerts(c *fiber.Ctx) error {
	severity := c.Query("severity")
	search := c.Query("search")

	alerts, err := h.service.GetStockAlerts(severity, search)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to evaluate alerts"})
	}

	return c.JSON(fiber.Map{
		"count": len(alerts),
		"data":  alerts,
	})
}

// GetAlertSummary returns per-severity counts for the dashboard badges.
// GET /api/v1/alerts/summary
func (h *AlertHandler) GetAlertSummary(c *fiber.Ctx) error {
	summary, err := h.service.GetAlertSummary()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to evaluate alerts"})
	}
	return c.JSON(summary)
}
