package handler

import (
	"errors"

	"go-stockdash/internal/service"
	"go-stockdash/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StockHandler struct {
	service service.InventoryService
}

func NewStockHandler(s service.InventoryService) *StockHandler {
	return &StockHandler{service: s}
}

// StockIn records a receipt of inventory.
// POST /api/v1/stock/in
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	var req service.StockInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	record, err := h.service.StockIn(&req, actor(c))
	if err != nil {
		return stockError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Stock-in recorded",
		"data":    record,
	})
}

// StockOut records a removal of inventory.
// POST /api/v1/stock/out
func (h *StockHandler) StockOut(c *fiber.Ctx) error {
	var req service.StockOutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	record, err := h.service.StockOut(&req, actor(c))
	if err != nil {
		return stockError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Stock-out recorded",
		"data":    record,
	})
}

// GetTransactions returns the full mutation history, newest first.
// GET /api/v1/transactions
func (h *StockHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.service.GetAllTransactions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

// GetTransaction returns one transaction.
// GET /api/v1/transactions/:id
func (h *StockHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.service.GetTransactionByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}
	return c.JSON(tx)
}

// stockError maps each validation error kind to a distinct response code so
// the UI renders specific messages without matching on error text.
// Insufficient stock additionally carries the available quantity.
func stockError(c *fiber.Ctx, err error) error {
	var insufficient *stock.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return c.Status(409).JSON(fiber.Map{
			"error":     insufficient.Error(),
			"code":      "INSUFFICIENT_STOCK",
			"available": insufficient.Available,
		})
	case errors.Is(err, stock.ErrInvalidQuantity):
		return c.Status(400).JSON(fiber.Map{"error": err.Error(), "code": "INVALID_QUANTITY"})
	case errors.Is(err, stock.ErrInvalidPrice):
		return c.Status(400).JSON(fiber.Map{"error": err.Error(), "code": "INVALID_PRICE"})
	case errors.Is(err, stock.ErrMissingSupplier):
		return c.Status(400).JSON(fiber.Map{"error": err.Error(), "code": "MISSING_SUPPLIER"})
	case errors.Is(err, stock.ErrMissingReason):
		return c.Status(400).JSON(fiber.Map{"error": err.Error(), "code": "MISSING_REASON"})
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error(), "code": "PRODUCT_NOT_FOUND"})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}
