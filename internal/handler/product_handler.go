package handler

import (
	"errors"

	"go-stockdash/internal/model"
	"go-stockdash/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	service service.InventoryService
}

func NewProductHandler(s service.InventoryService) *ProductHandler {
	return &ProductHandler{service: s}
}

// actor extracts the authenticated user from the request context (set by the
// auth middleware).
func actor(c *fiber.Ctx) service.Actor {
	a := service.Actor{ID: "system", Name: "Unknown"}
	if v, ok := c.Locals("user_id").(string); ok {
		a.ID = v
	}
	if v, ok := c.Locals("user_name").(string); ok {
		a.Name = v
	}
	if v, ok := c.Locals("user_email").(string); ok {
		a.Email = v
	}
	return a
}

// GetProducts returns all products with category and audit relations.
// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// GetProduct returns one product.
// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

// CreateProduct creates a product.
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateProduct(&product, actor(c)); err != nil {
		status := 400
		if errors.Is(err, service.ErrSKUExists) {
			status = 409
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

// UpdateProduct updates product master data. Stock changes are rejected here;
// they must go through the stock-in/stock-out endpoints.
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(id, &product, actor(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrSKUExists):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// DeleteProduct soft-deletes a product.
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(id, actor(c)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GetProductTransactions returns the mutation history of one product.
// GET /api/v1/products/:id/transactions
func (h *ProductHandler) GetProductTransactions(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	transactions, err := h.service.GetProductTransactions(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch transactions"})
	}
	return c.JSON(transactions)
}
