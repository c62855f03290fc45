package handler

import (
	"go-stockdash/internal/model"
	"go-stockdash/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	repo repository.CategoryRepository
}

func NewCategoryHandler(repo repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

// GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.repo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(categories)
}

// GET /api/v1/categories/:id
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	category, err := h.repo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}
	return c.JSON(category)
}

// POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if category.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Category name is required"})
	}

	if existing, _ := h.repo.FindByName(category.Name); existing != nil {
		return c.Status(409).JSON(fiber.Map{"error": "Category name already exists"})
	}

	a := actor(c)
	category.CreatedBy = a.ID
	category.UpdatedBy = a.ID

	if err := h.repo.Create(&category); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create category"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

// PUT /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	category, err := h.repo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}

	var input model.Category
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if input.Name != "" && input.Name != category.Name {
		if existing, _ := h.repo.FindByName(input.Name); existing != nil {
			return c.Status(409).JSON(fiber.Map{"error": "Category name already exists"})
		}
		category.Name = input.Name
	}
	category.Description = input.Description
	category.UpdatedBy = actor(c).ID

	if err := h.repo.Update(category); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update category"})
	}

	return c.JSON(fiber.Map{"message": "Category updated", "data": category})
}

// DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	if _, err := h.repo.FindByID(id); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}

	if err := h.repo.Delete(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete category"})
	}

	return c.JSON(fiber.Map{"message": "Category deleted"})
}
