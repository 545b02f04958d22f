package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// ListProducts returns the product catalogue
func (h *Handler) ListProducts(c *fiber.Ctx) error {
	products, err := h.db.ListProducts(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list products")
	}

	return Success(c, products)
}
