package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/reliant-hq/quote-api/internal/database"
	"github.com/reliant-hq/quote-api/internal/models"
	"github.com/reliant-hq/quote-api/internal/services"
)

// ListCustomers returns customers, optionally filtered by a search term
// matched against name and email
func (h *Handler) ListCustomers(c *fiber.Ctx) error {
	customers, err := h.db.ListCustomers(c.Context(), c.Query("q"))
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list customers")
	}

	return Success(c, customers)
}

// GetCustomer returns a single customer by ID
func (h *Handler) GetCustomer(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid customer id")
	}

	customer, err := h.db.GetCustomerByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrCustomerNotFound) {
			return Error(c, fiber.StatusNotFound, "customer not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get customer")
	}

	return Success(c, customer)
}

// CreateCustomer creates a new customer
func (h *Handler) CreateCustomer(c *fiber.Ctx) error {
	var req models.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if v := services.ValidateCreateCustomer(req.Name); v != nil {
		return ValidationFailed(c, v)
	}

	customer, err := h.db.CreateCustomer(c.Context(), &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create customer")
	}

	return Created(c, customer)
}

// UpdateCustomer updates an existing customer
func (h *Handler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid customer id")
	}

	var req models.UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if v := services.ValidateCreateCustomer(req.Name); v != nil {
		return ValidationFailed(c, v)
	}

	customer, err := h.db.UpdateCustomer(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrCustomerNotFound) {
			return Error(c, fiber.StatusNotFound, "customer not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update customer")
	}

	return Success(c, customer)
}

// DeleteCustomer deletes a customer
func (h *Handler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid customer id")
	}

	if err := h.db.DeleteCustomer(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrCustomerNotFound) {
			return Error(c, fiber.StatusNotFound, "customer not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete customer")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "customer deleted successfully",
	})
}
