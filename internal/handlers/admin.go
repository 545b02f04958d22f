package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/reliant-hq/quote-api/internal/database"
)

// AdminListUsers returns all users with their roles
func (h *Handler) AdminListUsers(c *fiber.Ctx) error {
	users, err := h.db.ListUsersWithRoles(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return Success(c, users)
}

// AdminAssignRole replaces a user's roles with the single named role
func (h *Handler) AdminAssignRole(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("userId"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	roleName := c.Params("roleName")

	if err := h.db.AssignRole(c.Context(), userID, roleName); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusNotFound, "user not found")
		}
		if errors.Is(err, database.ErrRoleNotFound) {
			return Error(c, fiber.StatusNotFound, "role not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to assign role")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
