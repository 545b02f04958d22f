package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/reliant-hq/quote-api/internal/config"
	"github.com/reliant-hq/quote-api/internal/database"
	"github.com/reliant-hq/quote-api/internal/services"
)

// Handler holds all handler dependencies
type Handler struct {
	db      *database.DB
	cfg     *config.Config
	builder *services.QuoteBuilder
	summary services.SummaryClient
	storage *services.AttachmentStorage
}

// New creates a new Handler instance. The AI clients are injected so tests
// can substitute deterministic fakes; storage may be nil when attachments
// are not configured.
func New(db *database.DB, cfg *config.Config, pricing services.PricingClient, summary services.SummaryClient, storage *services.AttachmentStorage) *Handler {
	return &Handler{
		db:      db,
		cfg:     cfg,
		builder: services.NewQuoteBuilder(pricing),
		summary: summary,
		storage: storage,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Created returns a 201 response with the created resource
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// ValidationFailed returns a 400 response carrying field-level violations
func ValidationFailed(c *fiber.Ctx, v *services.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(APIResponse{
		Success: false,
		Error:   "validation failed",
		Fields:  v.Fields,
	})
}
