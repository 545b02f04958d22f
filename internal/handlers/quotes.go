package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/reliant-hq/quote-api/internal/database"
	"github.com/reliant-hq/quote-api/internal/middleware"
	"github.com/reliant-hq/quote-api/internal/models"
	"github.com/reliant-hq/quote-api/internal/services"
)

// CreateQuote runs the full quote-creation pipeline: validate, resolve
// customer and products, predict missing unit prices (with base-price
// fallback), assemble line items and totals, then persist atomically.
func (h *Handler) CreateQuote(c *fiber.Ctx) error {
	var req models.CreateQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	// Validation and existence checks run before any external call
	if v := services.ValidateCreateQuote(&req); v != nil {
		return ValidationFailed(c, v)
	}

	exists, err := h.db.CustomerExists(c.Context(), req.CustomerID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to check customer")
	}
	if !exists {
		return Error(c, fiber.StatusBadRequest, "customer not found")
	}

	productIDs := distinctProductIDs(req.Items)
	products, err := h.db.GetProductsByIDs(c.Context(), productIDs)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load products")
	}
	if err := services.FirstMissingProduct(req.Items, products); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	// The pricing call (if any) happens inside Build, strictly before the
	// persistence transaction opens
	quote, err := h.builder.Build(c.Context(), &req, products, userID)
	if err != nil {
		var notFound *services.ProductNotFoundError
		if errors.As(err, &notFound) {
			return Error(c, fiber.StatusBadRequest, notFound.Error())
		}
		return Error(c, fiber.StatusInternalServerError, "failed to build quote")
	}

	created, err := h.db.CreateQuote(c.Context(), quote)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create quote")
	}

	return Created(c, created)
}

// GetQuote returns a single quote by ID
func (h *Handler) GetQuote(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid quote id")
	}

	quote, err := h.db.GetQuoteByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrQuoteNotFound) {
			return Error(c, fiber.StatusNotFound, "quote not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get quote")
	}

	return Success(c, quote)
}

// ListCustomerQuotes returns a customer's quotes, newest first
func (h *Handler) ListCustomerQuotes(c *fiber.Ctx) error {
	customerID, err := strconv.Atoi(c.Params("customerId"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid customer id")
	}

	quotes, err := h.db.ListQuotesByCustomer(c.Context(), customerID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list quotes")
	}

	return Success(c, quotes)
}

// legalTransitions maps a quote status to the statuses it may move to
var legalTransitions = map[string][]string{
	models.QuoteStatusDraft: {models.QuoteStatusSent},
	models.QuoteStatusSent:  {models.QuoteStatusAccepted, models.QuoteStatusRejected},
}

// UpdateQuoteStatus moves a quote along its lifecycle (Draft → Sent →
// Accepted/Rejected)
func (h *Handler) UpdateQuoteStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid quote id")
	}

	var req models.UpdateQuoteStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	quote, err := h.db.GetQuoteByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrQuoteNotFound) {
			return Error(c, fiber.StatusNotFound, "quote not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get quote")
	}

	allowed := false
	for _, next := range legalTransitions[quote.Status] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		return Error(c, fiber.StatusConflict, "illegal status transition from "+quote.Status+" to "+req.Status)
	}

	if err := h.db.UpdateQuoteStatus(c.Context(), id, req.Status); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to update quote status")
	}

	quote.Status = req.Status
	return Success(c, quote)
}

// SummarizeQuote asks the AI service for a human-readable description of a
// draft quote. Unlike pricing, a summary failure is surfaced to the caller
// as an upstream error; no fallback text is synthesized.
func (h *Handler) SummarizeQuote(c *fiber.Ctx) error {
	var req models.SummarizeQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	customer, err := h.db.GetCustomerByID(c.Context(), req.CustomerID)
	if err != nil {
		if errors.Is(err, database.ErrCustomerNotFound) {
			return Error(c, fiber.StatusBadRequest, "customer not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get customer")
	}

	products, err := h.db.GetProductsByIDs(c.Context(), distinctProductIDs(req.Items))
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load products")
	}

	items, err := services.BuildPricingQuery(req.Items, products)
	if err != nil {
		var notFound *services.ProductNotFoundError
		if errors.As(err, &notFound) {
			return Error(c, fiber.StatusBadRequest, notFound.Error())
		}
		return Error(c, fiber.StatusInternalServerError, "failed to build summary request")
	}

	vatRate, _ := services.VatRate.Float64()
	text, err := h.summary.SummarizeQuote(c.Context(), customer.Name, items, vatRate)
	if err != nil {
		return Error(c, fiber.StatusBadGateway, "quote summary failed")
	}

	return Success(c, models.QuoteSummary{Text: text})
}

// distinctProductIDs returns the unique product ids referenced by the
// items, in first-seen order
func distinctProductIDs(items []models.QuoteItemCreateRequest) []int {
	seen := make(map[int]bool, len(items))
	var ids []int
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}
