package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote lifecycle. Only Draft is assigned by the creation pipeline;
// the rest are reached through explicit status transitions.
const (
	QuoteStatusDraft    = "Draft"
	QuoteStatusSent     = "Sent"
	QuoteStatusAccepted = "Accepted"
	QuoteStatusRejected = "Rejected"
)

// Quote is the aggregate root. Items are owned exclusively by the quote
// and reference products by id only.
type Quote struct {
	ID              int             `json:"id"`
	CustomerID      int             `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	Status          string          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Vat             decimal.Decimal `json:"vat"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
	CreatedByUserID int             `json:"created_by_user_id"`
	Notes           *string         `json:"notes,omitempty"`
	Items           []QuoteItem     `json:"items"`
}

// QuoteItem is one priced line of a quote
type QuoteItem struct {
	ID                int              `json:"id"`
	ProductID         int              `json:"product_id"`
	ProductName       string           `json:"product_name"`
	WidthMm           int              `json:"width_mm"`
	HeightMm          int              `json:"height_mm"`
	Material          string           `json:"material"` // uPVC/Aluminium/Composite
	Glazing           string           `json:"glazing"`  // double/triple
	ColorTier         *string          `json:"color_tier,omitempty"`
	HardwareTier      *string          `json:"hardware_tier,omitempty"`
	InstallComplexity *string          `json:"install_complexity,omitempty"`
	Qty               int              `json:"qty"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	LineTotal         decimal.Decimal  `json:"line_total"` // unit_price * qty, 2dp
	IsAiPriced        bool             `json:"is_ai_priced"`
	AiConfidence      *float64         `json:"ai_confidence,omitempty"` // set iff is_ai_priced
}

// QuoteItemCreateRequest is one requested line of a new quote.
// UnitPrice present means "manual price — skip prediction".
type QuoteItemCreateRequest struct {
	ProductID         int              `json:"product_id"`
	WidthMm           int              `json:"width_mm"`
	HeightMm          int              `json:"height_mm"`
	Material          string           `json:"material"`
	Glazing           string           `json:"glazing"`
	ColorTier         *string          `json:"color_tier,omitempty"`
	HardwareTier      *string          `json:"hardware_tier,omitempty"`
	InstallComplexity *string          `json:"install_complexity,omitempty"`
	Qty               int              `json:"qty"`
	UnitPrice         *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateQuoteRequest is the request body for creating a quote
type CreateQuoteRequest struct {
	CustomerID int                      `json:"customer_id"`
	Notes      *string                  `json:"notes,omitempty"`
	Items      []QuoteItemCreateRequest `json:"items"`
}

// UpdateQuoteStatusRequest is the request body for a status transition
type UpdateQuoteStatusRequest struct {
	Status string `json:"status"`
}

// SummarizeQuoteRequest reuses the creation shape: a summary can be asked
// for a draft that has not been priced or persisted yet.
type SummarizeQuoteRequest = CreateQuoteRequest

// QuoteSummary is the human-readable text produced by the AI service
type QuoteSummary struct {
	Text string `json:"text"`
}
