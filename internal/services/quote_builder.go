package services

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/reliant-hq/quote-api/internal/models"
)

// AiConfidence is the fixed confidence marker attached to AI-priced items.
// The prediction service reports its own confidence but the value stored
// here is a placeholder, not a calibrated score.
const AiConfidence = 0.85

// VatRate is the UK standard rate applied to every quote
var VatRate = decimal.RequireFromString("0.20")

// ProductNotFoundError reports the first requested product id (in item
// order) that has no matching catalogue entry
type ProductNotFoundError struct {
	ProductID int
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// FirstMissingProduct scans the request items in order and returns the
// first product id absent from the resolved map. Only the first missing id
// is reported, not the full missing set.
func FirstMissingProduct(items []models.QuoteItemCreateRequest, products map[int]*models.Product) error {
	for _, item := range items {
		if _, ok := products[item.ProductID]; !ok {
			return &ProductNotFoundError{ProductID: item.ProductID}
		}
	}
	return nil
}

// QuoteBuilder assembles a priced quote aggregate from a validated request
// and the resolved product map. It owns the pricing-prediction step and its
// fallback policy; it never touches the database.
type QuoteBuilder struct {
	pricing PricingClient
}

// NewQuoteBuilder creates a builder backed by the given pricing client
func NewQuoteBuilder(pricing PricingClient) *QuoteBuilder {
	return &QuoteBuilder{pricing: pricing}
}

// Build runs the pricing pipeline: predict unit prices for items without a
// manual price, merge them into line items and compute the totals. The
// returned quote has no ids yet; persistence is the caller's job.
//
// Pricing-service failures are absorbed here: affected items fall back to
// their product's base price and are not marked AI-priced. Quote creation
// must never block on pricing availability.
func (b *QuoteBuilder) Build(ctx context.Context, req *models.CreateQuoteRequest, products map[int]*models.Product, createdByUserID int) (*models.Quote, error) {
	predicted := b.resolvePrices(ctx, req.Items, products)

	quote := &models.Quote{
		CustomerID:      req.CustomerID,
		Status:          models.QuoteStatusDraft,
		CreatedByUserID: createdByUserID,
		Notes:           req.Notes,
		Items:           make([]models.QuoteItem, 0, len(req.Items)),
	}

	for i, item := range req.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}

		var unitPrice decimal.Decimal
		isAiPriced := false
		switch {
		case item.UnitPrice != nil:
			unitPrice = *item.UnitPrice
		case predicted != nil && predicted[i] != nil:
			unitPrice = *predicted[i]
			isAiPriced = true
		default:
			unitPrice = product.BasePrice
		}

		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Qty))).Round(2)

		quoteItem := models.QuoteItem{
			ProductID:         item.ProductID,
			ProductName:       product.Name,
			WidthMm:           item.WidthMm,
			HeightMm:          item.HeightMm,
			Material:          item.Material,
			Glazing:           item.Glazing,
			ColorTier:         item.ColorTier,
			HardwareTier:      item.HardwareTier,
			InstallComplexity: item.InstallComplexity,
			Qty:               item.Qty,
			UnitPrice:         unitPrice,
			LineTotal:         lineTotal,
			IsAiPriced:        isAiPriced,
		}
		if isAiPriced {
			conf := AiConfidence
			quoteItem.AiConfidence = &conf
		}

		quote.Items = append(quote.Items, quoteItem)
	}

	quote.Subtotal, quote.Vat, quote.Total = ComputeTotals(quote.Items)

	return quote, nil
}

// resolvePrices partitions the request items into manually priced and
// needs-prediction, then issues at most one batched call for the latter.
// The returned slice is indexed like the request items; entries are nil for
// manually priced items and for the whole batch when the call failed or
// returned a result of the wrong length (all-or-nothing acceptance).
func (b *QuoteBuilder) resolvePrices(ctx context.Context, items []models.QuoteItemCreateRequest, products map[int]*models.Product) []*decimal.Decimal {
	var needing []int
	var query []PricingQueryItem

	for i, item := range items {
		if item.UnitPrice != nil {
			continue
		}
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		needing = append(needing, i)
		query = append(query, PricingQueryItem{
			ProductType:       product.ProductType,
			WidthMm:           item.WidthMm,
			HeightMm:          item.HeightMm,
			Material:          item.Material,
			Glazing:           item.Glazing,
			ColorTier:         item.ColorTier,
			HardwareTier:      item.HardwareTier,
			InstallComplexity: item.InstallComplexity,
			Qty:               item.Qty,
		})
	}

	if len(needing) == 0 {
		return nil
	}

	prices, err := b.pricing.PredictUnitPrices(ctx, query)
	if err != nil {
		log.Printf("Pricing prediction failed, falling back to base prices: %v", err)
		return nil
	}
	if len(prices) != len(query) {
		log.Printf("Pricing prediction returned %d results for %d items, falling back to base prices", len(prices), len(query))
		return nil
	}

	resolved := make([]*decimal.Decimal, len(items))
	for k, idx := range needing {
		price := prices[k].Round(2)
		resolved[idx] = &price
	}

	return resolved
}

// ComputeTotals aggregates line totals into subtotal, VAT and total.
// Items are summed in input order so persisted totals reproduce exactly.
func ComputeTotals(items []models.QuoteItem) (subtotal, vat, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	vat = subtotal.Mul(VatRate).Round(2)
	total = subtotal.Add(vat)
	return subtotal, vat, total
}

// BuildPricingQuery derives the per-item feature vectors used by both the
// pricing and summary calls
func BuildPricingQuery(items []models.QuoteItemCreateRequest, products map[int]*models.Product) ([]PricingQueryItem, error) {
	query := make([]PricingQueryItem, 0, len(items))
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		query = append(query, PricingQueryItem{
			ProductType:       product.ProductType,
			WidthMm:           item.WidthMm,
			HeightMm:          item.HeightMm,
			Material:          item.Material,
			Glazing:           item.Glazing,
			ColorTier:         item.ColorTier,
			HardwareTier:      item.HardwareTier,
			InstallComplexity: item.InstallComplexity,
			Qty:               item.Qty,
		})
	}
	return query, nil
}
