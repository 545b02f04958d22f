package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reliant-hq/quote-api/internal/models"
)

// fakePricingClient records calls and returns a canned response
type fakePricingClient struct {
	calls  [][]PricingQueryItem
	prices []decimal.Decimal
	err    error
}

func (f *fakePricingClient) PredictUnitPrices(ctx context.Context, items []PricingQueryItem) ([]decimal.Decimal, error) {
	f.calls = append(f.calls, items)
	if f.err != nil {
		return nil, f.err
	}
	return f.prices, nil
}

func catalogue() map[int]*models.Product {
	return map[int]*models.Product{
		1: {ID: 1, Name: "uPVC Casement Window", ProductType: "window", BasePrice: decimal.RequireFromString("220.00")},
		2: {ID: 2, Name: "Composite Door", ProductType: "door", BasePrice: decimal.RequireFromString("750.00")},
	}
}

func windowItem(qty int) models.QuoteItemCreateRequest {
	return models.QuoteItemCreateRequest{
		ProductID: 1,
		WidthMm:   1200,
		HeightMm:  900,
		Material:  "uPVC",
		Glazing:   "double",
		Qty:       qty,
	}
}

func TestBuildUsesPredictedPrice(t *testing.T) {
	pricing := &fakePricingClient{prices: []decimal.Decimal{decimal.RequireFromString("280")}}
	builder := NewQuoteBuilder(pricing)

	req := &models.CreateQuoteRequest{
		CustomerID: 10,
		Items:      []models.QuoteItemCreateRequest{windowItem(2)},
	}

	quote, err := builder.Build(context.Background(), req, catalogue(), 5)
	require.NoError(t, err)
	require.Len(t, quote.Items, 1)

	item := quote.Items[0]
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("280")))
	assert.True(t, item.LineTotal.Equal(decimal.RequireFromString("560.00")))
	assert.True(t, item.IsAiPriced)
	require.NotNil(t, item.AiConfidence)
	assert.Equal(t, AiConfidence, *item.AiConfidence)

	assert.True(t, quote.Subtotal.Equal(decimal.RequireFromString("560.00")))
	assert.True(t, quote.Vat.Equal(decimal.RequireFromString("112.00")))
	assert.True(t, quote.Total.Equal(decimal.RequireFromString("672.00")))

	assert.Equal(t, models.QuoteStatusDraft, quote.Status)
	assert.Equal(t, 5, quote.CreatedByUserID)
}

func TestBuildFallsBackToBasePriceOnPricingError(t *testing.T) {
	pricing := &fakePricingClient{err: errors.New("connection refused")}
	builder := NewQuoteBuilder(pricing)

	req := &models.CreateQuoteRequest{
		CustomerID: 10,
		Items:      []models.QuoteItemCreateRequest{windowItem(2)},
	}

	quote, err := builder.Build(context.Background(), req, catalogue(), 5)
	require.NoError(t, err)
	require.Len(t, quote.Items, 1)

	item := quote.Items[0]
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("220.00")))
	assert.True(t, item.LineTotal.Equal(decimal.RequireFromString("440.00")))
	assert.False(t, item.IsAiPriced)
	assert.Nil(t, item.AiConfidence)

	assert.True(t, quote.Vat.Equal(decimal.RequireFromString("88.00")))
	assert.True(t, quote.Total.Equal(decimal.RequireFromString("528.00")))
}

func TestBuildManualPriceSkipsPrediction(t *testing.T) {
	pricing := &fakePricingClient{}
	builder := NewQuoteBuilder(pricing)

	manual := decimal.RequireFromString("999.99")
	item := windowItem(1)
	item.UnitPrice = &manual

	req := &models.CreateQuoteRequest{
		CustomerID: 10,
		Items:      []models.QuoteItemCreateRequest{item},
	}

	quote, err := builder.Build(context.Background(), req, catalogue(), 5)
	require.NoError(t, err)

	assert.Empty(t, pricing.calls, "no prediction call expected when every item is manually priced")
	assert.True(t, quote.Items[0].UnitPrice.Equal(manual))
	assert.False(t, quote.Items[0].IsAiPriced)
	assert.Nil(t, quote.Items[0].AiConfidence)
}

func TestBuildBatchesOnePredictionCall(t *testing.T) {
	pricing := &fakePricingClient{prices: []decimal.Decimal{
		decimal.RequireFromString("280"),
		decimal.RequireFromString("950"),
	}}
	builder := NewQuoteBuilder(pricing)

	manual := decimal.RequireFromString("100.00")
	manualItem := windowItem(1)
	manualItem.UnitPrice = &manual

	doorItem := models.QuoteItemCreateRequest{
		ProductID: 2,
		WidthMm:   900,
		HeightMm:  2100,
		Material:  "Composite",
		Glazing:   "double",
		Qty:       1,
	}

	req := &models.CreateQuoteRequest{
		CustomerID: 10,
		Items: []models.QuoteItemCreateRequest{
			windowItem(2), manualItem, doorItem,
		},
	}

	quote, err := builder.Build(context.Background(), req, catalogue(), 5)
	require.NoError(t, err)

	require.Len(t, pricing.calls, 1, "items needing prediction share one batched call")
	call := pricing.calls[0]
	require.Len(t, call, 2)
	assert.Equal(t, "window", call[0].ProductType)
	assert.Equal(t, "door", call[1].ProductType)

	assert.True(t, quote.Items[0].IsAiPriced)
	assert.True(t, quote.Items[0].UnitPrice.Equal(decimal.RequireFromString("280")))
	assert.False(t, quote.Items[1].IsAiPriced)
	assert.True(t, quote.Items[1].UnitPrice.Equal(manual))
	assert.True(t, quote.Items[2].IsAiPriced)
	assert.True(t, quote.Items[2].UnitPrice.Equal(decimal.RequireFromString("950")))
}

func TestBuildRejectsShortPredictionResponse(t *testing.T) {
	pricing := &fakePricingClient{prices: []decimal.Decimal{decimal.RequireFromString("280")}}
	builder := NewQuoteBuilder(pricing)

	doorItem := models.QuoteItemCreateRequest{
		ProductID: 2,
		WidthMm:   900,
		HeightMm:  2100,
		Material:  "Composite",
		Glazing:   "double",
		Qty:       1,
	}

	req := &models.CreateQuoteRequest{
		CustomerID: 10,
		Items:      []models.QuoteItemCreateRequest{windowItem(1), doorItem},
	}

	quote, err := builder.Build(context.Background(), req, catalogue(), 5)
	require.NoError(t, err)

	// A response of the wrong length is discarded entirely
	assert.False(t, quote.Items[0].IsAiPriced)
	assert.True(t, quote.Items[0].UnitPrice.Equal(decimal.RequireFromString("220.00")))
	assert.False(t, quote.Items[1].IsAiPriced)
	assert.True(t, quote.Items[1].UnitPrice.Equal(decimal.RequireFromString("750.00")))
}

func TestBuildRoundsPredictedPrices(t *testing.T) {
	pricing := &fakePricingClient{prices: []decimal.Decimal{decimal.RequireFromString("281.005")}}
	builder := NewQuoteBuilder(pricing)

	req := &models.CreateQuoteRequest{
		CustomerID: 10,
		Items:      []models.QuoteItemCreateRequest{windowItem(1)},
	}

	quote, err := builder.Build(context.Background(), req, catalogue(), 5)
	require.NoError(t, err)

	assert.Equal(t, "281.01", quote.Items[0].UnitPrice.StringFixed(2))
}

func TestBuildUnknownProduct(t *testing.T) {
	builder := NewQuoteBuilder(&fakePricingClient{})

	item := windowItem(1)
	item.ProductID = 99

	req := &models.CreateQuoteRequest{
		CustomerID: 10,
		Items:      []models.QuoteItemCreateRequest{item},
	}

	_, err := builder.Build(context.Background(), req, catalogue(), 5)
	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 99, notFound.ProductID)
}

func TestFirstMissingProductReportsInItemOrder(t *testing.T) {
	items := []models.QuoteItemCreateRequest{
		{ProductID: 1},
		{ProductID: 42},
		{ProductID: 77},
	}

	err := FirstMissingProduct(items, catalogue())
	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 42, notFound.ProductID)

	assert.NoError(t, FirstMissingProduct(items[:1], catalogue()))
}

func TestComputeTotalsSumsInInputOrder(t *testing.T) {
	items := []models.QuoteItem{
		{LineTotal: decimal.RequireFromString("560.00")},
		{LineTotal: decimal.RequireFromString("950.00")},
		{LineTotal: decimal.RequireFromString("320.00")},
	}

	subtotal, vat, total := ComputeTotals(items)
	assert.Equal(t, "1830.00", subtotal.StringFixed(2))
	assert.Equal(t, "366.00", vat.StringFixed(2))
	assert.Equal(t, "2196.00", total.StringFixed(2))
}

func TestComputeTotalsEmpty(t *testing.T) {
	subtotal, vat, total := ComputeTotals(nil)
	assert.True(t, subtotal.IsZero())
	assert.True(t, vat.IsZero())
	assert.True(t, total.IsZero())
}

func TestBuildPricingQueryUsesProductType(t *testing.T) {
	query, err := BuildPricingQuery([]models.QuoteItemCreateRequest{windowItem(3)}, catalogue())
	require.NoError(t, err)
	require.Len(t, query, 1)
	assert.Equal(t, "window", query[0].ProductType)
	assert.Equal(t, 3, query[0].Qty)
	assert.Equal(t, 1200, query[0].WidthMm)

	_, err = BuildPricingQuery([]models.QuoteItemCreateRequest{{ProductID: 99}}, catalogue())
	var notFound *ProductNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
