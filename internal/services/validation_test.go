package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reliant-hq/quote-api/internal/models"
)

func validItem() models.QuoteItemCreateRequest {
	return models.QuoteItemCreateRequest{
		ProductID: 1,
		WidthMm:   1200,
		HeightMm:  900,
		Material:  "uPVC",
		Glazing:   "double",
		Qty:       2,
	}
}

func TestValidateCreateQuoteValid(t *testing.T) {
	req := &models.CreateQuoteRequest{
		CustomerID: 1,
		Items:      []models.QuoteItemCreateRequest{validItem()},
	}
	assert.Nil(t, ValidateCreateQuote(req))
}

func TestValidateCreateQuoteEnumsCaseInsensitive(t *testing.T) {
	item := validItem()
	item.Material = "ALUMINIUM"
	item.Glazing = "Triple"
	complexity := "complex"
	item.InstallComplexity = &complexity

	req := &models.CreateQuoteRequest{
		CustomerID: 1,
		Items:      []models.QuoteItemCreateRequest{item},
	}
	assert.Nil(t, ValidateCreateQuote(req))
}

func TestValidateCreateQuoteFieldViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.QuoteItemCreateRequest)
		field  string
	}{
		{
			name:   "product id zero",
			mutate: func(i *models.QuoteItemCreateRequest) { i.ProductID = 0 },
			field:  "items[0].product_id",
		},
		{
			name:   "width too small",
			mutate: func(i *models.QuoteItemCreateRequest) { i.WidthMm = 299 },
			field:  "items[0].width_mm",
		},
		{
			name:   "width too large",
			mutate: func(i *models.QuoteItemCreateRequest) { i.WidthMm = 4001 },
			field:  "items[0].width_mm",
		},
		{
			name:   "height too small",
			mutate: func(i *models.QuoteItemCreateRequest) { i.HeightMm = 100 },
			field:  "items[0].height_mm",
		},
		{
			name:   "unknown material",
			mutate: func(i *models.QuoteItemCreateRequest) { i.Material = "wood" },
			field:  "items[0].material",
		},
		{
			name:   "unknown glazing",
			mutate: func(i *models.QuoteItemCreateRequest) { i.Glazing = "single" },
			field:  "items[0].glazing",
		},
		{
			name: "unknown install complexity",
			mutate: func(i *models.QuoteItemCreateRequest) {
				v := "extreme"
				i.InstallComplexity = &v
			},
			field: "items[0].install_complexity",
		},
		{
			name:   "qty zero",
			mutate: func(i *models.QuoteItemCreateRequest) { i.Qty = 0 },
			field:  "items[0].qty",
		},
		{
			name:   "qty negative",
			mutate: func(i *models.QuoteItemCreateRequest) { i.Qty = -1 },
			field:  "items[0].qty",
		},
		{
			name: "manual price zero",
			mutate: func(i *models.QuoteItemCreateRequest) {
				zero := decimal.Zero
				i.UnitPrice = &zero
			},
			field: "items[0].unit_price",
		},
		{
			name: "manual price negative",
			mutate: func(i *models.QuoteItemCreateRequest) {
				neg := decimal.RequireFromString("-5")
				i.UnitPrice = &neg
			},
			field: "items[0].unit_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)
			req := &models.CreateQuoteRequest{
				CustomerID: 1,
				Items:      []models.QuoteItemCreateRequest{item},
			}

			v := ValidateCreateQuote(req)
			require.NotNil(t, v)
			assert.Contains(t, v.Fields, tt.field)
		})
	}
}

func TestValidateCreateQuoteDimensionBounds(t *testing.T) {
	item := validItem()
	item.WidthMm = 300
	item.HeightMm = 4000

	req := &models.CreateQuoteRequest{
		CustomerID: 1,
		Items:      []models.QuoteItemCreateRequest{item},
	}
	assert.Nil(t, ValidateCreateQuote(req), "bounds are inclusive")
}

func TestValidateCreateQuoteEmptyItems(t *testing.T) {
	req := &models.CreateQuoteRequest{CustomerID: 1}
	v := ValidateCreateQuote(req)
	require.NotNil(t, v)
	assert.Contains(t, v.Fields, "items")
}

func TestValidateCreateQuoteMissingCustomer(t *testing.T) {
	req := &models.CreateQuoteRequest{
		Items: []models.QuoteItemCreateRequest{validItem()},
	}
	v := ValidateCreateQuote(req)
	require.NotNil(t, v)
	assert.Contains(t, v.Fields, "customer_id")
}

func TestValidateCreateQuoteIndexesItemFields(t *testing.T) {
	bad := validItem()
	bad.Material = "wood"

	req := &models.CreateQuoteRequest{
		CustomerID: 1,
		Items:      []models.QuoteItemCreateRequest{validItem(), validItem(), bad},
	}

	v := ValidateCreateQuote(req)
	require.NotNil(t, v)
	assert.Contains(t, v.Fields, "items[2].material")
	assert.NotContains(t, v.Fields, "items[0].material")
}

func TestValidateCreateQuoteAccumulatesViolations(t *testing.T) {
	item := validItem()
	item.Material = "wood"
	item.Qty = 0

	req := &models.CreateQuoteRequest{
		CustomerID: 0,
		Items:      []models.QuoteItemCreateRequest{item},
	}

	v := ValidateCreateQuote(req)
	require.NotNil(t, v)
	assert.Len(t, v.Fields, 3)
	assert.NotEmpty(t, v.Error())
}

func TestValidateCreateCustomer(t *testing.T) {
	assert.Nil(t, ValidateCreateCustomer("Smith Construction"))

	v := ValidateCreateCustomer("   ")
	require.NotNil(t, v)
	assert.Contains(t, v.Fields, "name")
}
