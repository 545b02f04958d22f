package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const predictBatchPath = "/predict-quote/batch"

var (
	ErrPricingService  = errors.New("pricing service error")
	ErrPricingResponse = errors.New("malformed pricing response")
)

// PricingQueryItem is the feature vector sent to the AI service for one
// quote item that needs a predicted price
type PricingQueryItem struct {
	ProductType       string  `json:"product_type"`
	WidthMm           int     `json:"width_mm"`
	HeightMm          int     `json:"height_mm"`
	Material          string  `json:"material"`
	Glazing           string  `json:"glazing"`
	ColorTier         *string `json:"color_tier,omitempty"`
	HardwareTier      *string `json:"hardware_tier,omitempty"`
	InstallComplexity *string `json:"install_complexity,omitempty"`
	Qty               int     `json:"qty"`
}

// PricingClient predicts unit prices for a batch of quote items. The
// response is positionally correlated to the request: result[k] prices
// item[k]. Implementations make exactly one call per batch.
type PricingClient interface {
	PredictUnitPrices(ctx context.Context, items []PricingQueryItem) ([]decimal.Decimal, error)
}

// AIPricingClient calls the external AI pricing service over HTTP
type AIPricingClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAIPricingClient creates a pricing client with the given request timeout
func NewAIPricingClient(baseURL string, timeout time.Duration) *AIPricingClient {
	return &AIPricingClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type predictBatchRequest struct {
	Items []PricingQueryItem `json:"items"`
}

// The service may send extra fields per item (e.g. "features"); they are
// ignored here.
type predictBatchResponse struct {
	Items []struct {
		UnitPrice  decimal.Decimal `json:"unit_price"`
		Confidence float64         `json:"confidence"`
	} `json:"items"`
}

// PredictUnitPrices issues one batched prediction call and returns the
// predicted unit prices in request order
func (c *AIPricingClient) PredictUnitPrices(ctx context.Context, items []PricingQueryItem) ([]decimal.Decimal, error) {
	body, err := json.Marshal(predictBatchRequest{Items: items})
	if err != nil {
		return nil, fmt.Errorf("encoding pricing request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+predictBatchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating pricing request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPricingService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrPricingService, resp.StatusCode)
	}

	var parsed predictBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPricingResponse, err)
	}

	prices := make([]decimal.Decimal, len(parsed.Items))
	for i, item := range parsed.Items {
		prices[i] = item.UnitPrice
	}

	return prices, nil
}
