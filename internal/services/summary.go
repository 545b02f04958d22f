package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const summarizeQuotePath = "/summarize-quote"

// ErrSummaryService marks upstream failures of the summary call. Unlike
// pricing failures these are always surfaced to the caller.
var ErrSummaryService = errors.New("summary service error")

// SummaryClient produces a human-readable description of a draft quote.
// Implementations make exactly one call; no fallback text is synthesized.
type SummaryClient interface {
	SummarizeQuote(ctx context.Context, customerName string, items []PricingQueryItem, vatRate float64) (string, error)
}

// AISummaryClient calls the external AI summary endpoint over HTTP.
// Its timeout is deliberately aggressive: a summary that cannot be produced
// quickly should fail fast rather than hold the request open.
type AISummaryClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAISummaryClient creates a summary client with the given request timeout
func NewAISummaryClient(baseURL string, timeout time.Duration) *AISummaryClient {
	return &AISummaryClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type summarizeQuoteRequest struct {
	CustomerName string             `json:"customer_name"`
	Items        []PricingQueryItem `json:"items"`
	VatRate      float64            `json:"vat_rate"`
}

type summarizeQuoteResponse struct {
	Text string `json:"text"`
}

// SummarizeQuote issues one summary call and returns its text verbatim
func (c *AISummaryClient) SummarizeQuote(ctx context.Context, customerName string, items []PricingQueryItem, vatRate float64) (string, error) {
	body, err := json.Marshal(summarizeQuoteRequest{
		CustomerName: customerName,
		Items:        items,
		VatRate:      vatRate,
	})
	if err != nil {
		return "", fmt.Errorf("encoding summary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+summarizeQuotePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating summary request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSummaryService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrSummaryService, resp.StatusCode)
	}

	var parsed summarizeQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSummaryService, err)
	}

	return parsed.Text, nil
}
