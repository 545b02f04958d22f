package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeQuote(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"Quote for Smith Construction: 2 uPVC casement windows, £672.00 inc VAT."}`))
	}))
	defer server.Close()

	client := NewAISummaryClient(server.URL, 5*time.Second)

	text, err := client.SummarizeQuote(context.Background(), "Smith Construction", []PricingQueryItem{
		{ProductType: "window", WidthMm: 1200, HeightMm: 900, Material: "uPVC", Glazing: "double", Qty: 2},
	}, 0.20)
	require.NoError(t, err)

	// The text is passed through untouched
	assert.Equal(t, "Quote for Smith Construction: 2 uPVC casement windows, £672.00 inc VAT.", text)

	assert.Equal(t, "/summarize-quote", gotPath)
	assert.Equal(t, "Smith Construction", gotBody["customer_name"])
	assert.Equal(t, 0.20, gotBody["vat_rate"])
	items, ok := gotBody["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestSummarizeQuoteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewAISummaryClient(server.URL, 5*time.Second)

	_, err := client.SummarizeQuote(context.Background(), "Smith Construction", nil, 0.20)
	assert.ErrorIs(t, err, ErrSummaryService)
}

func TestSummarizeQuoteTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background connection
		// read; otherwise the client disconnect is never detected and the
		// request context is never cancelled.
		io.ReadAll(r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewAISummaryClient(server.URL, 20*time.Millisecond)

	_, err := client.SummarizeQuote(context.Background(), "Smith Construction", nil, 0.20)
	assert.ErrorIs(t, err, ErrSummaryService)
}
