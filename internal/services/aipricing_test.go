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

func TestPredictUnitPrices(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"unit_price":281.74,"confidence":0.91},{"unit_price":940.10,"confidence":0.88}]}`))
	}))
	defer server.Close()

	client := NewAIPricingClient(server.URL, 10*time.Second)

	tier := "Premium"
	prices, err := client.PredictUnitPrices(context.Background(), []PricingQueryItem{
		{ProductType: "window", WidthMm: 1200, HeightMm: 900, Material: "uPVC", Glazing: "double", Qty: 2},
		{ProductType: "door", WidthMm: 900, HeightMm: 2100, Material: "Composite", Glazing: "double", ColorTier: &tier, Qty: 1},
	})
	require.NoError(t, err)
	require.Len(t, prices, 2)

	assert.Equal(t, "/predict-quote/batch", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "281.74", prices[0].StringFixed(2))
	assert.Equal(t, "940.10", prices[1].StringFixed(2))

	items, ok := gotBody["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)

	first := items[0].(map[string]interface{})
	assert.Equal(t, "window", first["product_type"])
	assert.Equal(t, float64(1200), first["width_mm"])
	assert.Equal(t, float64(900), first["height_mm"])
	assert.Equal(t, "uPVC", first["material"])
	assert.Equal(t, float64(2), first["qty"])
	assert.NotContains(t, first, "color_tier")

	second := items[1].(map[string]interface{})
	assert.Equal(t, "Premium", second["color_tier"])
}

func TestPredictUnitPricesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewAIPricingClient(server.URL, 10*time.Second)

	_, err := client.PredictUnitPrices(context.Background(), []PricingQueryItem{{ProductType: "window"}})
	assert.ErrorIs(t, err, ErrPricingService)
}

func TestPredictUnitPricesMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewAIPricingClient(server.URL, 10*time.Second)

	_, err := client.PredictUnitPrices(context.Background(), []PricingQueryItem{{ProductType: "window"}})
	assert.ErrorIs(t, err, ErrPricingResponse)
}

func TestPredictUnitPricesContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background connection
		// read; otherwise the client disconnect is never detected and the
		// request context is never cancelled.
		io.ReadAll(r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewAIPricingClient(server.URL, 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.PredictUnitPrices(ctx, []PricingQueryItem{{ProductType: "window"}})
	assert.ErrorIs(t, err, ErrPricingService)
}
