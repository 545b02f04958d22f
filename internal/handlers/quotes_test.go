package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reliant-hq/quote-api/internal/models"
)

func TestDistinctProductIDs(t *testing.T) {
	items := []models.QuoteItemCreateRequest{
		{ProductID: 3},
		{ProductID: 1},
		{ProductID: 3},
		{ProductID: 2},
		{ProductID: 1},
	}

	assert.Equal(t, []int{3, 1, 2}, distinctProductIDs(items))
	assert.Empty(t, distinctProductIDs(nil))
}

func TestLegalTransitions(t *testing.T) {
	allowed := func(from, to string) bool {
		for _, next := range legalTransitions[from] {
			if next == to {
				return true
			}
		}
		return false
	}

	assert.True(t, allowed(models.QuoteStatusDraft, models.QuoteStatusSent))
	assert.True(t, allowed(models.QuoteStatusSent, models.QuoteStatusAccepted))
	assert.True(t, allowed(models.QuoteStatusSent, models.QuoteStatusRejected))

	assert.False(t, allowed(models.QuoteStatusDraft, models.QuoteStatusAccepted))
	assert.False(t, allowed(models.QuoteStatusSent, models.QuoteStatusDraft))
	assert.False(t, allowed(models.QuoteStatusAccepted, models.QuoteStatusRejected))
	assert.False(t, allowed(models.QuoteStatusRejected, models.QuoteStatusSent))
}
