package facets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vapeworks/storefront-search/internal/models"
)

func gbp(amount string) models.Money {
	return models.Money{Amount: amount, CurrencyCode: "GBP"}
}

func TestSummarizePrices(t *testing.T) {
	products := []*models.Product{
		{ID: "p1", Price: gbp("10.00")},
		{ID: "p2", Price: gbp("20.00")},
	}

	summary := SummarizePrices(products, 0.20)
	require.NotNil(t, summary)
	assert.InDelta(t, 12.0, summary.Min, 1e-9)
	assert.InDelta(t, 24.0, summary.Max, 1e-9)
	assert.Equal(t, "GBP", summary.CurrencyCode)
}

func TestSummarizePricesSingleProduct(t *testing.T) {
	summary := SummarizePrices([]*models.Product{{ID: "p1", Price: gbp("9.99")}}, 0.20)
	require.NotNil(t, summary)
	assert.InDelta(t, 11.988, summary.Min, 1e-9)
	assert.InDelta(t, summary.Min, summary.Max, 1e-9)
}

func TestSummarizePricesSkipsUnparsableAmounts(t *testing.T) {
	products := []*models.Product{
		{ID: "p1", Price: models.Money{Amount: "not-a-number", CurrencyCode: "USD"}},
		{ID: "p2", Price: gbp("15.00")},
		{ID: "p3", Price: models.Money{Amount: "", CurrencyCode: "EUR"}},
	}

	summary := SummarizePrices(products, 0.0)
	require.NotNil(t, summary)
	assert.InDelta(t, 15.0, summary.Min, 1e-9)
	assert.InDelta(t, 15.0, summary.Max, 1e-9)
	// Currency comes from the first product that contributed a usable price,
	// not the first product in the list.
	assert.Equal(t, "GBP", summary.CurrencyCode)
}

func TestSummarizePricesNothingUsable(t *testing.T) {
	assert.Nil(t, SummarizePrices(nil, 0.20))
	assert.Nil(t, SummarizePrices([]*models.Product{}, 0.20))
	assert.Nil(t, SummarizePrices([]*models.Product{
		{ID: "p1", Price: models.Money{Amount: "free!"}},
		nil,
	}, 0.20))
}

func TestSummarizePricesVATRoundTrip(t *testing.T) {
	rates := []float64{0, 0.05, 0.20, 0.25}
	products := []*models.Product{
		{ID: "p1", Price: gbp("7.50")},
		{ID: "p2", Price: gbp("32.00")},
	}

	for _, rate := range rates {
		summary := SummarizePrices(products, rate)
		require.NotNil(t, summary)
		assert.InDelta(t, 7.50*(1+rate), summary.Min, 1e-9, "rate %v", rate)
		assert.InDelta(t, 32.00*(1+rate), summary.Max, 1e-9, "rate %v", rate)
	}
}
