package facets

import (
	"math"
	"strconv"

	"github.com/vapeworks/storefront-search/internal/models"
)

// DefaultVATRate is the display markup applied when no rate is configured.
const DefaultVATRate = 0.20

// SummarizePrices scans each product's minimum variant price and returns the
// tax-inclusive range for the result set: the backend stores pre-tax
// amounts, so both bounds are scaled by (1 + vatRate) for display. Amounts
// that fail to parse are skipped; nil is returned when nothing was usable.
// The currency code comes from the first contributing product — the catalog
// is single-currency and mixed currencies are deliberately not handled.
func SummarizePrices(products []*models.Product, vatRate float64) *models.PriceSummary {
	var (
		min, max float64
		currency string
		found    bool
	)

	for _, p := range products {
		if p == nil {
			continue
		}
		amount, err := strconv.ParseFloat(p.Price.Amount, 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
			continue
		}

		if !found {
			min, max = amount, amount
			currency = p.Price.CurrencyCode
			found = true
			continue
		}
		if amount < min {
			min = amount
		}
		if amount > max {
			max = amount
		}
	}

	if !found {
		return nil
	}

	factor := 1 + vatRate
	return &models.PriceSummary{
		Min:          min * factor,
		Max:          max * factor,
		CurrencyCode: currency,
	}
}
