package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vapeworks/storefront-search/internal/facets"
	"github.com/vapeworks/storefront-search/internal/models"
)

// SearchResponse is the payload the storefront UI renders a results page
// from: the filtered product page, the facet groups for the sidebar, and the
// tax-inclusive price range of the whole filtered set.
type SearchResponse struct {
	Products     []*models.Product    `json:"products"`
	Facets       []models.FacetGroup  `json:"facets"`
	PriceSummary *models.PriceSummary `json:"price_summary,omitempty"`
}

// Search runs a faceted catalog search. Keyword narrowing happens in the
// store; attribute filtering, facet counts and the price summary are
// computed in memory over the candidate window.
func (h *Handler) Search(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 24)
	offset := c.QueryInt("offset", 0)

	// Validate limits
	if limit < 1 || limit > 100 {
		limit = 24
	}
	if offset < 0 {
		offset = 0
	}

	selection, selected := facets.ParseSelection(filterValues(c))

	candidates, _, err := h.db.ListProducts(c.Context(), &models.ProductListParams{
		Search: c.Query("q"),
		Limit:  h.searchWindow(),
		Offset: 0,
	})
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to search products")
	}

	filtered := facets.FilterProducts(candidates, selection)
	groups := facets.BuildFacetGroups(filtered, selected)
	summary := facets.SummarizePrices(filtered, h.vatRate())

	page := paginate(filtered, limit, offset)
	resp := SearchResponse{
		Products:     page,
		Facets:       groups,
		PriceSummary: summary,
	}
	if resp.Products == nil {
		resp.Products = []*models.Product{}
	}
	if resp.Facets == nil {
		resp.Facets = []models.FacetGroup{}
	}

	return SuccessWithMeta(c, resp, len(filtered), limit, offset)
}

// filterValues collects every repeated "filter" query parameter. Composite
// "attributeKey:value" strings and legacy "filter:group:value" strings are
// both accepted.
func filterValues(c *fiber.Ctx) []string {
	raw := c.Context().QueryArgs().PeekMulti("filter")
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if len(v) > 0 {
			values = append(values, string(v))
		}
	}
	return values
}

func paginate(products []*models.Product, limit, offset int) []*models.Product {
	if offset >= len(products) {
		return nil
	}
	end := offset + limit
	if end > len(products) {
		end = len(products)
	}
	return products[offset:end]
}

func (h *Handler) searchWindow() int {
	if h.cfg.SearchWindow > 0 {
		return h.cfg.SearchWindow
	}
	return 250
}

func (h *Handler) vatRate() float64 {
	if h.cfg.VATRate < 0 {
		return facets.DefaultVATRate
	}
	return h.cfg.VATRate
}
