package facets

import (
	"strings"

	"github.com/vapeworks/storefront-search/internal/attributes"
	"github.com/vapeworks/storefront-search/internal/models"
)

// Selection maps a canonical attribute key to the values selected for it.
// Keys are conjunctive; values within a key are disjunctive.
type Selection map[string][]string

// ParseSelection resolves raw URL-state filter values into a Selection plus
// the normalised list fed back to the aggregator for zero-count insertion.
// Values naming an attribute outside the filterable set are dropped.
func ParseSelection(values []string) (Selection, []string) {
	sel := make(Selection)
	var normalised []string

	for _, v := range values {
		key, raw, ok := parseSelectedValue(v)
		if !ok {
			continue
		}
		sel[key] = append(sel[key], raw)
		normalised = append(normalised, key+":"+raw)
	}

	return sel, normalised
}

// MatchesFilters reports whether a product satisfies every filter key. For
// each key the match sources are tried in priority order: structured
// product-level attributes, structured variant-level attributes, the
// vendor/raw-type product fields, and finally raw tags. A product with no
// usable source for a key fails that key. Comparison is case-insensitive
// throughout. An empty selection matches everything.
func MatchesFilters(p *models.Product, filters Selection) bool {
	if len(filters) == 0 {
		return true
	}
	if p == nil {
		return false
	}

	attrs := attributes.Parse(p.Attributes)
	productType := attrs.First(attributes.KeyProductType)
	if productType == "" {
		productType = p.ProductType
	}

	for key, wanted := range filters {
		if len(wanted) == 0 {
			continue
		}
		// Attributes that make no sense for this product's type are ignored
		// rather than treated as mismatches.
		if !attributes.IsApplicable(key, productType) {
			continue
		}
		if !matchesKey(p, attrs, key, wanted) {
			return false
		}
	}
	return true
}

func matchesKey(p *models.Product, attrs *attributes.ParsedAttributes, key string, wanted []string) bool {
	// (a) structured product-level attribute
	if anyMatch(attrs.Values(key), wanted) {
		return true
	}
	for listKey, groupKey := range productListKeys {
		if groupKey == key && anyMatch(attrs.Values(listKey), wanted) {
			return true
		}
	}

	// (b) structured variant-level attribute on any variant
	for _, variant := range p.Variants {
		vattrs := attributes.ParseVariant(variant.Attributes)
		if vattrs == nil {
			continue
		}
		for vkey, groupKey := range variantGroupKeys {
			if groupKey == key && anyMatch(vattrs.Values(vkey), wanted) {
				return true
			}
		}
	}

	// (c) product field fallback
	switch key {
	case attributes.KeyBrand:
		if containsFold(wanted, p.Vendor) {
			return true
		}
	case attributes.KeyProductType:
		if containsFold(wanted, p.ProductType) {
			return true
		}
	}

	// (d) raw tags as last resort: a bare tag equal to the value, or a
	// legacy filter tag for the same group.
	for _, tag := range p.Tags {
		if containsFold(wanted, strings.TrimSpace(tag)) {
			return true
		}
		if tagKey, tagVal, ok := ParseLegacyTag(tag); ok && tagKey == key && containsFold(wanted, tagVal) {
			return true
		}
	}

	return false
}

// FilterProducts narrows an in-memory result set to the products matching
// every selected filter. Order is preserved.
func FilterProducts(products []*models.Product, filters Selection) []*models.Product {
	if len(filters) == 0 {
		return products
	}

	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if MatchesFilters(p, filters) {
			out = append(out, p)
		}
	}
	return out
}

func anyMatch(have, wanted []string) bool {
	for _, h := range have {
		if containsFold(wanted, h) {
			return true
		}
	}
	return false
}

func containsFold(wanted []string, v string) bool {
	if v == "" {
		return false
	}
	for _, w := range wanted {
		if strings.EqualFold(w, v) {
			return true
		}
	}
	return false
}
