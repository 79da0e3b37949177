package facets

import (
	"sort"
	"strings"
	"unicode"

	"github.com/vapeworks/storefront-search/internal/attributes"
	"github.com/vapeworks/storefront-search/internal/models"
)

// optionAcc accumulates one facet option. The product-ID set is what makes
// counts per-product: a value contributed by both a product blob and three
// of its variants still counts once.
type optionAcc struct {
	value         string
	label         string
	originalValue string
	products      map[string]struct{}
	selected      bool
}

// aggregator holds the per-call working state. It is built and discarded
// inside BuildFacetGroups; nothing is shared between calls.
type aggregator struct {
	groups map[string]map[string]*optionAcc
	// structured tracks product -> group keys that received a value from the
	// structured (blob) path. The fallback passes only fill gaps.
	structured map[string]map[string]bool
}

func newAggregator() *aggregator {
	return &aggregator{
		groups:     make(map[string]map[string]*optionAcc),
		structured: make(map[string]map[string]bool),
	}
}

// BuildFacetGroups computes the facet groups for a result set given the
// currently selected filter values. Selected values that match nothing are
// kept visible with a count of 0. Groups come out in the fixed configuration
// order with empty groups dropped.
func BuildFacetGroups(products []*models.Product, selected []string) []models.FacetGroup {
	acc := newAggregator()

	for _, p := range products {
		if p == nil {
			continue
		}
		acc.collectProduct(p)
	}

	for _, sel := range selected {
		key, raw, ok := parseSelectedValue(sel)
		if !ok {
			continue
		}
		if opt := acc.ensure(key, raw); opt != nil {
			opt.selected = true
		}
	}

	return acc.emit()
}

func (a *aggregator) collectProduct(p *models.Product) {
	attrs := attributes.Parse(p.Attributes)

	productType := attrs.First(attributes.KeyProductType)
	if productType == "" {
		productType = p.ProductType
	}

	// Structured product-level pass.
	for _, cfg := range groupConfigs {
		if !attributes.IsApplicable(cfg.Key, productType) {
			continue
		}
		for _, val := range attrs.Values(cfg.Key) {
			a.add(cfg.Key, val, p.ID)
			a.markStructured(p.ID, cfg.Key)
		}
	}
	for listKey, groupKey := range productListKeys {
		if !attributes.IsApplicable(listKey, productType) {
			continue
		}
		for _, val := range attrs.Values(listKey) {
			a.add(groupKey, val, p.ID)
			a.markStructured(p.ID, groupKey)
		}
	}

	// Structured variant-level pass. Values supplement the product-level
	// ones; the shared product-ID set keeps the count per product.
	for _, variant := range p.Variants {
		vattrs := attributes.ParseVariant(variant.Attributes)
		if vattrs == nil {
			continue
		}
		for vkey, groupKey := range variantGroupKeys {
			if !attributes.IsApplicable(groupKey, productType) {
				continue
			}
			for _, val := range vattrs.Values(vkey) {
				a.add(groupKey, val, p.ID)
				a.markStructured(p.ID, groupKey)
			}
		}
	}

	// Fallback enrichment for gaps the structured blobs left: vendor and raw
	// product type fields, then tag heuristics.
	if p.Vendor != "" && !a.hasStructured(p.ID, attributes.KeyBrand) {
		a.add(attributes.KeyBrand, p.Vendor, p.ID)
	}
	if p.ProductType != "" && !a.hasStructured(p.ID, attributes.KeyProductType) {
		a.add(attributes.KeyProductType, p.ProductType, p.ID)
	}
	for key, vals := range DeriveFromTags(p.Tags) {
		if a.hasStructured(p.ID, key) || !attributes.IsApplicable(key, productType) {
			continue
		}
		for _, val := range vals {
			a.add(key, val, p.ID)
		}
	}

	// Legacy "filter:<group>:<value>" tags, same gap-fill rule.
	for _, tag := range p.Tags {
		key, val, ok := ParseLegacyTag(tag)
		if !ok || a.hasStructured(p.ID, key) {
			continue
		}
		a.add(key, val, p.ID)
	}
}

func (a *aggregator) add(groupKey, raw, productID string) {
	opt := a.ensure(groupKey, raw)
	if opt == nil {
		return
	}
	opt.products[productID] = struct{}{}
}

// ensure returns the option accumulator for groupKey+raw, creating it with
// an empty product set when absent. Unknown group keys yield nil.
func (a *aggregator) ensure(groupKey, raw string) *optionAcc {
	if _, ok := configByKey[groupKey]; !ok {
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	group := a.groups[groupKey]
	if group == nil {
		group = make(map[string]*optionAcc)
		a.groups[groupKey] = group
	}

	composite := groupKey + ":" + raw
	opt := group[composite]
	if opt == nil {
		opt = &optionAcc{
			value:         composite,
			label:         formatLabel(raw),
			originalValue: raw,
			products:      make(map[string]struct{}),
		}
		group[composite] = opt
	}
	return opt
}

func (a *aggregator) markStructured(productID, groupKey string) {
	m := a.structured[productID]
	if m == nil {
		m = make(map[string]bool)
		a.structured[productID] = m
	}
	m[groupKey] = true
}

func (a *aggregator) hasStructured(productID, groupKey string) bool {
	return a.structured[productID][groupKey]
}

func (a *aggregator) emit() []models.FacetGroup {
	var out []models.FacetGroup

	for _, cfg := range groupConfigs {
		options := mergeByLabel(a.groups[cfg.Key])
		if len(options) == 0 {
			continue
		}
		sortOptions(options, cfg.Alphabetical)

		out = append(out, models.FacetGroup{
			Key:          cfg.Key,
			Label:        cfg.Label,
			Options:      options,
			AttributeKey: cfg.Key,
		})
	}

	return out
}

// mergeByLabel collapses options that render the same label, unioning their
// product-ID sets so a product present under both keys is not counted twice.
// A selected composite key survives the merge so its value stays addressable
// from URL state; otherwise the smallest key wins for determinism.
func mergeByLabel(group map[string]*optionAcc) []models.FacetOption {
	if len(group) == 0 {
		return nil
	}

	keys := make([]string, 0, len(group))
	for k := range group {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	byLabel := make(map[string]*optionAcc)
	order := make([]string, 0, len(keys))
	for _, k := range keys {
		opt := group[k]
		existing := byLabel[opt.label]
		if existing == nil {
			byLabel[opt.label] = opt
			order = append(order, opt.label)
			continue
		}
		for id := range opt.products {
			existing.products[id] = struct{}{}
		}
		if opt.selected && !existing.selected {
			existing.value = opt.value
			existing.originalValue = opt.originalValue
			existing.selected = true
		}
	}

	options := make([]models.FacetOption, 0, len(order))
	for _, label := range order {
		opt := byLabel[label]
		options = append(options, models.FacetOption{
			Value:         opt.value,
			Label:         opt.label,
			Count:         len(opt.products),
			OriginalValue: opt.originalValue,
		})
	}
	return options
}

func sortOptions(options []models.FacetOption, alphabetical bool) {
	sort.SliceStable(options, func(i, j int) bool {
		li, lj := strings.ToLower(options[i].Label), strings.ToLower(options[j].Label)
		if alphabetical {
			if li != lj {
				return li < lj
			}
			return options[i].Label < options[j].Label
		}
		if options[i].Count != options[j].Count {
			return options[i].Count > options[j].Count
		}
		if li != lj {
			return li < lj
		}
		return options[i].Label < options[j].Label
	})
}

// parseSelectedValue resolves one URL-state filter value, either a composite
// "attributeKey:value" or a legacy "filter:group:value". Unknown attribute
// names are ignored entirely.
func parseSelectedValue(v string) (key, raw string, ok bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", "", false
	}

	if strings.HasPrefix(strings.ToLower(v), legacyTagPrefix) {
		return ParseLegacyTag(v)
	}

	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	key = canonicalKey(strings.ToLower(strings.TrimSpace(parts[0])))
	raw = strings.TrimSpace(parts[1])
	if key == "" || raw == "" {
		return "", "", false
	}
	return key, raw, true
}

// formatLabel renders a raw facet value for humans: underscores become
// spaces and all-lowercase alphabetic words get an initial capital. Values
// carrying digits ("10mg", "50ml") pass through untouched.
func formatLabel(raw string) string {
	words := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '_' || r == ' '
	})

	for i, word := range words {
		if word == strings.ToLower(word) && isAlphabetic(word) {
			r := []rune(word)
			r[0] = unicode.ToUpper(r[0])
			words[i] = string(r)
		}
	}
	return strings.Join(words, " ")
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '-' {
			return false
		}
	}
	return len(s) > 0
}
