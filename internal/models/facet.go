package models

// FacetOption is one selectable value within a facet group. Value is the
// composite "attributeKey:rawValue" key that round-trips through URL state;
// Count is the number of distinct products in the current result set carrying
// the value. A selected option stays visible with Count 0 even when no
// product in the result set matches it.
type FacetOption struct {
	Value         string `json:"value"`
	Label         string `json:"label"`
	Count         int    `json:"count"`
	OriginalValue string `json:"original_value,omitempty"`
}

// FacetGroup is one filterable attribute with its distinct values. Groups are
// emitted in a fixed configuration order; a group with no options is dropped.
type FacetGroup struct {
	Key          string        `json:"key"`
	Label        string        `json:"label"`
	Options      []FacetOption `json:"options"`
	AttributeKey string        `json:"attribute_key,omitempty"`
}

// PriceSummary is the tax-inclusive price range of a result set. The backend
// stores pre-tax amounts; Min and Max carry the display markup already
// applied. All products are assumed to share one currency.
type PriceSummary struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	CurrencyCode string  `json:"currency_code"`
}
