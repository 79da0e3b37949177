package models

import (
	"time"
)

// Money is an amount as the commerce backend reports it: a decimal string
// plus an ISO currency code. Amounts stay strings until something actually
// needs arithmetic.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// ProductVariant is a purchasable configuration of a product. Attributes
// holds the raw per-variant attribute blob from the backend, empty when the
// variant has none.
type ProductVariant struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	SKU        string `json:"sku,omitempty"`
	Price      Money  `json:"price"`
	Attributes string `json:"attributes,omitempty"`
	Available  bool   `json:"available"`
}

// Product is one catalog entry as synced from the commerce backend.
// Attributes is the raw product-level attribute blob (a JSON-encoded
// metafield); it is decoded lazily and tolerantly by the attributes package.
type Product struct {
	ID          string           `json:"id"`
	Handle      string           `json:"handle"`
	Title       string           `json:"title"`
	Vendor      string           `json:"vendor,omitempty"`
	ProductType string           `json:"product_type,omitempty"`
	Tags        []string         `json:"tags"`
	Price       Money            `json:"min_price"`
	Attributes  string           `json:"attributes,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
	SyncedAt    time.Time        `json:"synced_at,omitempty"`
}

// ProductListParams contains parameters for listing products
type ProductListParams struct {
	Limit  int
	Offset int
	Search string
	Vendor string
	Type   string
}

// CatalogStats contains aggregate statistics for the synced catalog
type CatalogStats struct {
	TotalProducts  int        `json:"total_products"`
	Vendors        int        `json:"vendors"`
	ProductTypes   int        `json:"product_types"`
	WithAttributes int        `json:"with_attributes"`
	LastSyncedAt   *time.Time `json:"last_synced_at,omitempty"`
}

// SyncRun records one catalog import from the commerce backend
type SyncRun struct {
	ID           int        `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	ProductCount int        `json:"product_count"`
	PrunedCount  int        `json:"pruned_count"`
	Status       string     `json:"status"`
	Error        *string    `json:"error,omitempty"`
}
