package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/vapeworks/storefront-search/internal/database"
	"github.com/vapeworks/storefront-search/internal/models"
)

// ListProducts returns a paginated list of synced products
func (h *Handler) ListProducts(c *fiber.Ctx) error {
	params := &models.ProductListParams{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
		Search: c.Query("search"),
		Vendor: c.Query("vendor"),
		Type:   c.Query("type"),
	}

	// Validate limits
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	products, total, err := h.db.ListProducts(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list products")
	}
	if products == nil {
		products = []*models.Product{}
	}

	return SuccessWithMeta(c, products, total, params.Limit, params.Offset)
}

// GetProduct returns a single product by its URL handle
func (h *Handler) GetProduct(c *fiber.Ctx) error {
	handle := c.Params("handle")
	if handle == "" {
		return Error(c, fiber.StatusBadRequest, "invalid product handle")
	}

	product, err := h.db.GetProductByHandle(c.Context(), handle)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			return Error(c, fiber.StatusNotFound, "product not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get product")
	}

	return Success(c, product)
}

// GetCatalogStats returns aggregate catalog statistics plus the most recent
// sync run
func (h *Handler) GetCatalogStats(c *fiber.Ctx) error {
	stats, err := h.db.GetCatalogStats(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to get catalog stats")
	}

	lastRun, err := h.db.LastSyncRun(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to get sync status")
	}

	return Success(c, fiber.Map{
		"catalog":   stats,
		"last_sync": lastRun,
	})
}

// TriggerSync runs a catalog sync immediately
func (h *Handler) TriggerSync(c *fiber.Ctx) error {
	result, err := h.sync.Run(c.Context())
	if err != nil {
		return Error(c, fiber.StatusBadGateway, "catalog sync failed: "+err.Error())
	}

	return Success(c, result)
}
