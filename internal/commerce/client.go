// Package commerce talks to the hosted commerce platform's GraphQL product
// API. The service only reads: catalog pages for sync, keyword search for
// ad-hoc queries.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vapeworks/storefront-search/internal/models"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultPageSize = 100
)

var (
	ErrNotConfigured = errors.New("commerce api not configured")
	ErrAPIError      = errors.New("commerce api error")
	ErrUnauthorized  = errors.New("commerce api rejected credentials")
	ErrRateLimited   = errors.New("commerce api rate limited")
)

// Client is a commerce backend API client
type Client struct {
	endpoint   string
	token      string
	pageSize   int
	httpClient *http.Client
}

// NewClient creates a client for the given GraphQL endpoint. The token is
// sent as the platform's access-token header on every request.
func NewClient(endpoint, token string) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		pageSize: defaultPageSize,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Configured reports whether the client has an endpoint to talk to.
func (c *Client) Configured() bool {
	return c.endpoint != ""
}

const productsQuery = `
query Products($first: Int!, $after: String, $query: String) {
  products(first: $first, after: $after, query: $query) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      handle
      title
      vendor
      productType
      tags
      priceRangeV2 {
        minVariantPrice {
          amount
          currencyCode
        }
      }
      attributes: metafield(namespace: "custom", key: "attributes") {
        value
      }
      variants(first: 50) {
        nodes {
          id
          title
          sku
          availableForSale
          price {
            amount
            currencyCode
          }
          attributes: metafield(namespace: "custom", key: "attributes") {
            value
          }
        }
      }
    }
  }
}
`

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type metafieldNode struct {
	Value string `json:"value"`
}

type moneyNode struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type variantNode struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	SKU              string         `json:"sku"`
	AvailableForSale bool           `json:"availableForSale"`
	Price            moneyNode      `json:"price"`
	Attributes       *metafieldNode `json:"attributes"`
}

type productNode struct {
	ID           string   `json:"id"`
	Handle       string   `json:"handle"`
	Title        string   `json:"title"`
	Vendor       string   `json:"vendor"`
	ProductType  string   `json:"productType"`
	Tags         []string `json:"tags"`
	PriceRangeV2 struct {
		MinVariantPrice moneyNode `json:"minVariantPrice"`
	} `json:"priceRangeV2"`
	Attributes *metafieldNode `json:"attributes"`
	Variants   struct {
		Nodes []variantNode `json:"nodes"`
	} `json:"variants"`
}

type productsResponse struct {
	Data struct {
		Products struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Nodes []productNode `json:"nodes"`
		} `json:"products"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// FetchPage fetches one catalog page. after is the cursor from the previous
// page, empty for the first; query narrows the result set using the
// platform's search syntax and may be empty.
func (c *Client) FetchPage(ctx context.Context, query, after string) ([]*models.Product, string, bool, error) {
	if !c.Configured() {
		return nil, "", false, ErrNotConfigured
	}

	variables := map[string]interface{}{
		"first": c.pageSize,
	}
	if after != "" {
		variables["after"] = after
	}
	if query != "" {
		variables["query"] = query
	}

	var resp productsResponse
	if err := c.do(ctx, graphqlRequest{Query: productsQuery, Variables: variables}, &resp); err != nil {
		return nil, "", false, err
	}
	if len(resp.Errors) > 0 {
		return nil, "", false, fmt.Errorf("%w: %s", ErrAPIError, resp.Errors[0].Message)
	}

	page := resp.Data.Products
	products := make([]*models.Product, 0, len(page.Nodes))
	for _, node := range page.Nodes {
		products = append(products, mapProduct(node))
	}

	return products, page.PageInfo.EndCursor, page.PageInfo.HasNextPage, nil
}

// FetchAll walks the catalog cursor to the end and returns every product.
func (c *Client) FetchAll(ctx context.Context) ([]*models.Product, error) {
	var (
		all   []*models.Product
		after string
	)

	for {
		products, cursor, hasNext, err := c.FetchPage(ctx, "", after)
		if err != nil {
			return nil, err
		}
		all = append(all, products...)

		if !hasNext || cursor == "" {
			return all, nil
		}
		after = cursor
	}
}

// SearchProducts runs a keyword search against the backend and returns up to
// limit products.
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) ([]*models.Product, error) {
	products, _, _, err := c.FetchPage(ctx, query, "")
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (c *Client) do(ctx context.Context, payload graphqlRequest, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("X-Shopify-Access-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("commerce api request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func mapProduct(node productNode) *models.Product {
	p := &models.Product{
		ID:          node.ID,
		Handle:      node.Handle,
		Title:       node.Title,
		Vendor:      node.Vendor,
		ProductType: node.ProductType,
		Tags:        node.Tags,
		Price: models.Money{
			Amount:       node.PriceRangeV2.MinVariantPrice.Amount,
			CurrencyCode: node.PriceRangeV2.MinVariantPrice.CurrencyCode,
		},
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if node.Attributes != nil {
		p.Attributes = node.Attributes.Value
	}

	for _, v := range node.Variants.Nodes {
		variant := models.ProductVariant{
			ID:        v.ID,
			Title:     v.Title,
			SKU:       v.SKU,
			Available: v.AvailableForSale,
			Price: models.Money{
				Amount:       v.Price.Amount,
				CurrencyCode: v.Price.CurrencyCode,
			},
		}
		if v.Attributes != nil {
			variant.Attributes = v.Attributes.Value
		}
		p.Variants = append(p.Variants, variant)
	}

	return p
}
