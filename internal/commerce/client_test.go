package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageOne = `{
  "data": {
    "products": {
      "pageInfo": {"hasNextPage": true, "endCursor": "cursor-1"},
      "nodes": [
        {
          "id": "gid://product/1",
          "handle": "acme-strawberry-10ml",
          "title": "Acme Strawberry 10ml",
          "vendor": "Acme",
          "productType": "E-Liquid",
          "tags": ["10mg", "Strawberry"],
          "priceRangeV2": {"minVariantPrice": {"amount": "3.99", "currencyCode": "GBP"}},
          "attributes": {"value": "{\"brand\": \"Acme\", \"nicotine_strength\": \"10mg\"}"},
          "variants": {
            "nodes": [
              {
                "id": "gid://variant/11",
                "title": "10mg",
                "sku": "ACM-STR-10",
                "availableForSale": true,
                "price": {"amount": "3.99", "currencyCode": "GBP"},
                "attributes": {"value": "{\"flavour\": \"Strawberry\"}"}
              }
            ]
          }
        }
      ]
    }
  }
}`

const pageTwo = `{
  "data": {
    "products": {
      "pageInfo": {"hasNextPage": false, "endCursor": ""},
      "nodes": [
        {
          "id": "gid://product/2",
          "handle": "zeta-pod-kit",
          "title": "Zeta Pod Kit",
          "vendor": "Zeta",
          "productType": "Pod Kit",
          "tags": [],
          "priceRangeV2": {"minVariantPrice": {"amount": "24.99", "currencyCode": "GBP"}},
          "attributes": null,
          "variants": {"nodes": []}
        }
      ]
    }
  }
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "test-token", r.Header.Get("X-Shopify-Access-Token"))

		var req graphqlRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		if req.Variables["after"] == "cursor-1" {
			w.Write([]byte(pageTwo))
			return
		}
		w.Write([]byte(pageOne))
	}))
}

func TestFetchPageMapsProducts(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	products, cursor, hasNext, err := client.FetchPage(context.Background(), "", "")
	require.NoError(t, err)
	assert.True(t, hasNext)
	assert.Equal(t, "cursor-1", cursor)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "gid://product/1", p.ID)
	assert.Equal(t, "acme-strawberry-10ml", p.Handle)
	assert.Equal(t, "Acme", p.Vendor)
	assert.Equal(t, "E-Liquid", p.ProductType)
	assert.Equal(t, []string{"10mg", "Strawberry"}, p.Tags)
	assert.Equal(t, "3.99", p.Price.Amount)
	assert.Equal(t, "GBP", p.Price.CurrencyCode)
	assert.JSONEq(t, `{"brand": "Acme", "nicotine_strength": "10mg"}`, p.Attributes)

	require.Len(t, p.Variants, 1)
	assert.Equal(t, "ACM-STR-10", p.Variants[0].SKU)
	assert.True(t, p.Variants[0].Available)
	assert.JSONEq(t, `{"flavour": "Strawberry"}`, p.Variants[0].Attributes)
}

func TestFetchAllWalksCursor(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	products, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "gid://product/1", products[0].ID)
	assert.Equal(t, "gid://product/2", products[1].ID)

	// A missing metafield maps to an empty blob, which the attribute parser
	// treats as "no attributes known".
	assert.Empty(t, products[1].Attributes)
	assert.NotNil(t, products[1].Tags)
}

func TestClientNotConfigured(t *testing.T) {
	client := NewClient("", "")
	assert.False(t, client.Configured())

	_, _, _, err := client.FetchPage(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrAPIError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			client := NewClient(server.URL, "test-token")
			_, _, _, err := client.FetchPage(context.Background(), "", "")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestClientGraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors": [{"message": "query cost exceeded"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	_, _, _, err := client.FetchPage(context.Background(), "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPIError)
	assert.Contains(t, err.Error(), "query cost exceeded")
}
