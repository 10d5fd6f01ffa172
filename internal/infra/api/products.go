package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vietddude/storefront/internal/core/domain"
)

// ProductQuery narrows a catalog listing.
type ProductQuery struct {
	Search   string
	Category string
	Page     int
	SortBy   string
}

// Values encodes the query as request parameters.
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	return v
}

// CacheKey returns a stable data-cache key for this query.
func (q ProductQuery) CacheKey() string {
	return "products?" + q.Values().Encode()
}

// ProductClient reads the product catalog.
type ProductClient struct {
	c *Client
}

// NewProductClient creates a catalog client over the shared transport.
func NewProductClient(c *Client) *ProductClient {
	return &ProductClient{c: c}
}

// FetchProducts retrieves one page of the catalog.
func (pc *ProductClient) FetchProducts(ctx context.Context, q ProductQuery) (domain.ProductPage, error) {
	var page domain.ProductPage
	if err := pc.c.get(ctx, "/products", "/products", q.Values(), &page); err != nil {
		return domain.ProductPage{}, fmt.Errorf("fetch products: %w", err)
	}
	return page, nil
}

// FetchProduct retrieves a single product by ID.
func (pc *ProductClient) FetchProduct(ctx context.Context, id string) (domain.Product, error) {
	var product domain.Product
	path := "/products/" + url.PathEscape(id)
	if err := pc.c.get(ctx, "/products/{id}", path, nil, &product); err != nil {
		return domain.Product{}, fmt.Errorf("fetch product: %w", err)
	}
	return product, nil
}

// FetchSuggestions retrieves search-bar suggestions for a partial query.
func (pc *ProductClient) FetchSuggestions(ctx context.Context, search string) ([]domain.Suggestion, error) {
	v := url.Values{}
	v.Set("search", search)

	var suggestions []domain.Suggestion
	if err := pc.c.get(ctx, "/products/suggestions", "/products/suggestions", v, &suggestions); err != nil {
		return nil, fmt.Errorf("fetch suggestions: %w", err)
	}
	return suggestions, nil
}
