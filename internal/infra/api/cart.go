package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vietddude/storefront/internal/core/cart"
	"github.com/vietddude/storefront/internal/core/domain"
)

// CartClient issues cart operations against the remote order service.
// It implements cart.Mutator.
type CartClient struct {
	c *Client
}

// NewCartClient creates a cart client over the shared transport.
func NewCartClient(c *Client) *CartClient {
	return &CartClient{c: c}
}

// FetchCart retrieves the canonical cart snapshot. This is the fetcher
// behind the cart data-cache subscription.
func (cc *CartClient) FetchCart(ctx context.Context) ([]domain.LineItem, error) {
	var items []domain.LineItem
	if err := cc.c.get(ctx, "/cart", "/cart", nil, &items); err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	return items, nil
}

// CommitAdd adds quantity units of a product to the remote cart.
func (cc *CartClient) CommitAdd(ctx context.Context, productID string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	path := "/cart/" + url.PathEscape(productID)
	if err := cc.c.post(ctx, "/cart/{id}", path, body, nil); err != nil {
		return fmt.Errorf("commit add: %w", err)
	}
	return nil
}

// CommitRemove removes a product from the remote cart.
func (cc *CartClient) CommitRemove(ctx context.Context, productID string) error {
	path := "/cart/remove/" + url.PathEscape(productID)
	if err := cc.c.patch(ctx, "/cart/remove/{id}", path, nil, nil); err != nil {
		return fmt.Errorf("commit remove: %w", err)
	}
	return nil
}

// CommitUpdate adjusts a product's quantity in the remote cart by one
// in the given direction.
func (cc *CartClient) CommitUpdate(ctx context.Context, productID string, direction cart.Direction) error {
	path := "/cart/" + url.PathEscape(string(direction)) + "/" + url.PathEscape(productID)
	if err := cc.c.patch(ctx, "/cart/{direction}/{id}", path, nil, nil); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}
