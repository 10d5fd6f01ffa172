package api

import (
	"context"
	"fmt"

	"github.com/vietddude/storefront/internal/core/domain"
)

// OrderClient reads the shopper's order history.
type OrderClient struct {
	c *Client
}

// NewOrderClient creates an order client over the shared transport.
func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{c: c}
}

// FetchOrders retrieves the authenticated shopper's past orders.
func (oc *OrderClient) FetchOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := oc.c.get(ctx, "/order", "/order", nil, &orders); err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	return orders, nil
}

// Checkout places an order for the shopper's current remote cart. The
// service builds the order from its own cart state, so the request
// carries no body. Single round trip, no retry.
func (oc *OrderClient) Checkout(ctx context.Context) error {
	if err := oc.c.post(ctx, "/order/checkout", "/order/checkout", nil, nil); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return nil
}
