package domain

import (
	"time"
)

// OrderItem is a purchased product within an order.
type OrderItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Order is a past order as returned by the remote order service.
type Order struct {
	ID        string      `json:"_id"`
	Items     []OrderItem `json:"products"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}
