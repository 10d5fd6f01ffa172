package domain

// LineItem is a single cart entry: a product reference and its quantity.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartState is the ordered cart contents, unique by Product.ID.
// Insertion order is preserved for stable rendering.
type CartState []LineItem

// Clone returns a deep-enough copy of the state. Line items are value
// types, so copying the slice is sufficient to make the snapshot
// independent of later edits.
func (s CartState) Clone() CartState {
	if s == nil {
		return nil
	}
	out := make(CartState, len(s))
	copy(out, s)
	return out
}

// IndexOf returns the position of the line item for productID, or -1.
func (s CartState) IndexOf(productID string) int {
	for i, item := range s {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// TotalQuantity sums the quantities of all line items.
func (s CartState) TotalQuantity() int {
	total := 0
	for _, item := range s {
		total += item.Quantity
	}
	return total
}
