// Package cart implements the local cart state machine and the
// coordinator that keeps it synchronized with the remote order service.
//
// # State machine
//
// The cart is an ordered list of line items, unique by product ID. All
// changes go through Apply, a pure transition function:
//
//	LOAD   → replace state with a canonical server snapshot
//	ADD    → increment an existing line or append a new one
//	REMOVE → delete a line by product ID (absent ID is a no-op)
//	UPDATE → bump a line's quantity by ±1 (absent ID is a no-op)
//	REVERT → replace state with a previously captured snapshot
//
// Apply never mutates its input and performs no I/O, so the same
// (state, transition) pair always yields the same result.
//
// # Coordinator
//
// The Coordinator owns the canonical state and sequences each edit as:
// optimistic transition (synchronous) → remote commit (async) → on
// failure, REVERT to the snapshot captured at call time plus exactly one
// failure notification. See coordinator.go.
package cart

import (
	"github.com/vietddude/storefront/internal/core/domain"
)

// Kind discriminates the transition union.
type Kind string

const (
	KindLoad   Kind = "LOAD"
	KindAdd    Kind = "ADD"
	KindRemove Kind = "REMOVE"
	KindUpdate Kind = "UPDATE"
	KindRevert Kind = "REVERT"
)

// Direction is the quantity adjustment of an UPDATE transition.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// Transition is a tagged union; only the fields for its Kind are set.
// Use the constructor functions rather than building one by hand.
type Transition struct {
	Kind Kind

	// LOAD
	Items []domain.LineItem

	// ADD
	Product  domain.Product
	Quantity int

	// REMOVE, UPDATE
	ProductID string

	// UPDATE
	Direction Direction

	// REVERT
	Prior domain.CartState
}

// Load replaces the cart with a canonical server snapshot.
func Load(items []domain.LineItem) Transition {
	return Transition{Kind: KindLoad, Items: items}
}

// Add puts quantity units of product into the cart.
func Add(product domain.Product, quantity int) Transition {
	return Transition{Kind: KindAdd, Product: product, Quantity: quantity}
}

// Remove deletes the line item for productID.
func Remove(productID string) Transition {
	return Transition{Kind: KindRemove, ProductID: productID}
}

// Update adjusts the quantity of the line item for productID by one.
func Update(productID string, direction Direction) Transition {
	return Transition{Kind: KindUpdate, ProductID: productID, Direction: direction}
}

// Revert restores a previously captured snapshot.
func Revert(prior domain.CartState) Transition {
	return Transition{Kind: KindRevert, Prior: prior}
}

// Apply produces the next cart state from the current state and a
// transition. The input state is never modified. Unknown product IDs in
// REMOVE and UPDATE are no-ops; quantities are trusted as given, the
// state machine does not clamp against stock.
func Apply(state domain.CartState, t Transition) domain.CartState {
	switch t.Kind {
	case KindLoad:
		return domain.CartState(t.Items).Clone()

	case KindAdd:
		next := state.Clone()
		if i := next.IndexOf(t.Product.ID); i >= 0 {
			next[i].Quantity += t.Quantity
			return next
		}
		return append(next, domain.LineItem{Product: t.Product, Quantity: t.Quantity})

	case KindRemove:
		i := state.IndexOf(t.ProductID)
		if i < 0 {
			return state
		}
		next := make(domain.CartState, 0, len(state)-1)
		next = append(next, state[:i]...)
		next = append(next, state[i+1:]...)
		return next

	case KindUpdate:
		i := state.IndexOf(t.ProductID)
		if i < 0 {
			return state
		}
		next := state.Clone()
		switch t.Direction {
		case Increase:
			next[i].Quantity++
		case Decrease:
			next[i].Quantity--
		}
		return next

	case KindRevert:
		return t.Prior.Clone()
	}

	return state
}
