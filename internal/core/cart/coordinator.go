package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vietddude/storefront/internal/core/domain"
	"github.com/vietddude/storefront/internal/metrics"
)

// Mutator commits cart edits against the remote order service.
// Each call is a single round trip; the error detail is used only for
// logging and notification, never for branching.
type Mutator interface {
	CommitAdd(ctx context.Context, productID string, quantity int) error
	CommitRemove(ctx context.Context, productID string) error
	CommitUpdate(ctx context.Context, productID string, direction Direction) error
}

// OrderPlacer commits a checkout of the whole cart against the remote
// order service.
type OrderPlacer interface {
	Checkout(ctx context.Context) error
}

// Source is the data-cache subscription holding the authoritative cart
// snapshot. Invalidate marks it stale and triggers a refetch; Refetch
// forces one unconditionally.
type Source interface {
	Invalidate()
	Refetch()
}

// Notifier surfaces user-visible messages.
type Notifier interface {
	Error(message string)
	Info(message string)
}

// Coordinator owns the canonical cart state and keeps it synchronized
// with the remote order service.
//
// Every edit applies its optimistic transition synchronously, then
// commits remotely in the background. A failed commit reverts to the
// snapshot captured when that edit was issued and emits exactly one
// notification; no automatic retry. A successful commit invalidates the
// cart source so the next refresh delivers a canonical LOAD.
//
// Snapshots delivered by the source always win: OnSnapshot replaces
// local state unconditionally, even while a commit is in flight. There
// is no merging and no queueing of concurrent edits.
type Coordinator struct {
	mu       sync.Mutex
	state    domain.CartState
	identity string

	mutator  Mutator
	orders   OrderPlacer
	source   Source
	notifier Notifier
	log      *slog.Logger

	inflight sync.WaitGroup
}

// NewCoordinator creates a coordinator with an empty cart.
func NewCoordinator(mutator Mutator, orders OrderPlacer, notifier Notifier) *Coordinator {
	return &Coordinator{
		mutator:  mutator,
		orders:   orders,
		notifier: notifier,
		log:      slog.Default(),
	}
}

// AttachSource binds the cart data-cache subscription. The subscription
// is created after the coordinator (it needs the coordinator's snapshot
// callback), so this is a separate wiring step.
func (c *Coordinator) AttachSource(src Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = src
}

// Cart returns a read-only snapshot of the current cart contents.
func (c *Coordinator) Cart() []domain.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// AddItem optimistically puts quantity units of product into the cart
// and commits the addition remotely. Returns once the optimistic
// transition is applied. Quantity validation against stock is the
// caller's responsibility.
func (c *Coordinator) AddItem(ctx context.Context, product domain.Product, quantity int) {
	c.edit(ctx, "add", Add(product, quantity), func(ctx context.Context) error {
		return c.mutator.CommitAdd(ctx, product.ID, quantity)
	})
}

// RemoveItem optimistically deletes the line item for productID and
// commits the removal remotely.
func (c *Coordinator) RemoveItem(ctx context.Context, productID string) {
	c.edit(ctx, "remove", Remove(productID), func(ctx context.Context) error {
		return c.mutator.CommitRemove(ctx, productID)
	})
}

// UpdateItem optimistically bumps the quantity of the line item for
// productID by one in the given direction and commits the change
// remotely. An unknown productID is a no-op locally but is still
// committed, matching the remote service's own no-op semantics.
func (c *Coordinator) UpdateItem(ctx context.Context, direction Direction, productID string) {
	c.edit(ctx, "update", Update(productID, direction), func(ctx context.Context) error {
		return c.mutator.CommitUpdate(ctx, productID, direction)
	})
}

// edit is the optimistic-apply / async-commit / revert-on-failure
// sequence shared by the three public operations. The prior snapshot is
// captured per edit, so out-of-order completion of concurrent commits
// can only ever revert to the state immediately preceding its own edit.
func (c *Coordinator) edit(ctx context.Context, op string, t Transition, commit func(context.Context) error) {
	c.mu.Lock()
	prior := c.state.Clone()
	c.state = Apply(c.state, t)
	c.mu.Unlock()

	// The commit must outlive the caller's request scope.
	commitCtx := context.WithoutCancel(ctx)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		if err := commit(commitCtx); err != nil {
			c.mu.Lock()
			c.state = Apply(c.state, Revert(prior))
			c.mu.Unlock()

			c.log.Warn("Cart commit failed, reverting", "op", op, "error", err)
			c.notifier.Error("Could not update your cart, please try again")
			metrics.CartMutations.WithLabelValues(op, "failure").Inc()
			metrics.CartReverts.WithLabelValues(op).Inc()
			return
		}

		metrics.CartMutations.WithLabelValues(op, "success").Inc()

		c.mu.Lock()
		src := c.source
		c.mu.Unlock()
		if src != nil {
			src.Invalidate()
		}
	}()
}

// Checkout optimistically empties the cart and places an order for its
// contents. On failure the pre-checkout cart is restored with exactly
// one notification; on success the shopper is notified and the cart
// source invalidated so the next refresh confirms the empty cart.
func (c *Coordinator) Checkout(ctx context.Context) {
	c.mu.Lock()
	prior := c.state.Clone()
	c.state = Apply(c.state, Load(nil))
	c.mu.Unlock()

	commitCtx := context.WithoutCancel(ctx)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		if err := c.orders.Checkout(commitCtx); err != nil {
			c.mu.Lock()
			c.state = Apply(c.state, Revert(prior))
			c.mu.Unlock()

			c.log.Warn("Checkout failed, restoring cart", "error", err)
			c.notifier.Error("Could not place your order, please try again")
			metrics.CartMutations.WithLabelValues("checkout", "failure").Inc()
			metrics.CartReverts.WithLabelValues("checkout").Inc()
			return
		}

		c.notifier.Info("Order placed successfully")
		metrics.CartMutations.WithLabelValues("checkout", "success").Inc()

		c.mu.Lock()
		src := c.source
		c.mu.Unlock()
		if src != nil {
			src.Invalidate()
		}
	}()
}

// OnSnapshot replaces local state with a fresh canonical snapshot from
// the data cache. Last snapshot wins; any pending optimistic edit is
// overwritten rather than merged.
func (c *Coordinator) OnSnapshot(items []domain.LineItem) {
	c.mu.Lock()
	c.state = Apply(c.state, Load(items))
	c.mu.Unlock()

	c.log.Debug("Cart snapshot loaded", "items", len(items))
}

// OnIdentityChange reconciles the cart with an identity transition.
// A newly observed identity (login, or a valid credential decoded at
// app start) forces a refetch of the canonical cart. Logout does not
// clear local state; the anonymous leftover is a known gap kept for
// parity with the remote service's client.
func (c *Coordinator) OnIdentityChange(id *domain.Identity) {
	c.mu.Lock()
	src := c.source
	prev := c.identity
	if id != nil {
		c.identity = id.ID
	} else {
		c.identity = ""
	}
	changed := id != nil && id.ID != prev
	c.mu.Unlock()

	if changed && src != nil {
		c.log.Info("Identity changed, refetching cart", "user", id.ID)
		src.Refetch()
	}
}

// Wait blocks until all in-flight commits have resolved. Used at
// shutdown and in tests; normal operation never waits.
func (c *Coordinator) Wait() {
	c.inflight.Wait()
}
