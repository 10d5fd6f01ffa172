// Package control wires the storefront together and manages its
// lifecycle: API clients, data cache, identity, cart coordinator and
// the health/metrics server.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/storefront/internal/core/cart"
	"github.com/vietddude/storefront/internal/core/domain"
	"github.com/vietddude/storefront/internal/core/identity"
	"github.com/vietddude/storefront/internal/core/notify"
	"github.com/vietddude/storefront/internal/health"
	"github.com/vietddude/storefront/internal/infra/api"
	"github.com/vietddude/storefront/internal/infra/cache"
)

// cartCacheKey is the data-cache key of the canonical cart snapshot.
const cartCacheKey = "cart"

// Config holds the application configuration.
type Config struct {
	Port  int
	API   api.Config
	Redis cache.RedisConfig
	Cache CacheConfig
	Auth  AuthConfig
}

// CacheConfig holds data cache tuning.
type CacheConfig struct {
	StaleTime       time.Duration
	RefreshInterval time.Duration
}

// AuthConfig holds credential storage settings.
type AuthConfig struct {
	TokenFile string
}

// Storefront is the main application struct that owns all components.
type Storefront struct {
	cfg Config

	tokens        identity.TokenStore
	observer      *identity.Observer
	apiClient     *api.Client
	cartClient    *api.CartClient
	productClient *api.ProductClient
	userClient    *api.UserClient
	orderClient   *api.OrderClient

	store         *cache.Store
	redis         *cache.RedisCache
	notifications *notify.Center
	coordinator   *cart.Coordinator
	healthServer  *health.Server
	cartSub       *cache.Subscription[[]domain.LineItem]

	log *slog.Logger
}

// NewStorefront creates a Storefront with all dependencies initialized.
func NewStorefront(cfg Config) (*Storefront, error) {
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api base URL is required")
	}

	tokens := identity.NewFileTokenStore(cfg.Auth.TokenFile)
	observer := identity.NewObserver(tokens)
	apiClient := api.NewClient(cfg.API, observer)

	// Shared snapshot tier is optional; the storefront runs without it.
	var redisCache *cache.RedisCache
	var shared cache.SharedCache
	if cfg.Redis.URL != "" {
		var err error
		redisCache, err = cache.NewRedisCache(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, shared cache disabled", "error", err)
		} else {
			shared = redisCache
			slog.Info("Using Redis shared cache tier")
		}
	}

	store := cache.NewStore(shared, cfg.Cache.RefreshInterval)
	notifications := notify.NewCenter(50)

	cartClient := api.NewCartClient(apiClient)
	orderClient := api.NewOrderClient(apiClient)
	coordinator := cart.NewCoordinator(cartClient, orderClient, notifications)

	healthServer := health.NewServer(cfg.Port)
	if redisCache != nil {
		healthServer.RegisterCheck("redis", redisCache.Ping)
	}

	return &Storefront{
		cfg:           cfg,
		tokens:        tokens,
		observer:      observer,
		apiClient:     apiClient,
		cartClient:    cartClient,
		productClient: api.NewProductClient(apiClient),
		userClient:    api.NewUserClient(apiClient),
		orderClient:   orderClient,
		store:         store,
		redis:         redisCache,
		notifications: notifications,
		coordinator:   coordinator,
		healthServer:  healthServer,
		log:           slog.Default(),
	}, nil
}

// Start starts the background components and binds the cart to its
// data-cache subscription. The initial cart fetch and the app-start
// identity check happen here.
func (s *Storefront) Start(ctx context.Context) error {
	go func() {
		if err := s.healthServer.Start(); err != nil {
			s.log.Error("Health server failed", "error", err)
		}
	}()

	s.store.Start(ctx)

	// Cart snapshots always come from the remote service, never the
	// shared tier; every delivery replaces local state wholesale.
	sub := cache.Subscribe(s.store, cartCacheKey, s.cartClient.FetchCart, s.cfg.Cache.StaleTime)
	sub.OnChange(func(items []domain.LineItem) {
		s.coordinator.OnSnapshot(items)
	})
	s.cartSub = sub
	s.coordinator.AttachSource(sub)

	if id := s.observer.Current(); id != nil {
		s.log.Info("Restored identity from stored credential", "user", id.ID)
		s.coordinator.OnIdentityChange(id)
	}

	return nil
}

// Stop drains in-flight cart commits and shuts the server down.
func (s *Storefront) Stop(ctx context.Context) error {
	s.log.Info("Stopping Storefront...")

	done := make(chan struct{})
	go func() {
		s.coordinator.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("Timed out waiting for in-flight cart commits")
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Warn("Failed to close Redis", "error", err)
		}
	}

	return s.healthServer.Stop(ctx)
}

// Coordinator exposes the cart surface to UI consumers.
func (s *Storefront) Coordinator() *cart.Coordinator {
	return s.coordinator
}

// Notifications exposes the notification center.
func (s *Storefront) Notifications() *notify.Center {
	return s.notifications
}

// Identity returns the current authenticated identity, or nil.
func (s *Storefront) Identity() *domain.Identity {
	return s.observer.Current()
}

// Login authenticates, stores the credential and reconciles the cart
// with the new identity.
func (s *Storefront) Login(ctx context.Context, email, password string) error {
	token, err := s.userClient.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := s.tokens.Save(token); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	s.coordinator.OnIdentityChange(s.observer.Current())
	return nil
}

// Signup registers a new account, stores the credential and reconciles
// the cart with the new identity.
func (s *Storefront) Signup(ctx context.Context, in api.SignupInput) error {
	token, err := s.userClient.Signup(ctx, in)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	if err := s.tokens.Save(token); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	s.coordinator.OnIdentityChange(s.observer.Current())
	return nil
}

// Logout clears the stored credential. Local cart state is left as is;
// the next canonical snapshot overwrites it.
func (s *Storefront) Logout() error {
	if err := s.tokens.Clear(); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	s.coordinator.OnIdentityChange(nil)
	return nil
}

// Products returns a cached subscription for one page of the catalog.
// Catalog pages are shared across processes through the redis tier.
func (s *Storefront) Products(q api.ProductQuery) *cache.Subscription[domain.ProductPage] {
	fetch := func(ctx context.Context) (domain.ProductPage, error) {
		return s.productClient.FetchProducts(ctx, q)
	}
	return cache.Subscribe(s.store, q.CacheKey(), fetch, s.cfg.Cache.StaleTime, cache.Shared())
}

// Product returns a cached subscription for a single product.
func (s *Storefront) Product(id string) *cache.Subscription[domain.Product] {
	fetch := func(ctx context.Context) (domain.Product, error) {
		return s.productClient.FetchProduct(ctx, id)
	}
	return cache.Subscribe(s.store, "product:"+id, fetch, s.cfg.Cache.StaleTime, cache.Shared())
}

// Suggestions fetches search-bar suggestions directly; suggestion
// queries are too short-lived to be worth caching.
func (s *Storefront) Suggestions(ctx context.Context, search string) ([]domain.Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.productClient.FetchSuggestions(ctx, search)
}

// Orders fetches the shopper's order history.
func (s *Storefront) Orders(ctx context.Context) ([]domain.Order, error) {
	return s.orderClient.FetchOrders(ctx)
}
