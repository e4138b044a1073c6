package services

import (
	"fmt"
	"time"

	"github.com/themizzi/swaglabs/internal/models"
	"go.uber.org/zap"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	GetCart(username string) (*models.Cart, error)
	AddItem(username, productSlug string, addedAt time.Time) error
	RemoveItem(username, productSlug string) error
	ClearCart(username string) error
}

// CartLine is a cart item joined with its product
type CartLine struct {
	Product models.Product
	AddedAt time.Time
}

// CartService handles cart business logic
type CartService interface {
	AddToCart(username, productSlug string) error
	RemoveFromCart(username, productSlug string) error
	Cart(username string) (*models.Cart, error)
	Lines(username string) ([]CartLine, error)
	Count(username string) (int, error)
	Clear(username string) error
}

// CartServiceImpl implements CartService
type CartServiceImpl struct {
	cartRepo CartRepository
	catalog  *models.Catalog
	logger   *zap.Logger
	now      func() time.Time
}

// NewCartService creates a new cart service
func NewCartService(cartRepo CartRepository, catalog *models.Catalog, logger *zap.Logger) CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartServiceImpl{
		cartRepo: cartRepo,
		catalog:  catalog,
		logger:   logger,
		now:      time.Now,
	}
}

// AddToCart adds a catalog product to the user's cart
func (s *CartServiceImpl) AddToCart(username, productSlug string) error {
	if username == "" {
		return models.ErrEmptyUsername
	}
	if _, err := s.catalog.Lookup(productSlug); err != nil {
		return err
	}

	if err := s.cartRepo.AddItem(username, productSlug, s.now()); err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}

	s.logger.Debug("Added product to cart", zap.String("username", username), zap.String("product", productSlug))
	return nil
}

// RemoveFromCart removes a product from the user's cart
func (s *CartServiceImpl) RemoveFromCart(username, productSlug string) error {
	if username == "" {
		return models.ErrEmptyUsername
	}
	if err := s.cartRepo.RemoveItem(username, productSlug); err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}

	s.logger.Debug("Removed product from cart", zap.String("username", username), zap.String("product", productSlug))
	return nil
}

// Cart returns the user's cart
func (s *CartServiceImpl) Cart(username string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetCart(username)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// Lines returns the cart items with product details. Products no longer
// in the catalog are skipped.
func (s *CartServiceImpl) Lines(username string) ([]CartLine, error) {
	cart, err := s.Cart(username)
	if err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, cart.Count())
	for _, item := range cart.Items {
		p, err := s.catalog.Lookup(item.ProductSlug)
		if err != nil {
			s.logger.Warn("Skipping unknown product in cart", zap.String("product", item.ProductSlug))
			continue
		}
		lines = append(lines, CartLine{Product: p, AddedAt: item.AddedAt})
	}
	return lines, nil
}

// Count returns the number of items in the user's cart
func (s *CartServiceImpl) Count(username string) (int, error) {
	cart, err := s.Cart(username)
	if err != nil {
		return 0, err
	}
	return cart.Count(), nil
}

// Clear empties the user's cart
func (s *CartServiceImpl) Clear(username string) error {
	if err := s.cartRepo.ClearCart(username); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
