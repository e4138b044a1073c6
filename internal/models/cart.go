package models

import (
	"errors"
	"fmt"
	"time"
)

// CartItem is a product placed in a cart
type CartItem struct {
	ProductSlug string
	AddedAt     time.Time
}

// Cart holds the products a user intends to buy
type Cart struct {
	Username string
	Items    []CartItem
}

// Cart errors
var (
	ErrProductAlreadyInCart = errors.New("product is already in the cart")
	ErrProductNotInCart     = errors.New("product is not in the cart")
)

// NewCart creates an empty cart for username
func NewCart(username string) (*Cart, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	return &Cart{Username: username}, nil
}

// Add places a product in the cart. Each product can be added once.
func (c *Cart) Add(slug string, at time.Time) error {
	if c.Contains(slug) {
		return fmt.Errorf("%w: %s", ErrProductAlreadyInCart, slug)
	}
	c.Items = append(c.Items, CartItem{ProductSlug: slug, AddedAt: at})
	return nil
}

// Remove takes a product out of the cart
func (c *Cart) Remove(slug string) error {
	for i, item := range c.Items {
		if item.ProductSlug == slug {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProductNotInCart, slug)
}

// Contains reports whether the product is in the cart
func (c *Cart) Contains(slug string) bool {
	for _, item := range c.Items {
		if item.ProductSlug == slug {
			return true
		}
	}
	return false
}

// Count returns the number of items, shown in the cart badge
func (c *Cart) Count() int {
	return len(c.Items)
}

// IsEmpty returns true if nothing has been added
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Slugs returns the product slugs in the order they were added
func (c *Cart) Slugs() []string {
	slugs := make([]string, len(c.Items))
	for i, item := range c.Items {
		slugs[i] = item.ProductSlug
	}
	return slugs
}

// Total sums the prices of the cart's products
func (c *Cart) Total(catalog *Catalog) (int64, error) {
	var total int64
	for _, item := range c.Items {
		p, err := catalog.Lookup(item.ProductSlug)
		if err != nil {
			return 0, err
		}
		total += p.PriceCents
	}
	return total, nil
}
