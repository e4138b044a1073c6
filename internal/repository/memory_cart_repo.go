package repository

import (
	"sync"
	"time"

	"github.com/themizzi/swaglabs/internal/models"
)

// MemoryCartRepository keeps carts in process memory
type MemoryCartRepository struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
}

// NewMemoryCartRepository creates an empty in-memory cart repository
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{
		carts: make(map[string]*models.Cart),
	}
}

// GetCart returns a copy of the user's cart
func (r *MemoryCartRepository) GetCart(username string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := &models.Cart{Username: username}
	if stored, ok := r.carts[username]; ok {
		cart.Items = append(cart.Items, stored.Items...)
	}
	return cart, nil
}

// AddItem adds a product to the user's cart
func (r *MemoryCartRepository) AddItem(username, productSlug string, addedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[username]
	if !ok {
		cart = &models.Cart{Username: username}
		r.carts[username] = cart
	}
	return cart.Add(productSlug, addedAt)
}

// RemoveItem removes a product from the user's cart
func (r *MemoryCartRepository) RemoveItem(username, productSlug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[username]
	if !ok {
		cart = &models.Cart{Username: username}
	}
	return cart.Remove(productSlug)
}

// ClearCart drops the user's cart
func (r *MemoryCartRepository) ClearCart(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, username)
	return nil
}
