package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/themizzi/swaglabs/internal/models"
)

// uniqueViolation is the PostgreSQL error code for a duplicate key
const uniqueViolation = "23505"

// CartRepository stores carts in PostgreSQL, one row per cart item
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository with a specific database connection
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{
		db: db,
	}
}

// GetCart loads a user's cart. Users without items get an empty cart.
func (r *CartRepository) GetCart(username string) (*models.Cart, error) {
	query := `
		SELECT product_slug, added_at
		FROM cart_items
		WHERE username = $1
		ORDER BY added_at, product_slug
	`

	rows, err := r.db.Query(query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	defer rows.Close()

	cart := &models.Cart{Username: username}
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.ProductSlug, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}

	return cart, nil
}

// AddItem inserts a cart item
func (r *CartRepository) AddItem(username, productSlug string, addedAt time.Time) error {
	query := `
		INSERT INTO cart_items (username, product_slug, added_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(query, username, productSlug, addedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", models.ErrProductAlreadyInCart, productSlug)
		}
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// RemoveItem deletes a cart item
func (r *CartRepository) RemoveItem(username, productSlug string) error {
	query := `
		DELETE FROM cart_items
		WHERE username = $1 AND product_slug = $2
	`

	result, err := r.db.Exec(query, username, productSlug)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrProductNotInCart, productSlug)
	}

	return nil
}

// ClearCart removes every item of a user's cart
func (r *CartRepository) ClearCart(username string) error {
	if _, err := r.db.Exec(`DELETE FROM cart_items WHERE username = $1`, username); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
