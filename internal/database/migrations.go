package database

import (
	"database/sql"
	"fmt"
)

// Schema creates the tables used by the cart repository
const Schema = `
	CREATE TABLE IF NOT EXISTS cart_items (
		username VARCHAR(255) NOT NULL,
		product_slug VARCHAR(255) NOT NULL,
		added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (username, product_slug)
	);

	CREATE INDEX IF NOT EXISTS idx_cart_items_username ON cart_items(username);
	`

// RunMigrations creates the necessary database tables
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create cart_items table: %w", err)
	}

	return nil
}
