package pages

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// InventoryPage is the product list shown after signing in
type InventoryPage struct {
	Page   playwright.Page
	finder Finder
}

// NewInventoryPage creates an inventory page object
func NewInventoryPage(page playwright.Page, finder Finder) *InventoryPage {
	return &InventoryPage{Page: page, finder: finder}
}

// PageTitle returns the "Products" heading
func (p *InventoryPage) PageTitle(ctx context.Context) (playwright.Locator, error) {
	return find(ctx, p.finder, p.Page, ".title", "Products page title")
}

// AddProductToCart clicks the add button of the product with the given slug
func (p *InventoryPage) AddProductToCart(ctx context.Context, product string) error {
	return click(ctx, p.finder, p.Page,
		fmt.Sprintf(`[data-test="add-to-cart-%s"]`, product),
		fmt.Sprintf("Add to cart button for %s", product))
}

// RemoveProductFromCart clicks the remove button of the product with the given slug
func (p *InventoryPage) RemoveProductFromCart(ctx context.Context, product string) error {
	return click(ctx, p.finder, p.Page,
		fmt.Sprintf(`[data-test="remove-%s"]`, product),
		fmt.Sprintf("Remove button for %s", product))
}

// CartItemCount reads the cart badge
func (p *InventoryPage) CartItemCount(ctx context.Context) (int, error) {
	badge, err := find(ctx, p.finder, p.Page, ".shopping_cart_badge", "Shopping cart badge")
	if err != nil {
		return 0, err
	}
	text, err := badge.TextContent()
	if err != nil {
		return 0, fmt.Errorf("failed to read cart badge: %w", err)
	}
	return parseCount(text)
}

// OpenCart follows the cart link
func (p *InventoryPage) OpenCart(ctx context.Context) error {
	return click(ctx, p.finder, p.Page, ".shopping_cart_link", "Shopping cart link")
}
