package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"github.com/samber/lo"
)

// CartPage lists the products in the cart
type CartPage struct {
	Page   playwright.Page
	finder Finder
}

// NewCartPage creates a cart page object
func NewCartPage(page playwright.Page, finder Finder) *CartPage {
	return &CartPage{Page: page, finder: finder}
}

// Title returns the "Your Cart" heading
func (p *CartPage) Title(ctx context.Context) (playwright.Locator, error) {
	return find(ctx, p.finder, p.Page, ".title", "Cart page title")
}

// ItemNames returns the product names in cart order. An empty cart has no
// element to heal against, so the list is read without the Finder.
func (p *CartPage) ItemNames() ([]string, error) {
	names, err := p.Page.Locator(".cart_item .inventory_item_name").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}
	return lo.Map(names, func(name string, _ int) string { return strings.TrimSpace(name) }), nil
}
