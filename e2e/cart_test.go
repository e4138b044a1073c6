//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAddProductToCart tests the cart badge
// Feature: Shopping cart
//
//	As a shopper
//	I want to add products to my cart
//	So that I can buy them later
func TestAddProductToCart(t *testing.T) {
	// Scenario: Add a product
	//   Given I am logged in as "standard_user"
	//   When I add "sauce-labs-backpack" to the cart
	//   Then the cart badge should show 1
	p := openLoginPage(t)
	p.signIn(t, "standard_user")

	require.NoError(t, p.inventory.AddProductToCart(p.ctx, "sauce-labs-backpack"))

	count, err := p.inventory.CartItemCount(p.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCartPageListsProducts(t *testing.T) {
	// Scenario: Review the cart
	//   Given I am logged in as "standard_user"
	//   And I added "sauce-labs-backpack" and "sauce-labs-bike-light"
	//   When I open the cart
	//   Then I should see both products
	p := openLoginPage(t)
	p.signIn(t, "standard_user")

	require.NoError(t, p.inventory.AddProductToCart(p.ctx, "sauce-labs-backpack"))
	count, err := p.inventory.CartItemCount(p.ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.NoError(t, p.inventory.AddProductToCart(p.ctx, "sauce-labs-bike-light"))
	require.NoError(t, expect.Locator(p.page.Locator(".shopping_cart_badge")).ToHaveText("2"))

	require.NoError(t, p.inventory.OpenCart(p.ctx))
	title, err := p.cart.Title(p.ctx)
	require.NoError(t, err)
	require.NoError(t, expect.Locator(title).ToHaveText("Your Cart"))

	names, err := p.cart.ItemNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Sauce Labs Backpack", "Sauce Labs Bike Light"}, names)
}

func TestRemoveProductFromCart(t *testing.T) {
	// Scenario: Remove a product
	//   Given I am logged in as "standard_user"
	//   And I added "sauce-labs-backpack" to the cart
	//   When I remove it again
	//   Then the add button should be back
	//   And the cart should be empty
	p := openLoginPage(t)
	p.signIn(t, "standard_user")

	require.NoError(t, p.inventory.AddProductToCart(p.ctx, "sauce-labs-backpack"))
	require.NoError(t, p.inventory.RemoveProductFromCart(p.ctx, "sauce-labs-backpack"))

	addButton := p.page.Locator(`[data-test="add-to-cart-sauce-labs-backpack"]`)
	require.NoError(t, expect.Locator(addButton).ToBeVisible())
	require.NoError(t, expect.Locator(p.page.Locator(".shopping_cart_badge")).ToHaveCount(0))
}
